package filestore

import (
	"time"

	"sentinel/internal/domain"
)

type ledgerDocument struct {
	Version string          `json:"version"`
	Entries []correctionDoc `json:"entries"`
}

type correctionDoc struct {
	ID        string      `json:"id"`
	Action    string      `json:"action"`
	Target    string      `json:"target"`
	NodeIDs   []string    `json:"node_ids,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Prior     snapshotDoc `json:"prior"`
	Reason    string      `json:"reason,omitempty"`
}

type snapshotDoc struct {
	Node        *nodeDoc  `json:"node,omitempty"`
	Edges       []edgeDoc `json:"edges,omitempty"`
	NewRelation string    `json:"new_relation,omitempty"`
}

type ackDocument struct {
	Version string   `json:"version"`
	Entries []ackDoc `json:"entries"`
}

type ackDoc struct {
	Key       string    `json:"key"`
	Label     string    `json:"label,omitempty"`
	Path      string    `json:"path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func encodeCorrection(rec domain.CorrectionRecord) correctionDoc {
	doc := correctionDoc{
		ID:        rec.ID,
		Action:    string(rec.Action),
		Target:    rec.Target,
		NodeIDs:   rec.NodeIDs,
		Timestamp: rec.Timestamp.UTC(),
		Reason:    rec.Reason,
		Prior:     snapshotDoc{NewRelation: string(rec.Prior.NewRelation)},
	}
	if n := rec.Prior.Node; n != nil {
		seq := n.Seq
		doc.Prior.Node = &nodeDoc{
			ID:       n.ID,
			Name:     n.Name,
			Aliases:  n.Aliases,
			Origin:   string(n.Origin),
			Kind:     string(n.Kind),
			Category: n.Category,
			Seq:      &seq,
			Metadata: n.Metadata,
		}
	}
	for _, e := range rec.Prior.Edges {
		conf := e.Confidence
		doc.Prior.Edges = append(doc.Prior.Edges, edgeDoc{
			SourceID:    e.SourceID,
			TargetID:    e.TargetID,
			Relation:    string(e.Relation),
			RawRelation: e.RawRelation,
			Confidence:  &conf,
			Origin:      string(e.Origin),
			Tier:        string(e.Tier),
		})
	}
	return doc
}

func decodeCorrection(doc correctionDoc) domain.CorrectionRecord {
	rec := domain.CorrectionRecord{
		ID:        doc.ID,
		Action:    domain.CorrectionAction(doc.Action),
		Target:    doc.Target,
		NodeIDs:   doc.NodeIDs,
		Timestamp: doc.Timestamp,
		Reason:    doc.Reason,
	}
	if doc.Prior.NewRelation != "" {
		rec.Prior.NewRelation, _ = domain.ParseRelation(doc.Prior.NewRelation)
	}
	if nd := doc.Prior.Node; nd != nil {
		n := &domain.Node{
			ID:       nd.ID,
			Name:     nd.Name,
			Aliases:  nd.Aliases,
			Origin:   domain.ParseOrigin(nd.Origin),
			Kind:     domain.Kind(nd.Kind),
			Category: nd.Category,
			Metadata: nd.Metadata,
		}
		if nd.Seq != nil {
			n.Seq = *nd.Seq
		}
		rec.Prior.Node = n
	}
	for _, ed := range doc.Prior.Edges {
		rel, _ := domain.ParseRelation(ed.Relation)
		e := domain.Edge{
			SourceID:    ed.SourceID,
			TargetID:    ed.TargetID,
			Relation:    rel,
			RawRelation: ed.RawRelation,
			Origin:      domain.ParseOrigin(ed.Origin),
			Tier:        domain.MatchTier(ed.Tier),
		}
		if ed.Confidence != nil {
			e.Confidence = *ed.Confidence
		}
		rec.Prior.Edges = append(rec.Prior.Edges, e)
	}
	return rec
}
