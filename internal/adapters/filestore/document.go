package filestore

import (
	"fmt"
	"slices"
	"time"

	"sentinel/internal/domain"
)

// documentVersion is written to every document. Older documents are read
// with defaults for fields they lack.
const documentVersion = "2"

// legacyEdgeConfidence is assumed for version 1 edges saved without a confidence
const legacyEdgeConfidence = 0.8

type graphDocument struct {
	Version            string    `json:"version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	ConsolidationPass  string    `json:"consolidation_pass,omitempty"`
	CorrectionsApplied int       `json:"corrections_applied"`
	Nodes              []nodeDoc `json:"nodes"`
	Edges              []edgeDoc `json:"edges"`
}

type nodeDoc struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Aliases  []string          `json:"aliases,omitempty"`
	Origin   string            `json:"origin,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Category string            `json:"category,omitempty"`
	Seq      *int              `json:"seq,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// version 1 field names
	Label  string `json:"label,omitempty"`
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

type edgeDoc struct {
	SourceID    string   `json:"source_id"`
	TargetID    string   `json:"target_id"`
	Relation    string   `json:"relation,omitempty"`
	RawRelation string   `json:"raw_relation,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	Tier        string   `json:"tier,omitempty"`

	// version 1 field name
	Relationship string `json:"relationship,omitempty"`
}

func encodeGraph(g *domain.Graph, applied int) graphDocument {
	doc := graphDocument{
		Version:            documentVersion,
		CreatedAt:          g.Meta.CreatedAt.UTC(),
		UpdatedAt:          g.Meta.UpdatedAt.UTC(),
		ConsolidationPass:  g.Meta.ConsolidationPass,
		CorrectionsApplied: applied,
		Nodes:              []nodeDoc{},
		Edges:              []edgeDoc{},
	}
	for _, n := range g.Nodes() {
		seq := n.Seq
		doc.Nodes = append(doc.Nodes, nodeDoc{
			ID:       n.ID,
			Name:     n.Name,
			Aliases:  n.Aliases,
			Origin:   string(n.Origin),
			Kind:     string(n.Kind),
			Category: n.Category,
			Seq:      &seq,
			Metadata: n.Metadata,
		})
	}
	for _, e := range g.Edges() {
		conf := e.Confidence
		doc.Edges = append(doc.Edges, edgeDoc{
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

func decodeGraph(doc graphDocument) (*domain.Graph, error) {
	g := domain.NewGraph()
	g.Meta = domain.Metadata{
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
		ConsolidationPass: doc.ConsolidationPass,
	}

	nodes := slices.Clone(doc.Nodes)
	for i := range nodes {
		if nodes[i].Seq == nil {
			seq := i
			nodes[i].Seq = &seq
		}
	}
	slices.SortStableFunc(nodes, func(a, b nodeDoc) int { return *a.Seq - *b.Seq })

	for _, nd := range nodes {
		name := nd.Name
		if name == "" {
			name = nd.Label
		}
		if name == "" && nd.ID == "" {
			return nil, fmt.Errorf("node without id or name")
		}
		if name == "" {
			name = nd.ID
		}
		kind := domain.Kind(nd.Kind)
		if nd.Kind == "" {
			kind = domain.ParseKind(nd.Type)
		}
		origin := nd.Origin
		if origin == "" {
			origin = nd.Source
		}
		g.AddNode(domain.Node{
			ID:       nd.ID,
			Name:     name,
			Aliases:  nd.Aliases,
			Origin:   domain.ParseOrigin(origin),
			Kind:     kind,
			Category: nd.Category,
			Seq:      *nd.Seq,
			Metadata: nd.Metadata,
		})
	}

	for i, ed := range doc.Edges {
		label := ed.Relation
		if label == "" {
			label = ed.Relationship
		}
		rel, ok := domain.ParseRelation(label)
		if !ok {
			rel = domain.RelUnknown
		}
		raw := ed.RawRelation
		if raw == "" {
			raw = label
		}
		conf := 1.0
		switch {
		case ed.Confidence != nil:
			conf = *ed.Confidence
		case ed.Relationship != "":
			conf = legacyEdgeConfidence
		}
		tier := domain.MatchTier(ed.Tier)
		if tier == "" {
			tier = domain.TierExact
		}
		if _, _, err := g.AddEdge(domain.Edge{
			SourceID:    ed.SourceID,
			TargetID:    ed.TargetID,
			Relation:    rel,
			RawRelation: raw,
			Confidence:  conf,
			Origin:      domain.ParseOrigin(ed.Origin),
			Tier:        tier,
		}); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return g, nil
}
