package render

import (
	"encoding/json"
	"io"
	"time"

	"sentinel/internal/domain"
)

type jsonReport struct {
	GeneratedAt           time.Time       `json:"generated_at"`
	MinConfidence         float64         `json:"min_confidence"`
	Triggers              int             `json:"triggers"`
	RelationshipsAnalyzed int             `json:"relationships_analyzed"`
	HiddenLowConfidence   int             `json:"hidden_low_confidence"`
	HiddenAcknowledged    int             `json:"hidden_acknowledged"`
	Collisions            []jsonCollision `json:"collisions"`
}

type jsonCollision struct {
	Trigger      string        `json:"trigger"`
	Impact       string        `json:"impact"`
	Confidence   float64       `json:"confidence"`
	Level        string        `json:"level"`
	Acknowledged bool          `json:"acknowledged"`
	Summary      string        `json:"summary"`
	When         string        `json:"when,omitempty"`
	Path         []jsonStep    `json:"path"`
	Rationale    jsonRationale `json:"rationale"`
}

type jsonStep struct {
	Node       string  `json:"node"`
	Kind       string  `json:"kind,omitempty"`
	Relation   string  `json:"relation,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Origin     string  `json:"origin,omitempty"`
	Reversed   bool    `json:"reversed,omitempty"`
}

type jsonRationale struct {
	Relations       []domain.Relation `json:"relations"`
	Hops            int               `json:"hops"`
	UserStatedEdges int               `json:"user_stated_edges"`
	InferredEdges   int               `json:"inferred_edges"`
	TriggerDomain   string            `json:"trigger_domain,omitempty"`
	ImpactDomain    string            `json:"impact_domain,omitempty"`
	CrossDomain     bool              `json:"cross_domain"`
}

// WriteJSON renders r as an indented JSON document
func WriteJSON(w io.Writer, r Report) error {
	doc := jsonReport{
		GeneratedAt:           r.GeneratedAt.UTC(),
		MinConfidence:         r.MinConfidence,
		Triggers:              r.Triggers,
		RelationshipsAnalyzed: r.RelationshipsAnalyzed,
		HiddenLowConfidence:   r.HiddenLowConfidence,
		HiddenAcknowledged:    r.HiddenAcknowledged,
		Collisions:            make([]jsonCollision, 0, len(r.Collisions)),
	}
	for _, c := range r.Collisions {
		jc := jsonCollision{
			Trigger:      c.Trigger().Name,
			Impact:       c.Impact().Name,
			Confidence:   c.Confidence,
			Level:        string(c.Level()),
			Acknowledged: c.Acknowledged,
			Summary:      c.Summary(),
			When:         Temporal(c),
			Rationale: jsonRationale{
				Relations:       c.Rationale.Relations,
				Hops:            c.Rationale.Hops,
				UserStatedEdges: c.Rationale.UserStatedEdges,
				InferredEdges:   c.Rationale.InferredEdges,
				TriggerDomain:   string(c.Rationale.TriggerDomain),
				ImpactDomain:    string(c.Rationale.ImpactDomain),
				CrossDomain:     c.Rationale.CrossDomain,
			},
		}
		for _, step := range c.Path {
			js := jsonStep{Node: step.Node.Name, Kind: string(step.Node.Kind), Reversed: step.Reversed}
			if step.Via != nil {
				js.Relation = string(step.Via.Relation)
				js.Confidence = step.Via.Confidence
				js.Origin = string(step.Via.Origin)
			}
			jc.Path = append(jc.Path, js)
		}
		doc.Collisions = append(doc.Collisions, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

type jsonGraph struct {
	Focus string     `json:"focus,omitempty"`
	Depth int        `json:"depth,omitempty"`
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Aliases  []string          `json:"aliases,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Category string            `json:"category,omitempty"`
	Origin   string            `json:"origin"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type jsonEdge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Relation    string  `json:"relation"`
	RawRelation string  `json:"raw_relation,omitempty"`
	Confidence  float64 `json:"confidence"`
	Origin      string  `json:"origin"`
}

// WriteGraphJSON renders g as JSON
func WriteGraphJSON(w io.Writer, g *domain.Graph, focus *domain.Node, depth int) error {
	doc := jsonGraph{Nodes: []jsonNode{}, Edges: []jsonEdge{}}
	if focus != nil {
		doc.Focus = focus.ID
		doc.Depth = depth
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, jsonNode{
			ID:       n.ID,
			Name:     n.Name,
			Aliases:  n.Aliases,
			Kind:     string(n.Kind),
			Category: n.Category,
			Origin:   string(n.Origin),
			Metadata: n.Metadata,
		})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, jsonEdge{
			Source:      e.SourceID,
			Target:      e.TargetID,
			Relation:    string(e.Relation),
			RawRelation: e.RawRelation,
			Confidence:  e.Confidence,
			Origin:      string(e.Origin),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
