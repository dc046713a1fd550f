package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrUnknownNode  = errors.New("unknown node")
	ErrSelfLoop     = errors.New("edge endpoints are the same node")
	ErrSameRelation = errors.New("edge already has that relation")
)

// Metadata describes a persisted graph
type Metadata struct {
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ConsolidationPass string // id of the last consolidation run
}

// Graph holds nodes, edges and an adjacency index kept in step with the edge set.
// Only Graph methods mutate the edge set, and every mutation rebuilds the index before returning.
type Graph struct {
	Meta Metadata

	nodes   map[string]*Node
	order   []string
	edges   []*Edge
	byKey   map[EdgeKey]*Edge
	out     map[string][]*Edge
	in      map[string][]*Edge
	nextSeq int
}

// NewGraph returns an empty graph
func NewGraph() *Graph {
	g := &Graph{nodes: make(map[string]*Node)}
	g.reindex()
	return g
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node looks a node up by id
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node in insertion order
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns a copy of the edge set in insertion order
func (g *Graph) Edges() []Edge {
	return copyEdges(g.edges)
}

// Outgoing returns copies of the edges leaving id
func (g *Graph) Outgoing(id string) []Edge {
	return copyEdges(g.out[id])
}

// Incoming returns copies of the edges entering id
func (g *Graph) Incoming(id string) []Edge {
	return copyEdges(g.in[id])
}

// EdgesBetween returns the edges from source to target
func (g *Graph) EdgesBetween(sourceID, targetID string) []Edge {
	var out []Edge
	for _, e := range g.out[sourceID] {
		if e.TargetID == targetID {
			out = append(out, *e)
		}
	}
	return out
}

// HasEdge reports whether an edge with the given key exists
func (g *Graph) HasEdge(key EdgeKey) bool {
	_, ok := g.byKey[key]
	return ok
}

// AddNode inserts n, deriving its id from the name when empty.
// If the id already exists the stored node keeps its origin and sequence,
// gains n's aliases and fills in any empty kind, category or metadata.
// The returned bool is true when a new node was created.
func (g *Graph) AddNode(n Node) (*Node, bool) {
	if n.ID == "" {
		n.ID = NodeID(n.Name)
	}
	if existing, ok := g.nodes[n.ID]; ok {
		existing.AddAliases(n.Aliases...)
		if existing.Kind == KindUnknown {
			existing.Kind = n.Kind
		}
		if existing.Category == "" {
			existing.Category = n.Category
		}
		for k, v := range n.Metadata {
			if existing.Metadata == nil {
				existing.Metadata = make(map[string]string)
			}
			if _, set := existing.Metadata[k]; !set {
				existing.Metadata[k] = v
			}
		}
		return existing, false
	}

	if n.Origin == "" {
		n.Origin = OriginAIInferred
	}
	if n.Seq < g.nextSeq {
		n.Seq = g.nextSeq
	}
	g.nextSeq = n.Seq + 1

	stored := n.clone()
	slices.Sort(stored.Aliases)
	stored.Aliases = slices.Compact(stored.Aliases)
	g.nodes[stored.ID] = stored
	g.order = append(g.order, stored.ID)
	return stored, true
}

// AddEdge inserts e, or raises the confidence of the existing edge with the same key.
// The returned bool is true when a new edge was created.
func (g *Graph) AddEdge(e Edge) (Edge, bool, error) {
	if _, ok := g.nodes[e.SourceID]; !ok {
		return Edge{}, false, fmt.Errorf("%w: %s", ErrUnknownNode, e.SourceID)
	}
	if _, ok := g.nodes[e.TargetID]; !ok {
		return Edge{}, false, fmt.Errorf("%w: %s", ErrUnknownNode, e.TargetID)
	}
	if e.SourceID == e.TargetID {
		return Edge{}, false, ErrSelfLoop
	}
	e.Confidence = ClampConfidence(e.Confidence)
	if e.Relation == "" {
		e.Relation = RelUnknown
	}
	if e.Origin == "" {
		e.Origin = OriginAIInferred
	}

	if existing, ok := g.byKey[e.Key()]; ok {
		existing.Confidence = max(existing.Confidence, e.Confidence)
		return *existing, false, nil
	}

	stored := e
	g.edges = append(g.edges, &stored)
	g.reindex()
	return stored, true, nil
}

// RemoveNode deletes a node and every incident edge, returning the removed edges
func (g *Graph) RemoveNode(id string) ([]Edge, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	var removed []Edge
	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool {
		if e.SourceID == id || e.TargetID == id {
			removed = append(removed, *e)
			return true
		}
		return false
	})
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(o string) bool { return o == id })
	g.reindex()
	return removed, nil
}

// RemoveEdges deletes edges from source to target. An empty relation removes all of them.
func (g *Graph) RemoveEdges(sourceID, targetID string, relation Relation) []Edge {
	var removed []Edge
	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool {
		if e.SourceID == sourceID && e.TargetID == targetID && (relation == "" || e.Relation == relation) {
			removed = append(removed, *e)
			return true
		}
		return false
	})
	if len(removed) > 0 {
		g.reindex()
	}
	return removed
}

// Relabel changes the relation of the edge with key from to the relation to.
// If an edge with the new key already exists the two collapse, keeping the higher confidence.
// It returns the edge as it was before the change.
func (g *Graph) Relabel(from EdgeKey, to Relation) (Edge, error) {
	e, ok := g.byKey[from]
	if !ok {
		return Edge{}, fmt.Errorf("no %s edge from %s to %s", from.Relation, from.SourceID, from.TargetID)
	}
	if from.Relation == to {
		return Edge{}, fmt.Errorf("%w: %s", ErrSameRelation, to)
	}
	prior := *e

	e.Relation = to
	e.Tier = TierExact
	if dup, exists := g.byKey[e.Key()]; exists {
		dup.Confidence = max(dup.Confidence, e.Confidence)
		g.edges = slices.DeleteFunc(g.edges, func(x *Edge) bool { return x == e })
	}
	g.reindex()
	return prior, nil
}

// MergeNodes folds absorbed into survivor. Edges are rewritten to the survivor,
// self-loops created by the merge are dropped and duplicates collapse to the
// highest confidence. The survivor's aliases gain both nodes' names.
func (g *Graph) MergeNodes(survivorID, absorbedID string) error {
	survivor, ok := g.nodes[survivorID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, survivorID)
	}
	absorbed, ok := g.nodes[absorbedID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, absorbedID)
	}
	if survivorID == absorbedID {
		return nil
	}

	survivor.AddAliases(survivor.Name, absorbed.Name)
	survivor.AddAliases(absorbed.Aliases...)
	if survivor.Kind == KindUnknown {
		survivor.Kind = absorbed.Kind
	}
	if survivor.Category == "" {
		survivor.Category = absorbed.Category
	}

	merged := make([]*Edge, 0, len(g.edges))
	seen := make(map[EdgeKey]*Edge, len(g.edges))
	for _, e := range g.edges {
		if e.SourceID == absorbedID {
			e.SourceID = survivorID
		}
		if e.TargetID == absorbedID {
			e.TargetID = survivorID
		}
		if e.SourceID == e.TargetID {
			continue
		}
		if dup, ok := seen[e.Key()]; ok {
			dup.Confidence = max(dup.Confidence, e.Confidence)
			continue
		}
		seen[e.Key()] = e
		merged = append(merged, e)
	}
	g.edges = merged

	delete(g.nodes, absorbedID)
	g.order = slices.DeleteFunc(g.order, func(o string) bool { return o == absorbedID })
	g.reindex()
	return nil
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Meta:    g.Meta,
		nodes:   make(map[string]*Node, len(g.nodes)),
		order:   slices.Clone(g.order),
		edges:   make([]*Edge, 0, len(g.edges)),
		nextSeq: g.nextSeq,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.clone()
	}
	for _, e := range g.edges {
		cp := *e
		c.edges = append(c.edges, &cp)
	}
	c.reindex()
	return c
}

func (g *Graph) reindex() {
	g.byKey = make(map[EdgeKey]*Edge, len(g.edges))
	g.out = make(map[string][]*Edge, len(g.nodes))
	g.in = make(map[string][]*Edge, len(g.nodes))
	for _, e := range g.edges {
		g.byKey[e.Key()] = e
		g.out[e.SourceID] = append(g.out[e.SourceID], e)
		g.in[e.TargetID] = append(g.in[e.TargetID], e)
	}
}

func copyEdges(in []*Edge) []Edge {
	out := make([]Edge, 0, len(in))
	for _, e := range in {
		out = append(out, *e)
	}
	return out
}
