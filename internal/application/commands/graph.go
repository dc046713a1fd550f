package commands

import (
	"context"
	"fmt"
	"strings"

	"sentinel/internal/application"
	"sentinel/internal/domain"
	"sentinel/internal/matching"
	"sentinel/internal/ports"
)

const (
	DefaultGraphDepth = 2
	MaxGraphDepth     = 5
	// LargeNeighborhood is the node count above which a neighborhood is flagged
	LargeNeighborhood = 50
)

// GraphResult contains the graph, or the neighborhood of one node
type GraphResult struct {
	Graph   *domain.Graph
	Focus   *domain.Node // nil when the whole graph is returned
	Depth   int
	Warning string
}

// GraphCommand returns the persisted graph or a node's neighborhood. It takes no lock.
type GraphCommand struct {
	store    ports.GraphStore
	resolver matching.Resolver
	Node     string
	Depth    int
}

// NewGraphCommand creates a new GraphCommand. An empty node selects the whole graph.
func NewGraphCommand(store ports.GraphStore, resolver matching.Resolver, node string, depth int) *GraphCommand {
	return &GraphCommand{
		store:    store,
		resolver: resolver,
		Node:     node,
		Depth:    depth,
	}
}

// Validate checks the depth
func (c *GraphCommand) Validate() error {
	if c.Depth < 0 || c.Depth > MaxGraphDepth {
		return &application.ValidationError{
			Field:   "depth",
			Message: fmt.Sprintf("depth must be between 1 and %d, got %d", MaxGraphDepth, c.Depth),
		}
	}
	return nil
}

// Execute runs the graph command
func (c *GraphCommand) Execute(ctx context.Context) (*GraphResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g, err := loadGraph(ctx, c.store)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Node) == "" {
		return &GraphResult{Graph: g}, nil
	}

	focus, err := application.ResolveNode(g, c.Node, c.resolver)
	if err != nil {
		return nil, err
	}
	depth := c.Depth
	if depth == 0 {
		depth = DefaultGraphDepth
	}

	sub := Neighborhood(g, focus.ID, depth)
	res := &GraphResult{Graph: sub, Focus: focus, Depth: depth}
	if sub.NodeCount() > LargeNeighborhood {
		res.Warning = fmt.Sprintf("neighborhood of %s has %d nodes; try a smaller --depth", focus.Name, sub.NodeCount())
	}
	return res, nil
}

// Neighborhood returns the subgraph of nodes within depth edges of id,
// ignoring edge direction. Nodes keep their sequence numbers.
func Neighborhood(g *domain.Graph, id string, depth int) *domain.Graph {
	dist := map[string]int{id: 0}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] == depth {
			continue
		}
		var next []string
		for _, e := range g.Outgoing(cur) {
			next = append(next, e.TargetID)
		}
		for _, e := range g.Incoming(cur) {
			next = append(next, e.SourceID)
		}
		for _, n := range next {
			if _, seen := dist[n]; !seen {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}

	sub := domain.NewGraph()
	sub.Meta = g.Meta
	for _, n := range g.Nodes() {
		if _, ok := dist[n.ID]; ok {
			sub.AddNode(*n)
		}
	}
	for _, e := range g.Edges() {
		_, src := dist[e.SourceID]
		_, dst := dist[e.TargetID]
		if src && dst {
			// both endpoints were just added
			_, _, _ = sub.AddEdge(e)
		}
	}
	return sub
}
