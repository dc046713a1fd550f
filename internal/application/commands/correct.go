package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sentinel/internal/application"
	"sentinel/internal/domain"
	"sentinel/internal/matching"
	"sentinel/internal/ports"
)

// CorrectionResult contains the result of an applied correction
type CorrectionResult struct {
	Record  domain.CorrectionRecord
	Message string
}

// correction is the shared load, mutate and commit cycle of every correction.
// apply mutates g and returns the record to commit.
func correction(ctx context.Context, store ports.GraphStore, locker ports.Locker, apply func(g *domain.Graph) (domain.CorrectionRecord, error)) (domain.CorrectionRecord, error) {
	var rec domain.CorrectionRecord
	err := withLock(ctx, locker, func() error {
		g, err := loadGraph(ctx, store)
		if err != nil {
			return err
		}
		rec, err = apply(g)
		if err != nil {
			return err
		}
		rec.ID = uuid.NewString()
		rec.Timestamp = now()
		g.Meta.UpdatedAt = rec.Timestamp
		if err := store.Commit(ctx, g, rec); err != nil {
			return fmt.Errorf("failed to commit correction: %w", err)
		}
		return nil
	})
	return rec, err
}

// DeleteNodeCommand removes an inferred node and its edges
type DeleteNodeCommand struct {
	store    ports.GraphStore
	locker   ports.Locker
	resolver matching.Resolver
	Node     string
	Reason   string
}

// NewDeleteNodeCommand creates a new DeleteNodeCommand
func NewDeleteNodeCommand(store ports.GraphStore, locker ports.Locker, resolver matching.Resolver, node, reason string) *DeleteNodeCommand {
	return &DeleteNodeCommand{
		store:    store,
		locker:   locker,
		resolver: resolver,
		Node:     node,
		Reason:   reason,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteNodeCommand) Validate() error {
	return application.ValidateRequired("node", c.Node)
}

// Execute runs the delete command
func (c *DeleteNodeCommand) Execute(ctx context.Context) (*CorrectionResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rec, err := correction(ctx, c.store, c.locker, func(g *domain.Graph) (domain.CorrectionRecord, error) {
		n, err := application.ResolveNode(g, c.Node, c.resolver)
		if err != nil {
			return domain.CorrectionRecord{}, err
		}
		if n.IsProtected() {
			return domain.CorrectionRecord{}, &application.ProtectedNodeError{Name: n.Name}
		}
		prior := *n
		removed, err := g.RemoveNode(n.ID)
		if err != nil {
			return domain.CorrectionRecord{}, err
		}
		return domain.CorrectionRecord{
			Action:  domain.ActionDelete,
			Target:  prior.Name,
			NodeIDs: []string{prior.ID},
			Prior:   domain.Snapshot{Node: &prior, Edges: removed},
			Reason:  c.Reason,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &CorrectionResult{
		Record:  rec,
		Message: fmt.Sprintf("Deleted %s and %d relationship(s)", rec.Target, len(rec.Prior.Edges)),
	}, nil
}

// ModifyEdgeCommand changes the relation of an edge
type ModifyEdgeCommand struct {
	store        ports.GraphStore
	locker       ports.Locker
	resolver     matching.Resolver
	Source       string
	Target       string
	NewRelation  string
	FromRelation string // optional when exactly one edge connects the nodes
	Reason       string
}

// NewModifyEdgeCommand creates a new ModifyEdgeCommand
func NewModifyEdgeCommand(store ports.GraphStore, locker ports.Locker, resolver matching.Resolver, source, target, newRelation string) *ModifyEdgeCommand {
	return &ModifyEdgeCommand{
		store:       store,
		locker:      locker,
		resolver:    resolver,
		Source:      source,
		Target:      target,
		NewRelation: newRelation,
	}
}

// Validate checks both endpoints and the relations
func (c *ModifyEdgeCommand) Validate() error {
	if err := application.ValidateRequired("source", c.Source); err != nil {
		return err
	}
	if err := application.ValidateRequired("target", c.Target); err != nil {
		return err
	}
	if _, err := application.ValidateRelation("newRelation", c.NewRelation); err != nil {
		return err
	}
	if strings.TrimSpace(c.FromRelation) != "" {
		if _, ok := domain.ParseRelation(c.FromRelation); !ok {
			return &application.ValidationError{
				Field:   "fromRelation",
				Message: fmt.Sprintf("unknown relation %q", c.FromRelation),
			}
		}
	}
	return nil
}

// Execute runs the modify command
func (c *ModifyEdgeCommand) Execute(ctx context.Context) (*CorrectionResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	to, _ := application.ValidateRelation("newRelation", c.NewRelation)

	rec, err := correction(ctx, c.store, c.locker, func(g *domain.Graph) (domain.CorrectionRecord, error) {
		src, dst, edges, err := resolveEdges(g, c.resolver, c.Source, c.Target, c.FromRelation)
		if err != nil {
			return domain.CorrectionRecord{}, err
		}
		if len(edges) > 1 {
			rels := make([]string, len(edges))
			for i, e := range edges {
				rels[i] = string(e.Relation)
			}
			return domain.CorrectionRecord{}, &application.ValidationError{
				Field:   "fromRelation",
				Message: fmt.Sprintf("%s and %s are connected by %s; name the one to change", src.Name, dst.Name, strings.Join(rels, ", ")),
			}
		}

		if edges[0].Relation == to {
			return domain.CorrectionRecord{}, &application.ValidationError{
				Field:   "newRelation",
				Message: fmt.Sprintf("%s -> %s is already %s", src.Name, dst.Name, to.Display()),
			}
		}
		prior, err := g.Relabel(edges[0].Key(), to)
		if err != nil {
			return domain.CorrectionRecord{}, err
		}
		return domain.CorrectionRecord{
			Action:  domain.ActionModifyRelation,
			Target:  fmt.Sprintf("%s -> %s", src.Name, dst.Name),
			NodeIDs: []string{src.ID, dst.ID},
			Prior:   domain.Snapshot{Edges: []domain.Edge{prior}, NewRelation: to},
			Reason:  c.Reason,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &CorrectionResult{
		Record: rec,
		Message: fmt.Sprintf("Changed %s from %s to %s",
			rec.Target, rec.Prior.Edges[0].Relation.Display(), rec.Prior.NewRelation.Display()),
	}, nil
}

// RemoveEdgeCommand deletes the edges between two nodes
type RemoveEdgeCommand struct {
	store    ports.GraphStore
	locker   ports.Locker
	resolver matching.Resolver
	Source   string
	Target   string
	Relation string // empty removes every edge from source to target
	Reason   string
}

// NewRemoveEdgeCommand creates a new RemoveEdgeCommand
func NewRemoveEdgeCommand(store ports.GraphStore, locker ports.Locker, resolver matching.Resolver, source, target, relation string) *RemoveEdgeCommand {
	return &RemoveEdgeCommand{
		store:    store,
		locker:   locker,
		resolver: resolver,
		Source:   source,
		Target:   target,
		Relation: relation,
	}
}

// Validate checks both endpoints and the optional relation
func (c *RemoveEdgeCommand) Validate() error {
	if err := application.ValidateRequired("source", c.Source); err != nil {
		return err
	}
	if err := application.ValidateRequired("target", c.Target); err != nil {
		return err
	}
	if strings.TrimSpace(c.Relation) != "" {
		if _, ok := domain.ParseRelation(c.Relation); !ok {
			return &application.ValidationError{
				Field:   "relation",
				Message: fmt.Sprintf("unknown relation %q", c.Relation),
			}
		}
	}
	return nil
}

// Execute runs the remove-edge command
func (c *RemoveEdgeCommand) Execute(ctx context.Context) (*CorrectionResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rec, err := correction(ctx, c.store, c.locker, func(g *domain.Graph) (domain.CorrectionRecord, error) {
		src, dst, edges, err := resolveEdges(g, c.resolver, c.Source, c.Target, c.Relation)
		if err != nil {
			return domain.CorrectionRecord{}, err
		}
		var removed []domain.Edge
		for _, e := range edges {
			removed = append(removed, g.RemoveEdges(e.SourceID, e.TargetID, e.Relation)...)
		}
		return domain.CorrectionRecord{
			Action:  domain.ActionRemoveEdge,
			Target:  fmt.Sprintf("%s -> %s", src.Name, dst.Name),
			NodeIDs: []string{src.ID, dst.ID},
			Prior:   domain.Snapshot{Edges: removed},
			Reason:  c.Reason,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &CorrectionResult{
		Record:  rec,
		Message: fmt.Sprintf("Removed %d relationship(s) from %s", len(rec.Prior.Edges), rec.Target),
	}, nil
}

// resolveEdges resolves both endpoints and returns the edges from source to
// target, restricted to relation when it is set
func resolveEdges(g *domain.Graph, r matching.Resolver, source, target, relation string) (*domain.Node, *domain.Node, []domain.Edge, error) {
	src, err := application.ResolveNode(g, source, r)
	if err != nil {
		return nil, nil, nil, err
	}
	dst, err := application.ResolveNode(g, target, r)
	if err != nil {
		return nil, nil, nil, err
	}

	var want domain.Relation
	if strings.TrimSpace(relation) != "" {
		want, _ = domain.ParseRelation(relation)
	}
	var edges []domain.Edge
	for _, e := range g.EdgesBetween(src.ID, dst.ID) {
		if want == "" || e.Relation == want {
			edges = append(edges, e)
		}
	}
	if len(edges) == 0 {
		notFound := &application.EdgeNotFoundError{Source: src.Name, Target: dst.Name}
		if want != "" {
			notFound.Relation = want.Display()
		}
		return nil, nil, nil, notFound
	}
	return src, dst, edges, nil
}

// CorrectionEntry is a ledger record with its weak references checked
// against the current graph
type CorrectionEntry struct {
	domain.CorrectionRecord
	Missing []string // node ids that no longer exist
}

// ListCorrectionsCommand lists the correction ledger. It takes no lock.
type ListCorrectionsCommand struct {
	store ports.GraphStore
}

// NewListCorrectionsCommand creates a new ListCorrectionsCommand
func NewListCorrectionsCommand(store ports.GraphStore) *ListCorrectionsCommand {
	return &ListCorrectionsCommand{store: store}
}

// Execute runs the list command
func (c *ListCorrectionsCommand) Execute(ctx context.Context) ([]CorrectionEntry, error) {
	records, err := c.store.Corrections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections: %w", err)
	}
	g, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, application.ErrGraphNotFound):
		g = domain.NewGraph()
	case err != nil:
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	entries := make([]CorrectionEntry, 0, len(records))
	for _, rec := range records {
		entry := CorrectionEntry{CorrectionRecord: rec}
		for _, id := range rec.NodeIDs {
			if _, ok := g.Node(id); !ok {
				entry.Missing = append(entry.Missing, id)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
