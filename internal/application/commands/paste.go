package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sentinel/internal/application"
	"sentinel/internal/domain"
	"sentinel/internal/ingest"
	"sentinel/internal/ports"
)

// PasteResult contains the result of ingesting a schedule
type PasteResult struct {
	Extractor string
	Report    ingest.Report
	Nodes     int // graph size after ingestion
	Edges     int
	Created   bool // true when this paste created the graph
}

// PasteCommand extracts a schedule and merges it into the persisted graph
type PasteCommand struct {
	extractor ports.Extractor
	store     ports.GraphStore
	locker    ports.Locker
	builder   *ingest.Builder
	Text      string
}

// NewPasteCommand creates a new PasteCommand
func NewPasteCommand(extractor ports.Extractor, store ports.GraphStore, locker ports.Locker, builder *ingest.Builder, text string) *PasteCommand {
	return &PasteCommand{
		extractor: extractor,
		store:     store,
		locker:    locker,
		builder:   builder,
		Text:      text,
	}
}

// Validate checks that there is text to ingest
func (c *PasteCommand) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return application.ErrEmptyInput
	}
	return nil
}

// Execute runs the extractor outside the lock, then merges under it
func (c *PasteCommand) Execute(ctx context.Context) (*PasteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ext, err := c.extractor.Extract(ctx, c.Text)
	if err != nil {
		return nil, fmt.Errorf("extraction with %s failed: %w", c.extractor.Name(), err)
	}

	result := &PasteResult{Extractor: c.extractor.Name()}
	err = withLock(ctx, c.locker, func() error {
		g, err := c.store.Load(ctx)
		switch {
		case errors.Is(err, application.ErrGraphNotFound):
			g = domain.NewGraph()
			g.Meta.CreatedAt = now()
			result.Created = true
		case err != nil:
			return fmt.Errorf("failed to load graph: %w", err)
		}

		result.Report = c.builder.Apply(g, ext, c.Text)
		g.Meta.UpdatedAt = now()
		if err := c.store.Save(ctx, g); err != nil {
			return fmt.Errorf("failed to save graph: %w", err)
		}
		result.Nodes = g.NodeCount()
		result.Edges = g.EdgeCount()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
