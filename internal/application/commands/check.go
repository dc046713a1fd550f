package commands

import (
	"context"
	"fmt"

	"sentinel/internal/application"
	"sentinel/internal/collision"
	"sentinel/internal/domain"
	"sentinel/internal/ports"
)

// CheckResult contains the collisions found in the persisted graph
type CheckResult struct {
	*collision.Result
	Graph         *domain.Graph
	MinConfidence float64
}

// Unresolved counts the collisions that are neither acknowledged nor below
// the threshold. Extra rows shown by IncludeAcknowledged or
// IncludeLowConfidence are not counted.
func (r *CheckResult) Unresolved() int {
	n := 0
	for c := range r.All() {
		if !c.Acknowledged && c.Confidence >= r.MinConfidence {
			n++
		}
	}
	return n
}

// CheckCommand runs collision detection. It takes no lock.
type CheckCommand struct {
	store                ports.GraphStore
	acks                 ports.AckStore
	detector             *collision.Detector
	MinConfidence        float64
	IncludeLowConfidence bool
	IncludeAcknowledged  bool
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(store ports.GraphStore, acks ports.AckStore, detector *collision.Detector, minConfidence float64) *CheckCommand {
	return &CheckCommand{
		store:         store,
		acks:          acks,
		detector:      detector,
		MinConfidence: minConfidence,
	}
}

// Validate checks the confidence threshold
func (c *CheckCommand) Validate() error {
	return application.ValidateConfidence("minConfidence", c.MinConfidence)
}

// Execute runs the check command
func (c *CheckCommand) Execute(ctx context.Context) (*CheckResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g, err := loadGraph(ctx, c.store)
	if err != nil {
		return nil, err
	}
	acks, err := c.acks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load acknowledgments: %w", err)
	}

	res := c.detector.Detect(g, collision.Query{
		MinConfidence:        c.MinConfidence,
		IncludeLowConfidence: c.IncludeLowConfidence,
		IncludeAcknowledged:  c.IncludeAcknowledged,
		Acks:                 acks,
	})
	return &CheckResult{Result: res, Graph: g, MinConfidence: c.MinConfidence}, nil
}
