package commands

import (
	"context"
	"errors"
	"fmt"

	"sentinel/internal/application"
	"sentinel/internal/domain"
	"sentinel/internal/matching"
	"sentinel/internal/ports"
)

// AckResult contains the result of acknowledging a collision
type AckResult struct {
	Ack     domain.Acknowledgment
	Added   bool // false when the key was already acknowledged
	Message string
}

// AckCommand acknowledges collisions involving a node, hiding them from check
type AckCommand struct {
	acks     ports.AckStore
	store    ports.GraphStore
	locker   ports.Locker
	resolver matching.Resolver
	Label    string
	Path     string // collision summary being acknowledged, if known
}

// NewAckCommand creates a new AckCommand
func NewAckCommand(acks ports.AckStore, store ports.GraphStore, locker ports.Locker, resolver matching.Resolver, label string) *AckCommand {
	return &AckCommand{
		acks:     acks,
		store:    store,
		locker:   locker,
		resolver: resolver,
		Label:    label,
	}
}

// Validate checks the label
func (c *AckCommand) Validate() error {
	if err := application.ValidateRequired("label", c.Label); err != nil {
		return err
	}
	if domain.Slugify(c.Label) == "" {
		return &application.ValidationError{
			Field:   "label",
			Message: fmt.Sprintf("%q has no letters or digits to acknowledge", c.Label),
		}
	}
	return nil
}

// Execute runs the ack command. A label naming a graph node is stored under
// that node's name; any other label is stored as given.
func (c *AckCommand) Execute(ctx context.Context) (*AckResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &AckResult{}
	err := withLock(ctx, c.locker, func() error {
		label, err := canonicalLabel(ctx, c.store, c.resolver, c.Label)
		if err != nil {
			return err
		}
		result.Ack = domain.Acknowledgment{
			Key:       domain.Slugify(label),
			Label:     label,
			Path:      c.Path,
			CreatedAt: now(),
		}
		result.Added, err = c.acks.Add(ctx, result.Ack)
		if err != nil {
			return fmt.Errorf("failed to save acknowledgment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Added {
		result.Message = fmt.Sprintf("Acknowledged %s", result.Ack.Label)
	} else {
		result.Message = fmt.Sprintf("%s was already acknowledged", result.Ack.Label)
	}
	return result, nil
}

// UnackResult contains the result of removing an acknowledgment
type UnackResult struct {
	Key     string
	Removed bool
	Message string
}

// UnackCommand removes an acknowledgment
type UnackCommand struct {
	acks     ports.AckStore
	store    ports.GraphStore
	locker   ports.Locker
	resolver matching.Resolver
	Label    string
}

// NewUnackCommand creates a new UnackCommand
func NewUnackCommand(acks ports.AckStore, store ports.GraphStore, locker ports.Locker, resolver matching.Resolver, label string) *UnackCommand {
	return &UnackCommand{
		acks:     acks,
		store:    store,
		locker:   locker,
		resolver: resolver,
		Label:    label,
	}
}

// Validate checks the label
func (c *UnackCommand) Validate() error {
	return application.ValidateRequired("label", c.Label)
}

// Execute runs the unack command. The label is tried as given first, then as
// the name of the node it resolves to.
func (c *UnackCommand) Execute(ctx context.Context) (*UnackResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &UnackResult{Key: domain.Slugify(c.Label)}
	err := withLock(ctx, c.locker, func() error {
		removed, err := c.acks.Remove(ctx, result.Key)
		if err != nil {
			return fmt.Errorf("failed to remove acknowledgment: %w", err)
		}
		if !removed {
			label, err := canonicalLabel(ctx, c.store, c.resolver, c.Label)
			if err != nil {
				return err
			}
			if key := domain.Slugify(label); key != result.Key {
				result.Key = key
				if removed, err = c.acks.Remove(ctx, key); err != nil {
					return fmt.Errorf("failed to remove acknowledgment: %w", err)
				}
			}
		}
		result.Removed = removed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Removed {
		result.Message = fmt.Sprintf("Removed acknowledgment %s", result.Key)
	} else {
		result.Message = fmt.Sprintf("No acknowledgment matches %q", c.Label)
	}
	return result, nil
}

// ListAcksCommand lists acknowledgments. It takes no lock.
type ListAcksCommand struct {
	acks ports.AckStore
}

// NewListAcksCommand creates a new ListAcksCommand
func NewListAcksCommand(acks ports.AckStore) *ListAcksCommand {
	return &ListAcksCommand{acks: acks}
}

// Execute runs the list command
func (c *ListAcksCommand) Execute(ctx context.Context) ([]domain.Acknowledgment, error) {
	acks, err := c.acks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read acknowledgments: %w", err)
	}
	return acks, nil
}

// canonicalLabel returns the name of the node label resolves to, or label
// itself when there is no graph or no single matching node
func canonicalLabel(ctx context.Context, store ports.GraphStore, r matching.Resolver, label string) (string, error) {
	g, err := store.Load(ctx)
	switch {
	case errors.Is(err, application.ErrGraphNotFound):
		return label, nil
	case err != nil:
		return "", fmt.Errorf("failed to load graph: %w", err)
	}
	n, err := application.ResolveNode(g, label, r)
	if err != nil {
		return label, nil
	}
	return n.Name, nil
}
