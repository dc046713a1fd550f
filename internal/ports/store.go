package ports

import (
	"context"
	"errors"
	"fmt"

	"sentinel/internal/domain"
)

var (
	// ErrGraphNotFound means no graph has been persisted yet
	ErrGraphNotFound = errors.New("graph not found")
	// ErrPersistenceCorruption means a persisted document could not be read
	ErrPersistenceCorruption = errors.New("persisted data is corrupt")
)

// CorruptionError reports a malformed persisted document
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

func (e *CorruptionError) Is(target error) bool {
	return target == ErrPersistenceCorruption
}

// GraphStore persists the graph and its correction ledger
type GraphStore interface {
	// Load returns the persisted graph or ErrGraphNotFound
	Load(ctx context.Context) (*domain.Graph, error)

	// Save replaces the persisted graph
	Save(ctx context.Context, g *domain.Graph) error

	// Commit durably records the graph together with one correction record.
	// Either both become visible or neither does.
	Commit(ctx context.Context, g *domain.Graph, rec domain.CorrectionRecord) error

	// Corrections lists committed correction records, oldest first
	Corrections(ctx context.Context) ([]domain.CorrectionRecord, error)

	// Exists reports whether a graph has been persisted
	Exists(ctx context.Context) (bool, error)
}

// AckStore persists collision acknowledgments
type AckStore interface {
	List(ctx context.Context) ([]domain.Acknowledgment, error)

	// Add stores a, returning false if its key is already acknowledged
	Add(ctx context.Context, a domain.Acknowledgment) (bool, error)

	// Remove deletes the acknowledgment with key, returning false if there was none
	Remove(ctx context.Context, key string) (bool, error)
}

// Locker serialises mutating operations across processes
type Locker interface {
	// Lock blocks until the exclusive lock is held or ctx is done
	Lock(ctx context.Context) (unlock func() error, err error)
}
