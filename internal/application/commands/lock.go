package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sentinel/internal/application"
	"sentinel/internal/domain"
	"sentinel/internal/ports"
)

// now is the clock used to stamp graphs and ledger entries
var now = func() time.Time { return time.Now().UTC() }

// withLock runs fn while holding the writer lock
func withLock(ctx context.Context, locker ports.Locker, fn func() error) (err error) {
	unlock, err := locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release lock: %w", uerr))
		}
	}()
	return fn()
}

// loadGraph loads the persisted graph, failing with ErrGraphNotFound when
// nothing has been pasted yet
func loadGraph(ctx context.Context, store ports.GraphStore) (*domain.Graph, error) {
	g, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, application.ErrGraphNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	return g, nil
}
