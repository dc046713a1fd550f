//go:build !unix

package filestore

import (
	"context"
	"path/filepath"
	"sync"

	"sentinel/internal/ports"
)

// FileLocker only serialises writers within this process on platforms without flock(2)
type FileLocker struct {
	path string
}

var _ ports.Locker = (*FileLocker)(nil)

var processLocks sync.Map

// NewFileLocker returns a locker keyed on <dir>/sentinel.lock
func NewFileLocker(dir string) *FileLocker {
	return &FileLocker{path: filepath.Join(dir, lockFileName)}
}

func (l *FileLocker) Lock(ctx context.Context) (func() error, error) {
	v, _ := processLocks.LoadOrStore(l.path, make(chan struct{}, 1))
	ch := v.(chan struct{})
	select {
	case ch <- struct{}{}:
		return func() error { <-ch; return nil }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
