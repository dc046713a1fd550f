//go:build unix

package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"sentinel/internal/ports"
)

const lockPollInterval = 50 * time.Millisecond

// FileLocker serialises writers across processes with flock(2) on a lock file
type FileLocker struct {
	path string
}

var _ ports.Locker = (*FileLocker)(nil)

// NewFileLocker returns a locker on <dir>/sentinel.lock
func NewFileLocker(dir string) *FileLocker {
	return &FileLocker{path: filepath.Join(dir, lockFileName)}
}

// Lock polls for the exclusive lock until it is held or ctx is done
func (l *FileLocker) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			f.Close()
			return nil, fmt.Errorf("lock %s: %w", l.path, err)
		}
		select {
		case <-ctx.Done():
			f.Close()
			return nil, fmt.Errorf("waiting for %s: %w", l.path, ctx.Err())
		case <-ticker.C:
		}
	}

	return func() error {
		unlockErr := syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		closeErr := f.Close()
		return errors.Join(unlockErr, closeErr)
	}, nil
}
