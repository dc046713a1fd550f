package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"sentinel/internal/domain"
	"sentinel/internal/ports"
)

// AckStore keeps acknowledgments in <dir>/acks.json
type AckStore struct {
	path string
}

var _ ports.AckStore = (*AckStore)(nil)

// NewAckStore returns an AckStore rooted at dir
func NewAckStore(dir string) *AckStore {
	return &AckStore{path: filepath.Join(dir, acksFileName)}
}

func (a *AckStore) List(ctx context.Context) ([]domain.Acknowledgment, error) {
	docs, err := a.read()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Acknowledgment, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Acknowledgment{
			Key:       d.Key,
			Label:     d.Label,
			Path:      d.Path,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (a *AckStore) Add(ctx context.Context, ack domain.Acknowledgment) (bool, error) {
	if ack.Key == "" {
		return false, fmt.Errorf("acknowledgment key is empty")
	}
	docs, err := a.read()
	if err != nil {
		return false, err
	}
	if slices.ContainsFunc(docs, func(d ackDoc) bool { return d.Key == ack.Key }) {
		return false, nil
	}
	docs = append(docs, ackDoc{
		Key:       ack.Key,
		Label:     ack.Label,
		Path:      ack.Path,
		CreatedAt: ack.CreatedAt.UTC(),
	})
	return true, a.write(docs)
}

func (a *AckStore) Remove(ctx context.Context, key string) (bool, error) {
	docs, err := a.read()
	if err != nil {
		return false, err
	}
	n := len(docs)
	docs = slices.DeleteFunc(docs, func(d ackDoc) bool { return d.Key == key })
	if len(docs) == n {
		return false, nil
	}
	return true, a.write(docs)
}

func (a *AckStore) read() ([]ackDoc, error) {
	var doc ackDocument
	if err := readJSON(a.path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Entries, nil
}

func (a *AckStore) write(docs []ackDoc) error {
	if docs == nil {
		docs = []ackDoc{}
	}
	if err := writeJSON(a.path, ackDocument{Version: documentVersion, Entries: docs}); err != nil {
		return fmt.Errorf("write acknowledgments: %w", err)
	}
	return nil
}
