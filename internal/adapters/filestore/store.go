package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"sentinel/internal/domain"
	"sentinel/internal/logging"
	"sentinel/internal/ports"
)

const (
	graphFileName       = "graph.json"
	correctionsFileName = "corrections.json"
	acksFileName        = "acks.json"
	lockFileName        = "sentinel.lock"
)

// Store keeps the graph and its correction ledger as JSON documents in a data directory.
//
// A commit writes the ledger first and the graph second. The graph records how many
// ledger entries it reflects, so ledger entries beyond that count belong to an
// interrupted commit: they are ignored on read and dropped by the next write.
type Store struct {
	dir    string
	logger *logging.Logger
}

var _ ports.GraphStore = (*Store)(nil)

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string, logger *logging.Logger) *Store {
	return &Store{dir: dir, logger: logging.OrNop(logger)}
}

// Dir returns the data directory
func (s *Store) Dir() string { return s.dir }

// GraphPath returns the path of the graph document
func (s *Store) GraphPath() string { return filepath.Join(s.dir, graphFileName) }

func (s *Store) ledgerPath() string { return filepath.Join(s.dir, correctionsFileName) }

func (s *Store) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.GraphPath())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat graph: %w", err)
	}
}

func (s *Store) Load(ctx context.Context) (*domain.Graph, error) {
	doc, err := s.readGraph()
	if err != nil {
		return nil, err
	}
	g, err := decodeGraph(*doc)
	if err != nil {
		return nil, &ports.CorruptionError{Path: s.GraphPath(), Err: err}
	}
	s.logger.Debug("graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "version", doc.Version)
	return g, nil
}

func (s *Store) Save(ctx context.Context, g *domain.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := s.appliedEntries()
	if err != nil {
		return err
	}
	return s.writeGraph(g, len(entries))
}

func (s *Store) Commit(ctx context.Context, g *domain.Graph, rec domain.CorrectionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := s.appliedEntries()
	if err != nil {
		return err
	}
	entries = append(entries, encodeCorrection(rec))
	if err := writeJSON(s.ledgerPath(), ledgerDocument{Version: documentVersion, Entries: entries}); err != nil {
		return fmt.Errorf("write corrections: %w", err)
	}
	if err := s.writeGraph(g, len(entries)); err != nil {
		return err
	}
	s.logger.Debug("correction committed", "id", rec.ID, "action", rec.Action, "ledger", len(entries))
	return nil
}

func (s *Store) Corrections(ctx context.Context) ([]domain.CorrectionRecord, error) {
	entries, err := s.appliedEntries()
	if err != nil {
		return nil, err
	}
	out := make([]domain.CorrectionRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, decodeCorrection(e))
	}
	return out, nil
}

func (s *Store) readGraph() (*graphDocument, error) {
	var doc graphDocument
	if err := readJSON(s.GraphPath(), &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.ErrGraphNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) writeGraph(g *domain.Graph, applied int) error {
	if err := writeJSON(s.GraphPath(), encodeGraph(g, applied)); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}

// appliedEntries returns the ledger entries the persisted graph reflects
func (s *Store) appliedEntries() ([]correctionDoc, error) {
	applied := 0
	doc, err := s.readGraph()
	switch {
	case err == nil:
		applied = doc.CorrectionsApplied
	case errors.Is(err, ports.ErrGraphNotFound):
	default:
		return nil, err
	}

	var ledger ledgerDocument
	if err := readJSON(s.ledgerPath(), &ledger); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []correctionDoc{}, nil
		}
		return nil, err
	}
	if len(ledger.Entries) > applied {
		s.logger.Warn("ignoring corrections from an interrupted commit",
			"recorded", len(ledger.Entries), "applied", applied)
		ledger.Entries = ledger.Entries[:applied]
	}
	return ledger.Entries, nil
}
