package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sentinel/internal/domain"
	"sentinel/internal/logging"
	"sentinel/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// DatabaseFileName is the database created inside the data directory
const DatabaseFileName = "sentinel.db"

// Store implements ports.GraphStore and ports.AckStore on a single SQLite database.
// Every write runs in one transaction, so a commit and its correction record land together.
type Store struct {
	db     *sql.DB
	path   string
	logger *logging.Logger
}

var (
	_ ports.GraphStore = (*Store)(nil)
	_ ports.AckStore   = (*Store)(nil)
)

// Open opens or creates <dir>/sentinel.db
func Open(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dir, DatabaseFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// WAL lets readers proceed while a correction commits
	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = FULL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			aliases TEXT NOT NULL DEFAULT '[]',
			origin TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			seq INTEGER NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}'
		);
		CREATE TABLE IF NOT EXISTS edges (
			position INTEGER NOT NULL,
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			relation TEXT NOT NULL,
			raw_relation TEXT NOT NULL DEFAULT '',
			confidence REAL NOT NULL,
			origin TEXT NOT NULL,
			tier TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (source_id, target_id, relation)
		);
		CREATE TABLE IF NOT EXISTS corrections (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			action TEXT NOT NULL,
			target TEXT NOT NULL,
			node_ids TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			prior TEXT NOT NULL DEFAULT '{}',
			reason TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS acks (
			key TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
		CREATE INDEX IF NOT EXISTS idx_edges_position ON edges(position);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logging.OrNop(logger)}
	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string { return s.path }

func (s *Store) checkSchema() error {
	var version string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case version != schemaVersion:
		return &ports.CorruptionError{Path: s.path, Err: fmt.Errorf("unsupported schema version %q", version)}
	}
	return nil
}

func (s *Store) Exists(ctx context.Context) (bool, error) {
	var saved string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'saved_at'`).Scan(&saved)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Load(ctx context.Context) (*domain.Graph, error) {
	exists, err := s.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ports.ErrGraphNotFound
	}

	g := domain.NewGraph()
	if err := s.loadMeta(ctx, g); err != nil {
		return nil, err
	}
	if err := s.loadNodes(ctx, g); err != nil {
		return nil, err
	}
	if err := s.loadEdges(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Debug("graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "db", s.path)
	return g, nil
}

func (s *Store) loadMeta(ctx context.Context, g *domain.Graph) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case "created_at":
			g.Meta.CreatedAt, err = time.Parse(time.RFC3339Nano, value)
		case "updated_at":
			g.Meta.UpdatedAt, err = time.Parse(time.RFC3339Nano, value)
		case "consolidation_pass":
			g.Meta.ConsolidationPass = value
		}
		if err != nil {
			return s.corrupt(fmt.Errorf("meta %s: %w", key, err))
		}
	}
	return rows.Err()
}

func (s *Store) loadNodes(ctx context.Context, g *domain.Graph) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, aliases, origin, kind, category, seq, metadata
		FROM nodes ORDER BY seq
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n                 domain.Node
			aliases, metadata string
			origin, kind      string
		)
		if err := rows.Scan(&n.ID, &n.Name, &aliases, &origin, &kind, &n.Category, &n.Seq, &metadata); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(aliases), &n.Aliases); err != nil {
			return s.corrupt(fmt.Errorf("node %s aliases: %w", n.ID, err))
		}
		if err := json.Unmarshal([]byte(metadata), &n.Metadata); err != nil {
			return s.corrupt(fmt.Errorf("node %s metadata: %w", n.ID, err))
		}
		if len(n.Metadata) == 0 {
			n.Metadata = nil
		}
		n.Origin = domain.ParseOrigin(origin)
		n.Kind = domain.Kind(kind)
		g.AddNode(n)
	}
	return rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, g *domain.Graph) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, target_id, relation, raw_relation, confidence, origin, tier
		FROM edges ORDER BY position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e                      domain.Edge
			relation, origin, tier string
		)
		if err := rows.Scan(&e.SourceID, &e.TargetID, &relation, &e.RawRelation, &e.Confidence, &origin, &tier); err != nil {
			return err
		}
		e.Relation, _ = domain.ParseRelation(relation)
		e.Origin = domain.ParseOrigin(origin)
		e.Tier = domain.MatchTier(tier)
		if _, _, err := g.AddEdge(e); err != nil {
			return s.corrupt(err)
		}
	}
	return rows.Err()
}

func (s *Store) Save(ctx context.Context, g *domain.Graph) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.ReplaceGraph(g); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	return tx.Commit()
}

func (s *Store) Commit(ctx context.Context, g *domain.Graph, rec domain.CorrectionRecord) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.ReplaceGraph(g); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	if err := tx.InsertCorrection(rec); err != nil {
		return fmt.Errorf("failed to record correction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("correction committed", "id", rec.ID, "action", rec.Action)
	return nil
}

func (s *Store) Corrections(ctx context.Context) ([]domain.CorrectionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, target, node_ids, created_at, prior, reason
		FROM corrections ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CorrectionRecord
	for rows.Next() {
		var (
			rec                        domain.CorrectionRecord
			action, nodeIDs, at, prior string
		)
		if err := rows.Scan(&rec.ID, &action, &rec.Target, &nodeIDs, &at, &prior, &rec.Reason); err != nil {
			return nil, err
		}
		rec.Action = domain.CorrectionAction(action)
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, s.corrupt(fmt.Errorf("correction %s: %w", rec.ID, err))
		}
		if err := json.Unmarshal([]byte(nodeIDs), &rec.NodeIDs); err != nil {
			return nil, s.corrupt(fmt.Errorf("correction %s: %w", rec.ID, err))
		}
		if err := json.Unmarshal([]byte(prior), &rec.Prior); err != nil {
			return nil, s.corrupt(fmt.Errorf("correction %s: %w", rec.ID, err))
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context) ([]domain.Acknowledgment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, label, path, created_at FROM acks ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Acknowledgment
	for rows.Next() {
		var (
			a  domain.Acknowledgment
			at string
		)
		if err := rows.Scan(&a.Key, &a.Label, &a.Path, &at); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, s.corrupt(fmt.Errorf("ack %s: %w", a.Key, err))
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Add(ctx context.Context, a domain.Acknowledgment) (bool, error) {
	if a.Key == "" {
		return false, fmt.Errorf("acknowledgment key is empty")
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO acks (key, label, path, created_at) VALUES (?, ?, ?, ?)
	`, a.Key, a.Label, a.Path, formatTime(a.CreatedAt))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM acks WHERE key = ?`, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) corrupt(err error) error {
	return &ports.CorruptionError{Path: s.path, Err: err}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
