package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"sentinel/internal/domain"
)

// graphTx wraps a write transaction over the graph tables
type graphTx struct {
	tx *sql.Tx
}

func (s *Store) beginTx(ctx context.Context) (*graphTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &graphTx{tx: tx}, nil
}

// ReplaceGraph swaps the stored nodes, edges and graph metadata for g's
func (t *graphTx) ReplaceGraph(g *domain.Graph) error {
	if _, err := t.tx.Exec(`DELETE FROM edges`); err != nil {
		return err
	}
	if _, err := t.tx.Exec(`DELETE FROM nodes`); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		if err := t.insertNode(n); err != nil {
			return err
		}
	}
	for i, e := range g.Edges() {
		if err := t.insertEdge(i, e); err != nil {
			return err
		}
	}
	return t.setMeta(map[string]string{
		"created_at":         formatTime(g.Meta.CreatedAt),
		"updated_at":         formatTime(g.Meta.UpdatedAt),
		"consolidation_pass": g.Meta.ConsolidationPass,
		"saved_at":           "1",
	})
}

func (t *graphTx) insertNode(n *domain.Node) error {
	aliases, err := json.Marshal(nonNil(n.Aliases))
	if err != nil {
		return err
	}
	metadata := []byte("{}")
	if len(n.Metadata) > 0 {
		if metadata, err = json.Marshal(n.Metadata); err != nil {
			return err
		}
	}
	_, err = t.tx.Exec(`
		INSERT INTO nodes (id, name, aliases, origin, kind, category, seq, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Name, string(aliases), string(n.Origin), string(n.Kind), n.Category, n.Seq, string(metadata))
	return err
}

func (t *graphTx) insertEdge(position int, e domain.Edge) error {
	_, err := t.tx.Exec(`
		INSERT INTO edges (position, source_id, target_id, relation, raw_relation, confidence, origin, tier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, position, e.SourceID, e.TargetID, string(e.Relation), e.RawRelation, e.Confidence, string(e.Origin), string(e.Tier))
	return err
}

func (t *graphTx) setMeta(values map[string]string) error {
	for k, v := range values {
		if _, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return nil
}

// InsertCorrection appends rec to the ledger
func (t *graphTx) InsertCorrection(rec domain.CorrectionRecord) error {
	nodeIDs, err := json.Marshal(nonNil(rec.NodeIDs))
	if err != nil {
		return err
	}
	prior, err := json.Marshal(rec.Prior)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(`
		INSERT INTO corrections (id, action, target, node_ids, created_at, prior, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, string(rec.Action), rec.Target, string(nodeIDs), formatTime(rec.Timestamp), string(prior), rec.Reason)
	return err
}

// Commit commits the transaction
func (t *graphTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *graphTx) Rollback() error {
	return t.tx.Rollback()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
