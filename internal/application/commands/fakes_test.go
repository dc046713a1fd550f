package commands

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sentinel/internal/application"
	"sentinel/internal/domain"
	"sentinel/internal/matching"
)

// memStore is an in-memory GraphStore that copies graphs on the way in and out
type memStore struct {
	graph       *domain.Graph
	corrections []domain.CorrectionRecord
	commitErr   error
	saves       int
}

func (s *memStore) Load(ctx context.Context) (*domain.Graph, error) {
	if s.graph == nil {
		return nil, application.ErrGraphNotFound
	}
	return s.graph.Clone(), nil
}

func (s *memStore) Save(ctx context.Context, g *domain.Graph) error {
	s.graph = g.Clone()
	s.saves++
	return nil
}

func (s *memStore) Commit(ctx context.Context, g *domain.Graph, rec domain.CorrectionRecord) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.corrections = append(s.corrections, rec)
	s.graph = g.Clone()
	return nil
}

func (s *memStore) Corrections(ctx context.Context) ([]domain.CorrectionRecord, error) {
	return slices.Clone(s.corrections), nil
}

func (s *memStore) Exists(ctx context.Context) (bool, error) {
	return s.graph != nil, nil
}

type memAcks struct {
	entries []domain.Acknowledgment
}

func (a *memAcks) List(ctx context.Context) ([]domain.Acknowledgment, error) {
	return slices.Clone(a.entries), nil
}

func (a *memAcks) Add(ctx context.Context, ack domain.Acknowledgment) (bool, error) {
	for _, e := range a.entries {
		if e.Key == ack.Key {
			return false, nil
		}
	}
	a.entries = append(a.entries, ack)
	return true, nil
}

func (a *memAcks) Remove(ctx context.Context, key string) (bool, error) {
	n := len(a.entries)
	a.entries = slices.DeleteFunc(a.entries, func(e domain.Acknowledgment) bool { return e.Key == key })
	return len(a.entries) < n, nil
}

// countingLocker records how often the lock was taken and that it was released
type countingLocker struct {
	mu     sync.Mutex
	locks  int
	held   bool
	failed error
}

func (l *countingLocker) Lock(ctx context.Context) (func() error, error) {
	if l.failed != nil {
		return nil, l.failed
	}
	l.mu.Lock()
	l.locks++
	l.held = true
	return func() error {
		l.held = false
		l.mu.Unlock()
		return nil
	}, nil
}

type fakeExtractor struct {
	ext *domain.Extraction
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	return f.ext, f.err
}

func (f *fakeExtractor) Name() string { return "fake" }

func resolver() matching.Resolver {
	return matching.NewResolver(matching.Scorer{})
}

// scenarioStore holds the Aunt Susan graph: a draining visit leaves the user
// drained, which conflicts with the focus a presentation requires
func scenarioStore(t *testing.T) *memStore {
	t.Helper()
	g := domain.NewGraph()
	for _, n := range []domain.Node{
		{Name: "Aunt Susan", Origin: domain.OriginUserStated, Kind: domain.KindPerson},
		{Name: "drained", Kind: domain.KindEnergyState},
		{Name: "focused", Kind: domain.KindEnergyState},
		{Name: "Strategy Presentation", Origin: domain.OriginUserStated, Kind: domain.KindActivity},
	} {
		g.AddNode(n)
	}
	for _, e := range []domain.Edge{
		{SourceID: "aunt-susan", TargetID: "drained", Relation: domain.RelDrains, Confidence: 0.9},
		{SourceID: "drained", TargetID: "focused", Relation: domain.RelConflictsWith, Confidence: 0.9},
		{SourceID: "strategy-presentation", TargetID: "focused", Relation: domain.RelRequires, Confidence: 0.9},
	} {
		_, _, err := g.AddEdge(e)
		require.NoError(t, err)
	}
	return &memStore{graph: g}
}
