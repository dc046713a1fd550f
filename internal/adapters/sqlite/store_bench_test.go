package sqlite

import (
	"context"
	"fmt"
	"testing"

	"sentinel/internal/domain"
)

func largeGraph(b *testing.B, nodes int) *domain.Graph {
	b.Helper()
	g := domain.NewGraph()
	for i := range nodes {
		g.AddNode(domain.Node{Name: fmt.Sprintf("Activity %d", i), Kind: domain.KindActivity})
	}
	all := g.Nodes()
	for i := 1; i < len(all); i++ {
		if _, _, err := g.AddEdge(domain.Edge{SourceID: all[i-1].ID, TargetID: all[i].ID, Relation: domain.RelPrecedes, Confidence: 0.9}); err != nil {
			b.Fatalf("add edge: %v", err)
		}
	}
	return g
}

// BenchmarkSave measures replacing a 500 node graph
func BenchmarkSave(b *testing.B) {
	s, err := Open(b.TempDir(), nil)
	if err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()
	g := largeGraph(b, 500)

	b.ResetTimer()
	for b.Loop() {
		if err := s.Save(context.Background(), g); err != nil {
			b.Fatalf("save failed: %v", err)
		}
	}
}

// BenchmarkLoad measures reading a 500 node graph back
func BenchmarkLoad(b *testing.B) {
	s, err := Open(b.TempDir(), nil)
	if err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()
	if err := s.Save(context.Background(), largeGraph(b, 500)); err != nil {
		b.Fatalf("save failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := s.Load(context.Background()); err != nil {
			b.Fatalf("load failed: %v", err)
		}
	}
}
