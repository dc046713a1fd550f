package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/consolidate"
	"sentinel/internal/domain"
	"sentinel/internal/normalize"
)

func newBuilder() *Builder {
	return NewBuilder(normalize.New(normalize.DefaultTables()), consolidate.New(consolidate.DefaultOptions(), nil), nil)
}

func conf(v float64) *float64 { return &v }

func TestApply_BuildsGraph(t *testing.T) {
	text := "Sunday: dinner with Aunt Susan, always leaves me drained. Monday: strategy presentation."
	ext := &domain.Extraction{
		Nodes: []domain.ExtractedNode{
			{Name: "Aunt Susan", Kind: "Person"},
			{Name: "drained", Kind: "EnergyState"},
			{Name: "sharp focus", Kind: "energy_state"},
			{Name: "Strategy Presentation", Kind: "activity", Metadata: map[string]string{"day": "monday"}},
		},
		Edges: []domain.ExtractedEdge{
			{Source: "Aunt Susan", Target: "drained", Relation: "leaves exhausted", Confidence: conf(0.9)},
			{Source: "drained", Target: "sharp focus", Relation: "CONFLICTS_WITH"},
			{Source: "strategy presentation", Target: "Sharp Focus", Relation: "needs"},
			{Source: "Aunt Susan", Target: "Ghost", Relation: "DRAINS"},
			{Source: "drained", Target: "drained", Relation: "DRAINS"},
			{Source: "Aunt Susan", Target: "Strategy Presentation", Relation: "glorps"},
		},
	}

	g := domain.NewGraph()
	report := newBuilder().Apply(g, ext, text)

	assert.Equal(t, 4, report.NodesAdded)
	assert.Equal(t, 4, report.EdgesAdded)
	assert.Equal(t, 1, report.Unknown)
	require.Len(t, report.Dropped, 2)
	assert.Equal(t, "Ghost", report.Dropped[0].Target)

	susan, ok := g.Node("aunt-susan")
	require.True(t, ok)
	assert.Equal(t, domain.OriginUserStated, susan.Origin)
	assert.Equal(t, domain.KindPerson, susan.Kind)

	focus, ok := g.Node("sharp-focus")
	require.True(t, ok)
	assert.Equal(t, domain.OriginAIInferred, focus.Origin, "not in the pasted text")

	drains := g.EdgesBetween("aunt-susan", "drained")
	require.Len(t, drains, 1)
	assert.Equal(t, domain.RelDrains, drains[0].Relation)
	assert.Equal(t, domain.TierKeyword, drains[0].Tier)
	assert.Equal(t, "leaves exhausted", drains[0].RawRelation)
	assert.InDelta(t, 0.9, drains[0].Confidence, 1e-9)
	assert.Equal(t, domain.OriginUserStated, drains[0].Origin)

	requires := g.EdgesBetween("strategy-presentation", "sharp-focus")
	require.Len(t, requires, 1)
	assert.Equal(t, domain.RelRequires, requires[0].Relation)
	assert.InDelta(t, DefaultEdgeConfidence, requires[0].Confidence, 1e-9)
}

func TestApply_MergesWithExistingGraph(t *testing.T) {
	g := domain.NewGraph()
	g.AddNode(domain.Node{Name: "Aunt Susan", Origin: domain.OriginUserStated, Kind: domain.KindPerson})
	g.AddNode(domain.Node{Name: "drained", Kind: domain.KindEnergyState})
	_, _, err := g.AddEdge(domain.Edge{SourceID: "aunt-susan", TargetID: "drained", Relation: domain.RelDrains, Confidence: 0.5})
	require.NoError(t, err)

	ext := &domain.Extraction{
		Nodes: []domain.ExtractedNode{{Name: "aunt susan"}, {Name: "exhausted", Kind: "energy-state"}},
		Edges: []domain.ExtractedEdge{
			{Source: "aunt susan", Target: "drained", Relation: "drains", Confidence: conf(0.8)},
			{Source: "Aunt Susan", Target: "exhausted", Relation: "drains", Confidence: conf(0.7)},
		},
	}
	report := newBuilder().Apply(g, ext, "")

	assert.Equal(t, 1, report.NodesMerged)
	assert.Equal(t, 1, report.EdgesMerged)
	require.Len(t, report.Consolidation.Merges, 1, "exhausted folds into drained")

	assert.Equal(t, 2, g.NodeCount())
	edges := g.EdgesBetween("aunt-susan", "drained")
	require.Len(t, edges, 1)
	assert.InDelta(t, 0.8, edges[0].Confidence, 1e-9)

	susan, _ := g.Node("aunt-susan")
	assert.Equal(t, domain.OriginUserStated, susan.Origin, "origin never changes after creation")
}

func TestStatedIn(t *testing.T) {
	stated := statedIn("Dinner with Aunt  Susan; then the Gym-session.")

	tests := []struct {
		name string
		want bool
	}{
		{"Aunt Susan", true},
		{"aunt susan", true},
		{"Dinner", true},
		{"Gym", true},
		{"Susan B", false},
		{"inner", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stated(tt.name))
		})
	}
}
