package commands

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/application"
	"sentinel/internal/domain"
)

func TestGraphCommand_WholeGraph(t *testing.T) {
	res, err := NewGraphCommand(scenarioStore(t), resolver(), "", 0).Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Focus)
	assert.Equal(t, 4, res.Graph.NodeCount())
	assert.Equal(t, 3, res.Graph.EdgeCount())
}

func TestGraphCommand_Neighborhood(t *testing.T) {
	tests := []struct {
		name      string
		node      string
		depth     int
		wantNodes []string
		wantEdges int
	}{
		{"depth one follows outgoing", "Aunt Susan", 1, []string{"aunt-susan", "drained"}, 1},
		{"depth one follows incoming", "focused", 1, []string{"drained", "focused", "strategy-presentation"}, 2},
		{"depth two", "Aunt Susan", 2, []string{"aunt-susan", "drained", "focused"}, 2},
		{"default depth", "aunt susan", 0, []string{"aunt-susan", "drained", "focused"}, 2},
		{"depth covers the graph", "Strategy Presentation", 5, []string{"aunt-susan", "drained", "focused", "strategy-presentation"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewGraphCommand(scenarioStore(t), resolver(), tt.node, tt.depth).Execute(context.Background())
			require.NoError(t, err)

			var ids []string
			for _, n := range res.Graph.Nodes() {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.wantNodes, ids)
			assert.Equal(t, tt.wantEdges, res.Graph.EdgeCount())
			assert.Empty(t, res.Warning)
		})
	}
}

func TestGraphCommand_Errors(t *testing.T) {
	_, err := NewGraphCommand(scenarioStore(t), resolver(), "Uncle Bob", 1).Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrNodeNotFound)

	_, err = NewGraphCommand(scenarioStore(t), resolver(), "Aunt Susan", 6).Execute(context.Background())
	var ve *application.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = NewGraphCommand(&memStore{}, resolver(), "", 0).Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrGraphNotFound)
}

func TestGraphCommand_LargeNeighborhoodWarns(t *testing.T) {
	g := domain.NewGraph()
	g.AddNode(domain.Node{Name: "hub"})
	for i := range LargeNeighborhood + 1 {
		leaf, _ := g.AddNode(domain.Node{Name: fmt.Sprintf("leaf %d", i)})
		_, _, err := g.AddEdge(domain.Edge{SourceID: "hub", TargetID: leaf.ID, Relation: domain.RelInvolves, Confidence: 1})
		require.NoError(t, err)
	}

	res, err := NewGraphCommand(&memStore{graph: g}, resolver(), "hub", 1).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LargeNeighborhood+2, res.Graph.NodeCount())
	assert.Contains(t, res.Warning, "smaller --depth")
}
