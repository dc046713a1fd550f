package mockengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Sentences(t *testing.T) {
	text := `Sunday: Aunt Susan [person] drains emotional energy @0.9
emotional energy conflicts with Strategy Presentation; Strategy Presentation requires sharp focus
Monday: Strategy Presentation is scheduled at Monday morning
Lunch with friends.`

	got, err := New().Extract(context.Background(), text)
	require.NoError(t, err)

	var names []string
	for _, n := range got.Nodes {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Aunt Susan", "emotional energy", "Strategy Presentation", "sharp focus", "Monday morning"}, names)

	assert.Equal(t, "person", got.Nodes[0].Kind)
	assert.Equal(t, "sunday", got.Nodes[0].Metadata["day"])
	assert.Equal(t, "energy-state", got.Nodes[1].Kind)
	assert.Nil(t, got.Nodes[1].Metadata)
	assert.Equal(t, "time-slot", got.Nodes[4].Kind)

	require.Len(t, got.Edges, 4)
	assert.Equal(t, "drains", got.Edges[0].Relation)
	require.NotNil(t, got.Edges[0].Confidence)
	assert.InDelta(t, 0.9, *got.Edges[0].Confidence, 1e-9)
	assert.Equal(t, "conflicts with", got.Edges[1].Relation)
	assert.Nil(t, got.Edges[1].Confidence)
	assert.Equal(t, "requires", got.Edges[2].Relation)
	assert.Equal(t, "is scheduled at", got.Edges[3].Relation)
}

func TestExtract_Deterministic(t *testing.T) {
	text := "Gym exhausts me\nTired conflicts with Exam\nExam needs focus"
	e := New()

	a, err := e.Extract(context.Background(), text)
	require.NoError(t, err)
	b, err := e.Extract(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtract_NoVerbs(t *testing.T) {
	got, err := New().Extract(context.Background(), "Monday standup. Tuesday documentation work.")
	require.NoError(t, err)
	assert.Empty(t, got.Nodes)
	assert.Empty(t, got.Edges)
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, "A drains B")
	assert.ErrorIs(t, err, context.Canceled)
}
