package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/adapters/filestore"
	"sentinel/internal/collision"
	"sentinel/internal/domain"
	"sentinel/internal/matching"
)

func newDeps(t *testing.T) Deps {
	t.Helper()
	dir := t.TempDir()
	store := filestore.New(dir, nil)

	g := domain.NewGraph()
	g.AddNode(domain.Node{Name: "Aunt Susan", Origin: domain.OriginUserStated, Kind: domain.KindPerson})
	g.AddNode(domain.Node{Name: "drained", Kind: domain.KindEnergyState})
	g.AddNode(domain.Node{Name: "focused", Kind: domain.KindEnergyState})
	g.AddNode(domain.Node{Name: "Strategy Presentation", Origin: domain.OriginUserStated, Kind: domain.KindActivity})
	for _, e := range []domain.Edge{
		{SourceID: "aunt-susan", TargetID: "drained", Relation: domain.RelDrains, Confidence: 0.9},
		{SourceID: "drained", TargetID: "focused", Relation: domain.RelConflictsWith, Confidence: 0.9},
		{SourceID: "strategy-presentation", TargetID: "focused", Relation: domain.RelRequires, Confidence: 0.9},
	} {
		_, _, err := g.AddEdge(e)
		require.NoError(t, err)
	}
	require.NoError(t, store.Save(context.Background(), g))

	return Deps{
		Store:         store,
		Acks:          filestore.NewAckStore(dir),
		Locker:        filestore.NewFileLocker(dir),
		Detector:      collision.NewDetector(collision.DefaultOptions(), nil),
		Resolver:      matching.NewResolver(matching.Scorer{}),
		MinConfidence: collision.DefaultMinConfidence,
	}
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	res, err := h(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestRegister(t *testing.T) {
	s := server.NewMCPServer("sentinel-test", "0.0.0", server.WithToolCapabilities(true))
	Register(s, newDeps(t))

	tools := s.ListTools()
	for _, name := range []string{"check", "graph", "ack", "corrections"} {
		assert.Contains(t, tools, name)
	}
}

func TestCheckTool(t *testing.T) {
	d := newDeps(t)

	text, isErr := call(t, checkHandler(d), nil)
	require.False(t, isErr, text)

	var report struct {
		Collisions []struct {
			Trigger string `json:"trigger"`
			Impact  string `json:"impact"`
		} `json:"collisions"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	require.Len(t, report.Collisions, 1)
	assert.Equal(t, "Aunt Susan", report.Collisions[0].Trigger)

	text, isErr = call(t, checkHandler(d), map[string]any{"min_confidence": 0.95})
	require.False(t, isErr, text)
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Empty(t, report.Collisions)

	_, isErr = call(t, checkHandler(d), map[string]any{"min_confidence": 3.0})
	assert.True(t, isErr)
}

func TestGraphTool(t *testing.T) {
	d := newDeps(t)

	text, isErr := call(t, graphHandler(d), map[string]any{"node": "focused", "depth": 1.0})
	require.False(t, isErr, text)
	var doc struct {
		Focus string `json:"focus"`
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &doc))
	assert.Equal(t, "focused", doc.Focus)
	assert.Len(t, doc.Nodes, 3)

	text, isErr = call(t, graphHandler(d), map[string]any{"node": "Uncle Bob"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")
}

func TestAckToolHidesCollision(t *testing.T) {
	d := newDeps(t)

	text, isErr := call(t, ackHandler(d), map[string]any{"label": "aunt susan"})
	require.False(t, isErr, text)
	assert.Equal(t, "Acknowledged Aunt Susan", text)

	text, _ = call(t, checkHandler(d), nil)
	var report struct {
		HiddenAcknowledged int `json:"hidden_acknowledged"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Equal(t, 1, report.HiddenAcknowledged)

	text, isErr = call(t, ackHandler(d), map[string]any{"label": "Aunt Susan", "remove": true})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Removed")

	_, isErr = call(t, ackHandler(d), map[string]any{})
	assert.True(t, isErr)
}

func TestCorrectionsTool(t *testing.T) {
	d := newDeps(t)

	text, isErr := call(t, correctionsHandler(d), nil)
	require.False(t, isErr)
	assert.Equal(t, "No corrections.", text)
}
