package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/application"
	"sentinel/internal/collision"
	"sentinel/internal/domain"
)

func TestCheckCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		min     float64
		wantErr bool
	}{
		{"default", collision.DefaultMinConfidence, false},
		{"zero", 0, false},
		{"one", 1, false},
		{"negative", -0.2, true},
		{"above one", 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&CheckCommand{MinConfidence: tt.min}).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckCommand_Execute(t *testing.T) {
	detector := collision.NewDetector(collision.DefaultOptions(), nil)

	t.Run("finds the scenario collision", func(t *testing.T) {
		cmd := NewCheckCommand(scenarioStore(t), &memAcks{}, detector, collision.DefaultMinConfidence)
		res, err := cmd.Execute(context.Background())
		require.NoError(t, err)

		require.Equal(t, 1, res.Len())
		c := res.Collisions()[0]
		assert.Equal(t, "Aunt Susan", c.Trigger().Name)
		assert.Equal(t, "Strategy Presentation", c.Impact().Name)
		assert.Equal(t, 3, res.RelationshipsAnalyzed)
		assert.Equal(t, 4, res.Graph.NodeCount())
		assert.Equal(t, 1, res.Unresolved())
	})

	t.Run("acknowledged collisions are hidden", func(t *testing.T) {
		acks := &memAcks{entries: []domain.Acknowledgment{{Key: "aunt-susan", Label: "Aunt Susan"}}}
		cmd := NewCheckCommand(scenarioStore(t), acks, detector, collision.DefaultMinConfidence)
		res, err := cmd.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, res.Len())
		assert.Equal(t, 1, res.HiddenAcknowledged)

		cmd.IncludeAcknowledged = true
		res, err = cmd.Execute(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, res.Len())
		assert.True(t, res.Collisions()[0].Acknowledged)
		assert.Equal(t, 0, res.Unresolved())
	})

	t.Run("high threshold hides the collision", func(t *testing.T) {
		cmd := NewCheckCommand(scenarioStore(t), &memAcks{}, detector, 0.9)
		res, err := cmd.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, res.Len())
		assert.Equal(t, 1, res.HiddenLowConfidence)

		cmd.IncludeLowConfidence = true
		res, err = cmd.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Len())
		assert.Equal(t, 0, res.Unresolved())
	})

	t.Run("no graph", func(t *testing.T) {
		cmd := NewCheckCommand(&memStore{}, &memAcks{}, detector, collision.DefaultMinConfidence)
		_, err := cmd.Execute(context.Background())
		assert.ErrorIs(t, err, application.ErrGraphNotFound)
	})
}
