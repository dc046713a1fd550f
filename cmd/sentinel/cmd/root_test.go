package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/config"
)

const scenario = `Sunday: Aunt Susan [person] drains drained @0.9
drained conflicts with focused @0.9
Monday: Strategy Presentation [activity] requires focused @0.9`

// resetFlags restores every flag to its default between runs of the shared command tree
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// sentinel runs the CLI against a temporary data directory with the mock extractor
func sentinel(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv(config.EnvDataDir, dir)
	t.Setenv(config.EnvExtractor, config.ExtractorMock)

	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", filepath.Join(dir, "missing.yaml")}, args...)
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLI_CheckWithoutGraph(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := sentinel(t, dir, "check")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "sentinel paste")
}

func TestCLI_PasteCheckAck(t *testing.T) {
	dir := t.TempDir()

	code, out, stderr := sentinel(t, dir, "paste", scenario)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "Created graph with mock")

	code, out, _ = sentinel(t, dir, "check")
	assert.Equal(t, ExitCollisions, code)
	assert.Contains(t, out, "Aunt Susan")
	assert.Contains(t, out, "Strategy Presentation")

	code, out, _ = sentinel(t, dir, "check", "--format", "json")
	assert.Equal(t, ExitCollisions, code)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report["collisions"], 1)

	code, out, _ = sentinel(t, dir, "ack", "aunt susan")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Acknowledged Aunt Susan")

	code, out, _ = sentinel(t, dir, "check")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "No energy collisions detected")

	code, out, _ = sentinel(t, dir, "check", "--show-acked")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Aunt Susan")
	assert.Contains(t, out, "(acknowledged)")

	code, _, _ = sentinel(t, dir, "check", "--show-acked", "--all")
	assert.Equal(t, ExitOK, code)

	code, out, _ = sentinel(t, dir, "ack", "--list")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Aunt Susan")

	code, _, _ = sentinel(t, dir, "ack", "Aunt Susan", "--remove")
	assert.Equal(t, ExitOK, code)
	code, _, _ = sentinel(t, dir, "check")
	assert.Equal(t, ExitCollisions, code)

	code, out, _ = sentinel(t, dir, "check", "--all", "--min-confidence", "0.9")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Strategy Presentation")
}

func TestCLI_Corrections(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := sentinel(t, dir, "paste", scenario)
	require.Equal(t, ExitOK, code, stderr)

	code, _, stderr = sentinel(t, dir, "correct", "delete", "Aunt Susan")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "stated by you")

	code, out, stderr := sentinel(t, dir, "correct", "modify", "drained", "focused", "precedes", "--reason", "not a conflict")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "Changed")

	code, out, _ = sentinel(t, dir, "correct", "list")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "modify-relation")
	assert.Contains(t, out, `"not a conflict"`)

	code, _, stderr = sentinel(t, dir, "correct", "remove-edge", "drained", "focused", "drains")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "drains")
}

func TestCLI_Graph(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := sentinel(t, dir, "paste", scenario)
	require.Equal(t, ExitOK, code, stderr)

	code, out, _ := sentinel(t, dir, "graph", "strategy presentation", "--depth", "1")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Strategy Presentation")
	assert.Contains(t, out, "focused")
	assert.NotContains(t, out, "Aunt Susan")

	code, _, stderr = sentinel(t, dir, "graph", "--depth", "9")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "depth")
}

func TestCLI_ConfigShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvOpenRouterKey, "sk-secret")

	code, out, _ := sentinel(t, dir, "config", "show")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "backend: file")
	assert.NotContains(t, out, "sk-secret")
}
