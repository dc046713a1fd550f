package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvDataDir, EnvExtractor, EnvOpenRouterKey} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, ExtractorOpenRouter, cfg.Extractor.Kind)
	assert.Equal(t, DefaultExtractorTimeout, cfg.Extractor.Timeout)
	assert.Equal(t, 4, cfg.Detect.MaxHops)
	assert.Equal(t, 0.5, cfg.MinConfidence())
	assert.NotEmpty(t, cfg.Normalize.Keywords)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  backend: sqlite
  data_dir: /tmp/sentinel-test
extractor:
  kind: mock
  timeout: 5s
normalize:
  exact:
    wrecks: DRAINS
detect:
  max_hops: 3
  energy_threshold: high
  conflicting_states:
    - [drained, focused]
output:
  default_format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/sentinel-test", cfg.Storage.DataDir)
	assert.Equal(t, ExtractorMock, cfg.Extractor.Kind)
	assert.Equal(t, 5*time.Second, cfg.Extractor.Timeout)
	assert.Equal(t, domain.RelDrains, cfg.Normalize.Exact["wrecks"])
	assert.Equal(t, domain.RelDrains, cfg.Normalize.Exact["depletes"], "built-in entries survive a partial table")
	assert.Equal(t, 3, cfg.Detect.MaxHops)
	assert.Equal(t, 0.9, cfg.Detect.Decay)
	assert.Equal(t, [][2]string{{"drained", "focused"}}, cfg.Detect.ConflictingStates)
	assert.Equal(t, 0.7, cfg.MinConfidence())
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "storage:\n  data_dir: /from/file\nextractor:\n  kind: claude\n")
	t.Setenv(EnvDataDir, "/from/env")
	t.Setenv(EnvExtractor, "mock")
	t.Setenv(EnvOpenRouterKey, "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Storage.DataDir)
	assert.Equal(t, ExtractorMock, cfg.Extractor.Kind)
	assert.Equal(t, "sk-test", cfg.Extractor.APIKey)
	assert.Equal(t, "********", cfg.Redacted().Extractor.APIKey)
	assert.Equal(t, "sk-test", cfg.Extractor.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"backend", "storage:\n  backend: postgres\n", "unknown backend"},
		{"extractor", "extractor:\n  kind: gpt\n", "unknown extractor"},
		{"threshold", "detect:\n  energy_threshold: extreme\n", "energy_threshold"},
		{"decay", "detect:\n  decay: 1.5\n", "detect.decay"},
		{"format", "output:\n  default_format: pdf\n", "unknown format"},
		{"keyword relation", "normalize:\n  keywords:\n    - stem: wreck\n      relation: WRECKS\n", "unknown relation"},
		{"syntax", "storage: [\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/sentinel.yaml")
	assert.Equal(t, "/etc/sentinel.yaml", Path())

	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "sentinel", "config.yaml"), Path())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), ExpandHome("~/data"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
}

func TestYAMLRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Storage.DataDir = "/data"
	out, err := cfg.YAML()
	require.NoError(t, err)

	path := writeConfig(t, string(out))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Detect.MaxHops, loaded.Detect.MaxHops)
	assert.Equal(t, cfg.Extractor.Timeout, loaded.Extractor.Timeout)
	assert.Equal(t, cfg.Normalize.Keywords, loaded.Normalize.Keywords)
}
