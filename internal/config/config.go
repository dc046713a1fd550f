// Package config loads sentinel settings from a YAML file with environment overrides
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sentinel/internal/collision"
	"sentinel/internal/consolidate"
	"sentinel/internal/domain"
	"sentinel/internal/normalize"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	ExtractorOpenRouter = "openrouter"
	ExtractorClaude     = "claude"
	ExtractorMock       = "mock"

	DefaultExtractorTimeout = 60 * time.Second
	DefaultFormat           = "text"
)

// Environment variables that override the file
const (
	EnvConfig        = "SENTINEL_CONFIG"
	EnvDataDir       = "SENTINEL_DATA_DIR"
	EnvExtractor     = "SENTINEL_EXTRACTOR"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
)

// Config is the full settings tree
type Config struct {
	Storage     Storage             `yaml:"storage"`
	Extractor   Extractor           `yaml:"extractor"`
	Normalize   normalize.Tables    `yaml:"normalize"`
	Consolidate consolidate.Options `yaml:"consolidate"`
	Detect      Detect              `yaml:"detect"`
	Output      Output              `yaml:"output"`
}

type Storage struct {
	Backend string `yaml:"backend"` // file or sqlite
	DataDir string `yaml:"data_dir"`
}

type Extractor struct {
	Kind    string        `yaml:"kind"` // openrouter, claude or mock
	Model   string        `yaml:"model,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
	APIKey  string        `yaml:"api_key,omitempty"`
}

// Detect holds the detector settings plus the default threshold for check
type Detect struct {
	collision.Options `yaml:",inline"`
	// MinConfidence wins over EnergyThreshold when set
	MinConfidence   float64 `yaml:"min_confidence,omitempty"`
	EnergyThreshold string  `yaml:"energy_threshold"` // low, medium or high
}

type Output struct {
	DefaultFormat string `yaml:"default_format"` // text, json or html
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Storage: Storage{
			Backend: BackendFile,
			DataDir: DefaultDataDir(),
		},
		Extractor: Extractor{
			Kind:    ExtractorOpenRouter,
			Timeout: DefaultExtractorTimeout,
		},
		Normalize:   normalize.DefaultTables(),
		Consolidate: consolidate.DefaultOptions(),
		Detect: Detect{
			Options:         collision.DefaultOptions(),
			EnergyThreshold: "medium",
		},
		Output: Output{DefaultFormat: DefaultFormat},
	}
}

// DefaultDataDir returns $XDG_DATA_HOME/sentinel, falling back to ~/.local/share/sentinel
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "sentinel")
	}
	return filepath.Join(homeDir(), ".local", "share", "sentinel")
}

// Path returns the config file location from SENTINEL_CONFIG,
// falling back to $XDG_CONFIG_HOME/sentinel/config.yaml.
func Path() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sentinel", "config.yaml")
	}
	return filepath.Join(homeDir(), ".config", "sentinel", "config.yaml")
}

// Load reads the config file at path over the defaults. A missing file is not
// an error. Environment overrides are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.Storage.DataDir = ExpandHome(cfg.Storage.DataDir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if env := os.Getenv(EnvDataDir); env != "" {
		c.Storage.DataDir = env
	}
	if env := os.Getenv(EnvExtractor); env != "" {
		c.Extractor.Kind = env
	}
	if env := os.Getenv(EnvOpenRouterKey); env != "" {
		c.Extractor.APIKey = env
	}
}

// Validate checks enumerations and ranges
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{BackendFile, BackendSQLite}, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		errs = append(errs, errors.New("storage.data_dir is required"))
	}
	if !slices.Contains([]string{ExtractorOpenRouter, ExtractorClaude, ExtractorMock}, c.Extractor.Kind) {
		errs = append(errs, fmt.Errorf("extractor.kind: unknown extractor %q", c.Extractor.Kind))
	}
	if c.Extractor.Timeout < 0 {
		errs = append(errs, errors.New("extractor.timeout must not be negative"))
	}
	if t := c.Normalize.FuzzyThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("normalize.fuzzy_threshold must be between 0 and 1, got %g", t))
	}
	for _, k := range c.Normalize.Keywords {
		if _, ok := domain.ParseRelation(string(k.Relation)); !ok {
			errs = append(errs, fmt.Errorf("normalize.keywords: unknown relation %q for %q", k.Relation, k.Stem))
		}
	}
	for label, rel := range c.Normalize.Exact {
		if _, ok := domain.ParseRelation(string(rel)); !ok {
			errs = append(errs, fmt.Errorf("normalize.exact: unknown relation %q for %q", rel, label))
		}
	}
	if t := c.Consolidate.Threshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("consolidate.threshold must be between 0 and 1, got %g", t))
	}
	if c.Detect.MaxHops < 0 {
		errs = append(errs, errors.New("detect.max_hops must not be negative"))
	}
	if d := c.Detect.Decay; d < 0 || d > 1 {
		errs = append(errs, fmt.Errorf("detect.decay must be between 0 and 1, got %g", d))
	}
	if m := c.Detect.MinConfidence; m < 0 || m > 1 {
		errs = append(errs, fmt.Errorf("detect.min_confidence must be between 0 and 1, got %g", m))
	}
	if _, ok := collision.ThresholdFor(c.Detect.EnergyThreshold); !ok {
		errs = append(errs, fmt.Errorf("detect.energy_threshold: expected low, medium or high, got %q", c.Detect.EnergyThreshold))
	}
	if !slices.Contains([]string{"text", "json", "html"}, c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("output.default_format: unknown format %q", c.Output.DefaultFormat))
	}
	return errors.Join(errs...)
}

// MinConfidence returns the threshold check uses when no flag overrides it
func (c *Config) MinConfidence() float64 {
	if c.Detect.MinConfidence > 0 {
		return c.Detect.MinConfidence
	}
	t, _ := collision.ThresholdFor(c.Detect.EnergyThreshold)
	return t
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.Extractor.APIKey != "" {
		cp.Extractor.APIKey = "********"
	}
	return &cp
}

// YAML renders the config as YAML
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
