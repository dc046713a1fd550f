package claudecli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"sentinel/internal/adapters/llm"
	"sentinel/internal/domain"
	"sentinel/internal/ports"
)

// Extractor implements ports.Extractor using the Claude Code CLI
type Extractor struct {
	model  string
	binary string
}

var _ ports.Extractor = (*Extractor)(nil)

// Option configures the Extractor
type Option func(*Extractor)

// WithModel sets the Claude model to use
func WithModel(model string) Option {
	return func(e *Extractor) {
		if model != "" {
			e.model = model
		}
	}
}

// WithBinary overrides the claude executable
func WithBinary(path string) Option {
	return func(e *Extractor) {
		if path != "" {
			e.binary = path
		}
	}
}

// NewExtractor creates a new Claude CLI extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		model:  "haiku", // fast enough for a week of schedule text
		binary: "claude",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	DurationMS   int     `json:"duration_ms"`
	IsError      bool    `json:"is_error"`
	NumTurns     int     `json:"num_turns"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

func (e *Extractor) Name() string { return "claude-cli" }

// Extract sends text to claude and parses the graph it returns
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	args := []string{
		"-p", llm.Prompt(text),
		"--output-format", "json",
		"--model", e.model,
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("claude CLI error: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("claude CLI error: %w", err)
	}
	return decodeOutput(output)
}

// decodeOutput unwraps the claude CLI envelope and parses the graph inside it
func decodeOutput(output []byte) (*domain.Extraction, error) {
	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse claude response: %w", err)
	}
	if response.IsError {
		return nil, fmt.Errorf("claude returned an error: %s", response.Result)
	}
	return llm.Parse(response.Result)
}

// IsAvailable checks if the claude CLI is installed and accessible
func (e *Extractor) IsAvailable() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}
