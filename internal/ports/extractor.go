package ports

import (
	"context"

	"sentinel/internal/domain"
)

// Extractor turns free-form schedule text into node and edge candidates.
// Its output is untrusted: relation labels are raw and nodes may repeat.
type Extractor interface {
	Extract(ctx context.Context, text string) (*domain.Extraction, error)

	// Name identifies the engine in logs and output
	Name() string
}
