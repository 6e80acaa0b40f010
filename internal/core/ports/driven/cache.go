package driven

import (
	"context"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// ExtractionCache stores extraction results keyed by a content digest.
type ExtractionCache interface {
	// Get returns the cached result for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) (*domain.Extraction, bool, error)

	// Put stores result under key, replacing any previous entry.
	Put(ctx context.Context, key string, result *domain.Extraction) error
}
