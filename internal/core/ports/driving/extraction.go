package driving

import (
	"context"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// ExtractionService exposes the four extraction entry points.
type ExtractionService interface {
	// ExtractFile extracts text from a local file.
	ExtractFile(ctx context.Context, path string) (*domain.Extraction, error)

	// ExtractURL fetches a remote document and extracts its text.
	ExtractURL(ctx context.Context, url string) (*domain.Extraction, error)

	// ExtractBytes extracts text from raw document bytes.
	ExtractBytes(ctx context.Context, data []byte) (*domain.Extraction, error)

	// ExtractFileOCR extracts text from a local file with OCR forced.
	// An empty language defaults to "eng".
	ExtractFileOCR(ctx context.Context, path, language string) (*domain.Extraction, error)
}
