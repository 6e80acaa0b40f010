package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// Extractor is the document text-extraction engine. It is treated as an
// opaque collaborator: input in, text and metadata out.
type Extractor interface {
	// ExtractFile extracts text from a local file.
	ExtractFile(ctx context.Context, path string, opts domain.ExtractOptions) (*domain.Extraction, error)

	// ExtractBytes extracts text from an in-memory document.
	ExtractBytes(ctx context.Context, data []byte, opts domain.ExtractOptions) (*domain.Extraction, error)
}

// OCREngine recognises text in raster images.
type OCREngine interface {
	// Name returns the engine name recorded in metadata.
	Name() string

	// Recognize returns the plain text found in an encoded image.
	Recognize(ctx context.Context, image []byte, language string) (string, error)
}

// Fetcher retrieves remote documents.
type Fetcher interface {
	// Fetch opens the document at url. The caller closes the body.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// FetchResult is an opened remote document.
type FetchResult struct {
	Body        io.ReadCloser
	ContentType string
	URL         string
}

// FormatExtractor extracts text from one family of document formats.
type FormatExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Name is recorded in metadata as the parser used.
	Name() string

	// Extract returns the text and format-specific metadata of data.
	Extract(ctx context.Context, data []byte, opts domain.ExtractOptions) (*domain.Extraction, error)
}
