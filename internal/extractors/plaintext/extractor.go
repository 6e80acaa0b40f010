// Package plaintext extracts text/* documents.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FormatExtractor = (*Extractor)(nil)

// Extractor passes text documents through as UTF-8.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the parser name.
func (e *Extractor) Name() string {
	return "plaintext"
}

// SupportedMIMETypes returns the text types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/xml",
		"application/json",
	}
}

// Extract returns data as text. Invalid UTF-8 sequences are replaced
// with U+FFFD and a leading byte order mark is dropped.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ domain.ExtractOptions) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	text = strings.TrimPrefix(text, "\ufeff")

	meta := domain.Metadata{}
	meta.Add("Content-Encoding", "UTF-8")
	return &domain.Extraction{Text: text, Metadata: meta}, nil
}
