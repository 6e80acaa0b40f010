// Package image extracts text from raster images through an OCR engine.
package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FormatExtractor = (*Extractor)(nil)

// Extractor runs OCR over image documents.
type Extractor struct {
	engine driven.OCREngine
}

// New creates an image extractor. A nil engine makes every call fail
// with domain.ErrOCRUnavailable.
func New(engine driven.OCREngine) *Extractor {
	return &Extractor{engine: engine}
}

// Name returns the parser name.
func (e *Extractor) Name() string {
	if e.engine == nil {
		return "image"
	}
	return "image/" + e.engine.Name()
}

// SupportedMIMETypes returns the image types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"image/png",
		"image/jpeg",
		"image/gif",
		"image/bmp",
		"image/tiff",
		"image/webp",
	}
}

// Extract recognises the text in an image using opts.OCRLanguage.
func (e *Extractor) Extract(ctx context.Context, data []byte, opts domain.ExtractOptions) (*domain.Extraction, error) {
	if e.engine == nil {
		return nil, domain.ErrOCRUnavailable
	}

	lang := opts.OCRLanguage
	if lang == "" {
		lang = domain.DefaultOCRLanguage
	}

	text, err := e.engine.Recognize(ctx, data, lang)
	if err != nil {
		return nil, fmt.Errorf("ocr (%s): %w", lang, err)
	}

	meta := domain.Metadata{}
	meta.Add("X-OCR-Language", lang)
	meta.Add("X-OCR-Engine", e.engine.Name())
	return &domain.Extraction{Text: strings.TrimSpace(text), Metadata: meta}, nil
}
