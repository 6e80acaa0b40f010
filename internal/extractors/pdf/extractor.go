// Package pdf extracts text from PDF documents, either from the text
// layer or by running OCR over the images embedded in each page.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// MIMEType is the media type handled by this extractor.
const MIMEType = "application/pdf"

// Ensure Extractor implements the interface.
var _ driven.FormatExtractor = (*Extractor)(nil)

// Extractor reads PDF text layers or page images page by page.
type Extractor struct {
	ocr driven.OCREngine
}

// New creates a PDF extractor. The OCR engine serves the OCR-only
// strategy; with a nil engine that strategy fails with
// domain.ErrOCRUnavailable.
func New(ocr driven.OCREngine) *Extractor {
	return &Extractor{ocr: ocr}
}

// Name returns the parser name.
func (e *Extractor) Name() string {
	return "pdf"
}

// SupportedMIMETypes returns the PDF media type.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Extract returns the concatenated text of every page. Pages are
// separated by a blank line. With the OCR-only strategy or ForceOCR the
// text comes from the images embedded in each page instead of the text
// layer.
func (e *Extractor) Extract(ctx context.Context, data []byte, opts domain.ExtractOptions) (result *domain.Extraction, err error) {
	ocrOnly := opts.PDFStrategy == domain.PDFOCROnly || opts.ForceOCR
	if ocrOnly && e.ocr == nil {
		return nil, domain.ErrOCRUnavailable
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	if ocrOnly {
		return e.extractOCR(ctx, reader, data, opts.OCRLanguage)
	}

	pages := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	parts := make([]string, 0, pages)

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	meta := domain.Metadata{}
	meta.Add("Content-Type", MIMEType)
	meta.Add("xmpTPg:NPages", strconv.Itoa(pages))

	return &domain.Extraction{
		Text:     strings.Join(parts, "\n\n"),
		Metadata: meta,
	}, nil
}
