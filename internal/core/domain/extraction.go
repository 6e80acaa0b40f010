package domain

import (
	"sort"
	"strings"
)

// DefaultOCRLanguage is the Tesseract language used when none is given.
const DefaultOCRLanguage = "eng"

// PDFStrategy selects how PDF pages are read.
type PDFStrategy string

const (
	// PDFTextLayer reads the embedded text layer only.
	PDFTextLayer PDFStrategy = "text"
	// PDFOCROnly runs OCR on every page and ignores the text layer.
	PDFOCROnly PDFStrategy = "ocr_only"
)

// ExtractOptions is pass-through configuration for the extraction engine.
type ExtractOptions struct {
	// OCRLanguage is the Tesseract language code (e.g., "eng", "deu+eng").
	OCRLanguage string

	// PDFStrategy selects the PDF parsing strategy.
	PDFStrategy PDFStrategy

	// ForceOCR makes PDF extraction read page images through the OCR
	// engine, as PDFOCROnly does. Other formats ignore it.
	ForceOCR bool
}

// Metadata holds extraction metadata. Keys may carry several values.
type Metadata map[string][]string

// Add appends a value under key.
func (m Metadata) Add(key, value string) {
	m[key] = append(m[key], value)
}

// Get returns the first value for key.
func (m Metadata) Get(key string) string {
	if v := m[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// String renders metadata as sorted "key: value" lines. Multiple values
// are joined with ", ".
func (m Metadata) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(strings.Join(m[k], ", "))
	}
	return b.String()
}

// Extraction is the result of one extraction call.
type Extraction struct {
	Text     string
	Metadata Metadata
}

// Clone returns a deep copy of the extraction.
func (e *Extraction) Clone() *Extraction {
	if e == nil {
		return nil
	}
	c := &Extraction{Text: e.Text}
	if e.Metadata != nil {
		c.Metadata = make(Metadata, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = append([]string(nil), v...)
		}
	}
	return c
}
