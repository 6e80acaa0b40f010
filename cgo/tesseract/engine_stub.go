//go:build !cgo

package tesseract

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine recognises text with Tesseract.
// This is a stub for builds without CGO.
type Engine struct{}

// New creates a Tesseract OCR engine.
func New() *Engine {
	return &Engine{}
}

// Available reports whether OCR is compiled in.
func Available() bool {
	return false
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return "tesseract"
}

// Recognize always fails without CGO.
func (e *Engine) Recognize(_ context.Context, image []byte, _ string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image: %w", domain.ErrInvalidInput)
	}
	return "", domain.ErrOCRUnavailable
}
