//go:build cgo

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine recognises text with a fresh gosseract client per call.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New creates a Tesseract OCR engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

// Available reports whether OCR is compiled in.
func Available() bool {
	return true
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return "tesseract"
}

// Recognize returns the text in image. language may combine several
// Tesseract codes with "+", e.g. "deu+eng".
func (e *Engine) Recognize(ctx context.Context, image []byte, language string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if langs := splitLanguages(language); len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func splitLanguages(language string) []string {
	var langs []string
	for _, l := range strings.Split(language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}
