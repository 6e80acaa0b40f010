package mcp

import (
	"github.com/custodia-labs/docdig/internal/core/ports/driving"
)

// Capabilities describes what the extraction engine was built with.
type Capabilities struct {
	// MIMETypes lists the document types the engine can route.
	MIMETypes []string `json:"mime_types"`

	// OCRAvailable reports whether an OCR engine is compiled in.
	OCRAvailable bool `json:"ocr_available"`

	// DefaultOCRLanguage is used when a call names no language.
	DefaultOCRLanguage string `json:"default_ocr_language"`
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extraction provides the extraction entry points.
	Extraction driving.ExtractionService

	// Capabilities is served as a static resource. Optional.
	Capabilities *Capabilities
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	return nil
}
