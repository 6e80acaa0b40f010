// Package docx extracts text from Office Open XML word-processing documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// MIMEType is the media type of .docx files.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Ensure Extractor implements the interface.
var _ driven.FormatExtractor = (*Extractor)(nil)

// Extractor reads the main document part of a .docx archive.
type Extractor struct{}

// New creates a DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the parser name.
func (e *Extractor) Name() string {
	return "docx"
}

// SupportedMIMETypes returns the DOCX media type.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Extract returns one line per paragraph, including paragraphs inside
// tables. Core properties are reported as Dublin Core metadata.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ domain.ExtractOptions) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", domain.ErrInvalidInput)
	}

	body, err := readPart(archive, documentPart)
	if err != nil {
		return nil, err
	}
	text, err := documentText(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", documentPart, err)
	}

	meta := domain.Metadata{}
	if core, err := readPart(archive, corePart); err == nil {
		addCoreProperties(meta, core)
	}
	return &domain.Extraction{Text: text, Metadata: meta}, nil
}

func readPart(archive *zip.Reader, name string) ([]byte, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, fmt.Errorf("missing %s: %w", name, domain.ErrInvalidInput)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// documentText walks the WordprocessingML token stream. Text runs are
// concatenated, tabs and breaks are kept and each paragraph ends a line.
func documentText(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

type coreProperties struct {
	Title    string `xml:"title"`
	Subject  string `xml:"subject"`
	Creator  string `xml:"creator"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

func addCoreProperties(meta domain.Metadata, core []byte) {
	var props coreProperties
	if err := xml.Unmarshal(core, &props); err != nil {
		return
	}
	for key, value := range map[string]string{
		"dc:title":         props.Title,
		"dc:subject":       props.Subject,
		"dc:creator":       props.Creator,
		"dcterms:created":  props.Created,
		"dcterms:modified": props.Modified,
	} {
		if value = strings.TrimSpace(value); value != "" {
			meta.Add(key, value)
		}
	}
}
