// Package markdown extracts text from Markdown documents with the
// formatting markers removed.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FormatExtractor = (*Extractor)(nil)

// Extractor simplifies Markdown to plain text.
type Extractor struct{}

// New creates a Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the parser name.
func (e *Extractor) Name() string {
	return "markdown"
}

// SupportedMIMETypes returns the Markdown media types.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Extract returns the document text. The first level-one heading is
// reported as dc:title.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ domain.ExtractOptions) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := string(data)
	meta := domain.Metadata{}
	if title := firstHeading(content); title != "" {
		meta.Add("dc:title", title)
	}
	return &domain.Extraction{Text: Text(content), Metadata: meta}, nil
}

var (
	fencedCode    = regexp.MustCompile("(?s)```.*?```")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	image         = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	link          = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	heading       = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis      = regexp.MustCompile(`(^|\W)(\*\*|__|\*|_)(\S(?:.*?\S)?)(\*\*|__|\*|_)(\W|$)`)
	blockquote    = regexp.MustCompile(`(?m)^>\s?`)
	rule          = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bullet        = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numbered      = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	extraNewlines = regexp.MustCompile(`\n{3,}`)
)

// Text strips Markdown syntax. Fenced code blocks are dropped; inline
// code and link labels keep their text.
func Text(content string) string {
	content = fencedCode.ReplaceAllString(content, "")
	content = image.ReplaceAllString(content, "")
	content = link.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = rule.ReplaceAllString(content, "")
	content = heading.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = bullet.ReplaceAllString(content, "")
	content = numbered.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$1$3$5")
	content = extraNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
