// Package html extracts readable text from HTML documents.
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FormatExtractor = (*Extractor)(nil)

// Extractor strips markup from HTML documents.
type Extractor struct{}

// New creates an HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the parser name.
func (e *Extractor) Name() string {
	return "html"
}

// SupportedMIMETypes returns the HTML media types.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Extract returns the visible text of the document. The <title> is
// reported as dc:title.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ domain.ExtractOptions) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := string(data)
	meta := domain.Metadata{}
	if title := Title(content); title != "" {
		meta.Add("dc:title", title)
	}
	return &domain.Extraction{Text: Text(content), Metadata: meta}, nil
}

var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	invisibleTags = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
		regexp.MustCompile(`(?s)<!--.*?-->`),
	}
	blockBoundary = regexp.MustCompile(
		`(?i)</?(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)(\s[^>]*)?>|<br\s*/?>|<hr\s*/?>`)
	anyTag        = regexp.MustCompile(`<[^>]+>`)
	horizontalRun = regexp.MustCompile(`[ \t]+`)
)

// Title returns the unescaped contents of the <title> element, or "".
func Title(content string) string {
	m := titleTag.FindStringSubmatch(content)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// Text converts HTML to plain text: invisible elements are dropped,
// block elements become line breaks and blank lines are removed.
func Text(content string) string {
	for _, re := range invisibleTags {
		content = re.ReplaceAllString(content, "")
	}
	content = blockBoundary.ReplaceAllString(content, "\n")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = horizontalRun.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
