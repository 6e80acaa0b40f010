package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

func TestExtractor_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, "html", e.Name())
	assert.Equal(t, []string{"text/html", "application/xhtml+xml"}, e.SupportedMIMETypes())
}

func TestExtractor_Extract(t *testing.T) {
	page := []byte(`<html><head><title>Test &amp; Page</title><style>p{}</style></head>
<body><p>Hello   World</p><script>alert(1)</script><div>Second<br/>line</div></body></html>`)

	result, err := New().Extract(context.Background(), page, domain.ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Hello World\nSecond\nline", result.Text)
	assert.Equal(t, "Test & Page", result.Metadata.Get("dc:title"))
}

func TestExtractor_ExtractWithoutTitle(t *testing.T) {
	result, err := New().Extract(context.Background(), []byte("<p>body only</p>"), domain.ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, "body only", result.Text)
	assert.Empty(t, result.Metadata.Get("dc:title"))
}

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "no markup", "no markup"},
		{"entities", "<p>a &lt; b &gt; c</p>", "a < b > c"},
		{"comments removed", "<p>keep</p><!-- drop -->", "keep"},
		{"noscript removed", "<noscript>enable js</noscript><p>text</p>", "text"},
		{"svg removed", "<svg><text>label</text></svg>visible", "visible"},
		{"list items", "<ul><li>one</li><li>two</li></ul>", "one\ntwo"},
		{"headings", "<h1>Title</h1><p>para</p>", "Title\npara"},
		{"hr", "above<hr>below", "above\nbelow"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Hi", Title("<title> Hi </title>"))
	assert.Equal(t, "Multi line", Title("<TITLE>Multi line</TITLE>"))
	assert.Empty(t, Title("<h1>No title</h1>"))
}

func TestExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, []byte("<p>x</p>"), domain.ExtractOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
