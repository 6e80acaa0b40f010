package extractors

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/logger"
)

// DefaultMaxFileBytes bounds the size of documents read into memory.
const DefaultMaxFileBytes = 64 << 20

const docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// extensionTypes covers formats that content sniffing reports as a
// generic container or as plain text.
var extensionTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".docx":     docxType,
	".eml":      "message/rfc822",
	".htm":      "text/html",
	".html":     "text/html",
	".csv":      "text/csv",
	".json":     "application/json",
	".xml":      "text/xml",
	".tif":      "image/tiff",
	".tiff":     "image/tiff",
}

// Ensure Engine implements the interface.
var _ driven.Extractor = (*Engine)(nil)

// Engine routes documents to format extractors by MIME type.
type Engine struct {
	mu       sync.RWMutex
	byMIME   map[string]driven.FormatExtractor
	maxBytes int64
	cache    driven.ExtractionCache
}

// NewEngine creates an engine with the given format extractors.
// Later registrations win for overlapping MIME types.
func NewEngine(extractors ...driven.FormatExtractor) *Engine {
	e := &Engine{
		byMIME:   make(map[string]driven.FormatExtractor),
		maxBytes: DefaultMaxFileBytes,
	}
	for _, x := range extractors {
		e.Register(x)
	}
	return e
}

// WithCache stores results in cache, keyed by the document digest, the
// detected type and the options.
func (e *Engine) WithCache(cache driven.ExtractionCache) *Engine {
	e.cache = cache
	return e
}

// Register adds a format extractor for all of its MIME types.
func (e *Engine) Register(x driven.FormatExtractor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, m := range x.SupportedMIMETypes() {
		e.byMIME[m] = x
	}
}

// SupportedMIMETypes returns every registered MIME type, sorted.
func (e *Engine) SupportedMIMETypes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	types := make([]string, 0, len(e.byMIME))
	for m := range e.byMIME {
		types = append(types, m)
	}
	sort.Strings(types)
	return types
}

// ExtractFile reads the file at path and extracts it. The file extension
// is consulted when content sniffing is inconclusive.
func (e *Engine) ExtractFile(ctx context.Context, path string, opts domain.ExtractOptions) (*domain.Extraction, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, domain.ErrInvalidInput)
	}
	if info.Size() > e.maxBytes {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d: %w", path, info.Size(), e.maxBytes, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mimeType := e.refine(sniff(data), typeByExtension(path))

	result, err := e.extract(ctx, data, mimeType, opts)
	if err != nil {
		return nil, err
	}
	result.Metadata.Add("resourceName", filepath.Base(path))
	return result, nil
}

// ExtractBytes extracts an in-memory document.
func (e *Engine) ExtractBytes(ctx context.Context, data []byte, opts domain.ExtractOptions) (*domain.Extraction, error) {
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("document is %d bytes, limit is %d: %w", len(data), e.maxBytes, domain.ErrInvalidInput)
	}
	mimeType := sniff(data)
	if mimeType == "application/zip" && isDOCX(data) {
		mimeType = docxType
	}
	return e.extract(ctx, data, mimeType, opts)
}

// refine prefers the extension's type when the sniffed type is generic.
// Unknown binary content always takes the extension's type so the error
// names the format the caller asked for.
func (e *Engine) refine(sniffed, byExt string) string {
	if byExt == "" || byExt == sniffed {
		return sniffed
	}
	switch sniffed {
	case "application/octet-stream":
		return byExt
	case "application/zip", "text/plain":
		e.mu.RLock()
		_, ok := e.byMIME[byExt]
		e.mu.RUnlock()
		if ok {
			return byExt
		}
	}
	return sniffed
}

func (e *Engine) extract(
	ctx context.Context,
	data []byte,
	mimeType string,
	opts domain.ExtractOptions,
) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	x, ok := e.byMIME[mimeType]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", mimeType, domain.ErrUnsupportedType)
	}

	var key string
	if e.cache != nil {
		key = cacheKey(data, mimeType, opts)
		cached, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Extraction cache lookup failed: %v", err)
		} else if ok {
			logger.Debug("Cache hit for %s document", mimeType)
			return cached, nil
		}
	}

	logger.Debug("Extracting %s with %s", mimeType, x.Name())
	result, err := x.Extract(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", x.Name(), err)
	}
	if result.Metadata == nil {
		result.Metadata = domain.Metadata{}
	}
	if result.Metadata.Get("Content-Type") == "" {
		result.Metadata.Add("Content-Type", mimeType)
	}
	result.Metadata.Add("X-Parsed-By", x.Name())

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, result.Clone()); err != nil {
			logger.Warn("Extraction cache store failed: %v", err)
		}
	}
	return result, nil
}

// cacheKey digests the document together with everything that changes
// the extraction result.
func cacheKey(data []byte, mimeType string, opts domain.ExtractOptions) string {
	h := blake3.New()
	_, _ = h.Write(data)
	_, _ = fmt.Fprintf(h, "\x00%s\x00%s\x00%s\x00%t", mimeType, opts.OCRLanguage, opts.PDFStrategy, opts.ForceOCR)
	return hex.EncodeToString(h.Sum(nil))
}

// sniff detects the MIME type of data, without parameters.
func sniff(data []byte) string {
	return baseType(http.DetectContentType(data))
}

func typeByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return baseType(mime.TypeByExtension(ext))
}

// isDOCX reports whether a zip archive holds a Word document body.
func isDOCX(data []byte) bool {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}

func baseType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return mediaType
}
