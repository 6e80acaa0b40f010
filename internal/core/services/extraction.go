package services

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/core/ports/driving"
	"github.com/custodia-labs/docdig/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService forwards the four extraction entry points to the
// extraction engine.
type ExtractionService struct {
	extractor driven.Extractor
	fetcher   driven.Fetcher
}

// NewExtractionService creates a new extraction service.
// The fetcher is optional; without it ExtractURL is unavailable.
func NewExtractionService(extractor driven.Extractor, fetcher driven.Fetcher) *ExtractionService {
	return &ExtractionService{
		extractor: extractor,
		fetcher:   fetcher,
	}
}

// ExtractFile extracts text from a local file.
func (s *ExtractionService) ExtractFile(ctx context.Context, path string) (*domain.Extraction, error) {
	if s.extractor == nil {
		return nil, domain.ErrExtractorUnavailable
	}
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", domain.ErrInvalidInput)
	}
	logger.Debug("Extracting %s", path)
	return s.extractor.ExtractFile(ctx, path, domain.ExtractOptions{PDFStrategy: domain.PDFTextLayer})
}

// ExtractURL fetches a remote document and extracts its text.
func (s *ExtractionService) ExtractURL(ctx context.Context, url string) (*domain.Extraction, error) {
	if s.extractor == nil {
		return nil, domain.ErrExtractorUnavailable
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("url fetching: %w", domain.ErrNotImplemented)
	}
	if url == "" {
		return nil, fmt.Errorf("empty url: %w", domain.ErrInvalidInput)
	}

	logger.Debug("Fetching %s", url)
	fetched, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer fetched.Body.Close()

	data, err := io.ReadAll(fetched.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	result, err := s.extractor.ExtractBytes(ctx, data, domain.ExtractOptions{PDFStrategy: domain.PDFTextLayer})
	if err != nil {
		return nil, err
	}
	if result.Metadata == nil {
		result.Metadata = domain.Metadata{}
	}
	result.Metadata.Add("X-Source-URL", fetched.URL)
	if fetched.ContentType != "" {
		result.Metadata.Add("X-Response-Content-Type", fetched.ContentType)
	}
	return result, nil
}

// ExtractBytes extracts text from raw document bytes.
func (s *ExtractionService) ExtractBytes(ctx context.Context, data []byte) (*domain.Extraction, error) {
	if s.extractor == nil {
		return nil, domain.ErrExtractorUnavailable
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document: %w", domain.ErrInvalidInput)
	}
	return s.extractor.ExtractBytes(ctx, data, domain.ExtractOptions{PDFStrategy: domain.PDFTextLayer})
}

// ExtractFileOCR extracts text from a local file using OCR only.
func (s *ExtractionService) ExtractFileOCR(ctx context.Context, path, language string) (*domain.Extraction, error) {
	if s.extractor == nil {
		return nil, domain.ErrExtractorUnavailable
	}
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", domain.ErrInvalidInput)
	}
	if language == "" {
		language = domain.DefaultOCRLanguage
	}

	logger.Debug("Extracting %s with OCR (%s)", path, language)
	return s.extractor.ExtractFile(ctx, path, domain.ExtractOptions{
		OCRLanguage: language,
		PDFStrategy: domain.PDFOCROnly,
		ForceOCR:    true,
	})
}
