package mcp

import (
	"context"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	result *domain.Extraction
	err    error

	lastPath     string
	lastURL      string
	lastData     []byte
	lastLanguage string
}

func (m *mockExtractionService) ExtractFile(_ context.Context, path string) (*domain.Extraction, error) {
	m.lastPath = path
	return m.result, m.err
}

func (m *mockExtractionService) ExtractURL(_ context.Context, url string) (*domain.Extraction, error) {
	m.lastURL = url
	return m.result, m.err
}

func (m *mockExtractionService) ExtractBytes(_ context.Context, data []byte) (*domain.Extraction, error) {
	m.lastData = data
	return m.result, m.err
}

func (m *mockExtractionService) ExtractFileOCR(_ context.Context, path, language string) (*domain.Extraction, error) {
	m.lastPath = path
	m.lastLanguage = language
	return m.result, m.err
}

func sampleExtraction() *domain.Extraction {
	meta := domain.Metadata{}
	meta.Add("Content-Type", "text/plain")
	return &domain.Extraction{Text: "extracted text", Metadata: meta}
}
