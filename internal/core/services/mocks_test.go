package services

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// mockLocator implements driven.ArtifactLocator for testing.
type mockLocator struct {
	path  string
	err   error
	calls int
	last  driven.LocateRequest
}

func (m *mockLocator) Locate(req driven.LocateRequest) (string, error) {
	m.calls++
	m.last = req
	return m.path, m.err
}

// mockStager implements driven.ArtifactStager for testing.
type mockStager struct {
	staged     bool
	result     *domain.StageResult
	prepareErr error
	stageErr   error

	stageCalls int
	sourceDir  string
	force      bool
}

func (m *mockStager) Prepare(_ string) error {
	return m.prepareErr
}

func (m *mockStager) IsStaged(_ string, _ domain.ArtifactDescriptor, _ domain.Platform) bool {
	return m.staged
}

func (m *mockStager) Stage(
	sourceDir, _ string,
	_ domain.ArtifactDescriptor,
	_ domain.Platform,
	force bool,
) (*domain.StageResult, error) {
	m.stageCalls++
	m.sourceDir = sourceDir
	m.force = force
	if m.stageErr != nil {
		return nil, m.stageErr
	}
	if m.result == nil {
		return &domain.StageResult{}, nil
	}
	return m.result, nil
}

// recordingSink implements driven.DirectiveSink for testing.
type recordingSink struct {
	directives []domain.Directive
	err        error
}

func (r *recordingSink) Emit(d domain.Directive) error {
	if r.err != nil {
		return r.err
	}
	r.directives = append(r.directives, d)
	return nil
}

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	result   *domain.Extraction
	err      error
	lastPath string
	lastData []byte
	lastOpts domain.ExtractOptions
}

func (m *mockExtractor) ExtractFile(_ context.Context, path string, opts domain.ExtractOptions) (*domain.Extraction, error) {
	m.lastPath = path
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockExtractor) ExtractBytes(_ context.Context, data []byte, opts domain.ExtractOptions) (*domain.Extraction, error) {
	m.lastData = data
	m.lastOpts = opts
	return m.result, m.err
}

// mockFetcher implements driven.Fetcher for testing.
type mockFetcher struct {
	body        string
	contentType string
	err         error
	closed      bool
}

type trackingCloser struct {
	io.Reader
	onClose func()
}

func (c trackingCloser) Close() error {
	c.onClose()
	return nil
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (*driven.FetchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driven.FetchResult{
		Body:        trackingCloser{Reader: bytes.NewBufferString(m.body), onClose: func() { m.closed = true }},
		ContentType: m.contentType,
		URL:         url,
	}, nil
}

var errBoom = errors.New("boom")

// mockWatcher implements driven.ArtifactWatcher for testing. Events are
// delivered from the events channel, which the test closes.
type mockWatcher struct {
	events chan string
	err    error
	dir    string
}

func (m *mockWatcher) Watch(_ context.Context, dir string, _ domain.Platform) (<-chan string, error) {
	m.dir = dir
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}
