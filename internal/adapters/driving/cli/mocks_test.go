package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driving"
)

// mockStagingService is a mock implementation of driving.StagingService.
type mockStagingService struct {
	out     io.Writer
	verify  bool
	report  *domain.StageReport
	err     error
	lastReq domain.StageRequest
	watched bool

	// restageErr, when set, is reported by Watch as a failed re-stage.
	restageErr error
}

func (m *mockStagingService) Stage(req domain.StageRequest) (*domain.StageReport, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.report.Directives {
		fmt.Fprintln(m.out, d.String())
	}
	return m.report, nil
}

func (m *mockStagingService) Watch(
	_ context.Context,
	req domain.StageRequest,
	onStage func(*domain.StageReport, error),
) error {
	m.watched = true
	report, err := m.Stage(req)
	onStage(report, err)
	if err != nil {
		return err
	}
	if m.restageErr != nil {
		onStage(nil, m.restageErr)
	}
	return nil
}

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	err          error
	lastInput    string
	lastData     []byte
	lastLanguage string
}

func (m *mockExtractionService) result(text string) (*domain.Extraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	meta := domain.Metadata{}
	meta.Add("Content-Type", "text/plain")
	return &domain.Extraction{Text: text, Metadata: meta}, nil
}

func (m *mockExtractionService) ExtractFile(_ context.Context, path string) (*domain.Extraction, error) {
	m.lastInput = path
	return m.result("file text")
}

func (m *mockExtractionService) ExtractURL(_ context.Context, url string) (*domain.Extraction, error) {
	m.lastInput = url
	return m.result("url text")
}

func (m *mockExtractionService) ExtractBytes(_ context.Context, data []byte) (*domain.Extraction, error) {
	m.lastData = data
	return m.result("bytes text")
}

func (m *mockExtractionService) ExtractFileOCR(_ context.Context, path, language string) (*domain.Extraction, error) {
	m.lastInput = path
	m.lastLanguage = language
	return m.result("ocr text")
}

var errMock = errors.New("mock failure")

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	staging     *mockStagingService
	extraction  *mockExtractionService
	settings    domain.StagingSettings
	settingsErr error
	manifest    string

	// extractionOpens and extractionReleases count NewExtraction calls
	// and releases of the opened service.
	extractionOpens    int
	extractionReleases int
	openErr            error
}

// setupTestServices installs mock services and returns them with a
// cleanup that restores the previous wiring and flag state.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		staging: &mockStagingService{report: &domain.StageReport{
			SourceDir:  "/target/debug/build/extractous-1/out",
			StagingDir: "/proj/priv/native",
			Staged:     []string{"/target/debug/build/extractous-1/out/libtika_native.so"},
			Directives: []domain.Directive{
				domain.RerunIfChanged("/target/debug/build/extractous-1/out/libtika_native.so"),
				domain.LinkArg(domain.OriginRPathArg),
			},
		}},
		extraction: &mockExtractionService{},
		settings:   domain.DefaultStagingSettings(),
	}

	oldStaging := newStagingService
	oldSettings := loadStagingSettings
	oldExtraction := newExtraction

	Configure(Services{
		NewStaging: func(out io.Writer, verify bool) driving.StagingService {
			ts.staging.out = out
			ts.staging.verify = verify
			return ts.staging
		},
		LoadSettings: func(manifestDir string) (domain.StagingSettings, error) {
			ts.manifest = manifestDir
			return ts.settings, ts.settingsErr
		},
		NewExtraction: func(_ context.Context) (driving.ExtractionService, func(), error) {
			ts.extractionOpens++
			if ts.openErr != nil {
				return nil, nil, ts.openErr
			}
			return ts.extraction, func() { ts.extractionReleases++ }, nil
		},
	})

	return ts, func() {
		newStagingService = oldStaging
		loadStagingSettings = oldSettings
		newExtraction = oldExtraction
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		stageOutDir, stageManifestDir, stageStagingDir, stageTargetOS = "", "", "", ""
		stageForce, stageWatch = false, false
		extractMetadata, extractJSON = false, false
		extractLanguage = domain.DefaultOCRLanguage
	}
}
