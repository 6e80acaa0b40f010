package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/core/ports/driving"
	"github.com/custodia-labs/docdig/internal/logger"
)

// Ensure StagingService implements the interface.
var _ driving.StagingService = (*StagingService)(nil)

// StagingService orchestrates locate, stage and linker configuration.
type StagingService struct {
	locator driven.ArtifactLocator
	stager  driven.ArtifactStager
	sink    driven.DirectiveSink
	watcher driven.ArtifactWatcher
}

// NewStagingService creates a new staging service.
func NewStagingService(
	locator driven.ArtifactLocator,
	stager driven.ArtifactStager,
	sink driven.DirectiveSink,
) *StagingService {
	return &StagingService{
		locator: locator,
		stager:  stager,
		sink:    sink,
	}
}

// WithWatcher sets the watcher used by Watch.
func (s *StagingService) WithWatcher(w driven.ArtifactWatcher) *StagingService {
	s.watcher = w
	return s
}

// Stage runs the pipeline. When the staging directory already holds the
// primary artifact, no search or copy happens and the upstream build tree
// is never consulted. Linker directives are emitted on every successful run.
func (s *StagingService) Stage(req domain.StageRequest) (*domain.StageReport, error) {
	if s.stager == nil || s.sink == nil {
		return nil, errors.New("staging service not configured")
	}
	dest := req.Layout.StagingDir
	if dest == "" {
		return nil, fmt.Errorf("staging directory is empty: %w", domain.ErrInvalidInput)
	}

	logger.Section("Native Staging")
	logger.Debug("Platform: %s (.%s)", req.Platform.Family, req.Platform.LibraryExtension)
	logger.Debug("Staging directory: %s", dest)

	if err := s.stager.Prepare(dest); err != nil {
		return nil, err
	}

	report := &domain.StageReport{StagingDir: dest}
	primary := filepath.Join(dest, req.Descriptor.PrimaryFile(req.Platform))

	if !req.Force && s.stager.IsStaged(dest, req.Descriptor, req.Platform) {
		logger.Info("Fast path: %s already staged", primary)
		report.FastPath = true
		if err := s.emit(report, domain.RerunIfChanged(primary)); err != nil {
			return nil, err
		}
		if err := s.configureLinker(report, req.Platform); err != nil {
			return nil, err
		}
		return report, nil
	}

	if s.locator == nil {
		return nil, errors.New("artifact locator not configured")
	}
	found, err := s.locator.Locate(driven.LocateRequest{
		OutDir:     req.Layout.OutDir,
		Descriptor: req.Descriptor,
		Platform:   req.Platform,
		Profiles:   req.Profiles,
	})
	if err != nil {
		return nil, err
	}

	report.SourceDir = filepath.Dir(found)
	result, err := s.stager.Stage(report.SourceDir, dest, req.Descriptor, req.Platform, req.Force)
	if err != nil {
		return nil, err
	}
	report.FastPath = result.Skipped
	report.Staged = result.Copied

	for _, src := range result.Copied {
		if err := s.emit(report, domain.RerunIfChanged(src)); err != nil {
			return nil, err
		}
	}
	if err := s.configureLinker(report, req.Platform); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *StagingService) configureLinker(report *domain.StageReport, p domain.Platform) error {
	directives := LinkerDirectives(p)
	if len(directives) == 0 {
		logger.Debug("No loader directive for %s", p.Family)
	}
	for _, d := range directives {
		if err := s.emit(report, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *StagingService) emit(report *domain.StageReport, d domain.Directive) error {
	if err := s.sink.Emit(d); err != nil {
		return err
	}
	report.Directives = append(report.Directives, d)
	return nil
}

// Watch stages once and then re-stages with force on every library change
// in the source directory. On the fast path the source directory is still
// located so that it can be watched.
func (s *StagingService) Watch(
	ctx context.Context,
	req domain.StageRequest,
	onStage func(*domain.StageReport, error),
) error {
	if s.watcher == nil {
		return errors.New("artifact watcher not configured")
	}
	if onStage == nil {
		onStage = func(*domain.StageReport, error) {}
	}

	report, err := s.Stage(req)
	onStage(report, err)
	if err != nil {
		return err
	}

	sourceDir := report.SourceDir
	if sourceDir == "" {
		if s.locator == nil {
			return errors.New("artifact locator not configured")
		}
		found, err := s.locator.Locate(driven.LocateRequest{
			OutDir:     req.Layout.OutDir,
			Descriptor: req.Descriptor,
			Platform:   req.Platform,
			Profiles:   req.Profiles,
		})
		if err != nil {
			return err
		}
		sourceDir = filepath.Dir(found)
	}

	changes, err := s.watcher.Watch(ctx, sourceDir, req.Platform)
	if err != nil {
		return fmt.Errorf("watch %s: %w", sourceDir, err)
	}
	logger.Info("Watching %s", sourceDir)

	req.Force = true
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Changed: %s", changed)
			onStage(s.Stage(req))
		}
	}
}
