package driving

import (
	"context"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// StagingService runs the native-artifact staging pipeline.
type StagingService interface {
	// Stage locates, copies and configures the native libraries for one
	// build invocation. The loader directive is emitted on every run.
	Stage(req domain.StageRequest) (*domain.StageReport, error)

	// Watch stages once, then re-stages with force whenever a library in
	// the source directory changes. Every run is reported to onStage.
	// It blocks until ctx is done.
	Watch(ctx context.Context, req domain.StageRequest, onStage func(*domain.StageReport, error)) error
}
