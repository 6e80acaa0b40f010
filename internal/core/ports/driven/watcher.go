package driven

import (
	"context"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// ArtifactWatcher observes a source directory for rebuilt libraries.
type ArtifactWatcher interface {
	// Watch reports the path of a created or rewritten library in dir
	// whose extension matches p. Bursts of events are coalesced into one
	// notification. The channel is closed when ctx is done.
	Watch(ctx context.Context, dir string, p domain.Platform) (<-chan string, error)
}
