package driven

import "github.com/custodia-labs/docdig/internal/core/domain"

// DirectiveSink receives build-tool directives.
type DirectiveSink interface {
	Emit(d domain.Directive) error
}
