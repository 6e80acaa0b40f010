// Package directive provides DirectiveSink implementations.
package directive

import (
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.DirectiveSink = (*Writer)(nil)

// Writer prints one directive per line, the format build tools read from
// a build script's stdout.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a sink writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Emit writes the directive followed by a newline.
func (s *Writer) Emit(d domain.Directive) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintln(s.w, d.String()); err != nil {
		return fmt.Errorf("writing directive: %w", err)
	}
	return nil
}
