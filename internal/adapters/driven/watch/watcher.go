// Package watch observes build output directories for rebuilt native
// libraries using fsnotify.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/logger"
)

// DefaultDebounce coalesces the burst of writes a linker produces.
const DefaultDebounce = 250 * time.Millisecond

// Ensure Watcher implements the interface.
var _ driven.ArtifactWatcher = (*Watcher)(nil)

// Watcher reports library changes in a single directory.
type Watcher struct {
	debounce time.Duration
}

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce}
}

// Watch starts watching dir. The returned channel carries the most
// recently changed library of each burst and is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context, dir string, p domain.Platform) (<-chan string, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	out := make(chan string)
	go w.loop(ctx, fw, p, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, p domain.Platform, out chan<- string) {
	defer close(out)
	defer fw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := ""
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if path := handleFsEvent(event, p); path != "" {
				pending = path
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)

		case <-timer.C:
			if pending == "" {
				continue
			}
			select {
			case out <- pending:
				pending = ""
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent returns the library path an event refers to, or "" when
// the event is irrelevant. Only creates and writes of regular files with
// the platform extension count. Hidden files are skipped, which also
// covers the stager's temporary files.
func handleFsEvent(event fsnotify.Event, p domain.Platform) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return ""
	}
	if !p.MatchesExtension(filepath.Ext(name)) {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return event.Name
}
