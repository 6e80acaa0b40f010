// Command docdig stages native extraction libraries and extracts text
// from documents.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/docdig/cgo/tesseract"
	"github.com/custodia-labs/docdig/internal/adapters/driven/artifact"
	"github.com/custodia-labs/docdig/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docdig/internal/adapters/driven/directive"
	"github.com/custodia-labs/docdig/internal/adapters/driven/fetch"
	"github.com/custodia-labs/docdig/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docdig/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docdig/internal/adapters/driven/watch"
	"github.com/custodia-labs/docdig/internal/adapters/driving/cli"
	"github.com/custodia-labs/docdig/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/core/ports/driving"
	"github.com/custodia-labs/docdig/internal/core/services"
	"github.com/custodia-labs/docdig/internal/extractors"
	"github.com/custodia-labs/docdig/internal/extractors/docx"
	"github.com/custodia-labs/docdig/internal/extractors/eml"
	"github.com/custodia-labs/docdig/internal/extractors/html"
	"github.com/custodia-labs/docdig/internal/extractors/image"
	"github.com/custodia-labs/docdig/internal/extractors/markdown"
	"github.com/custodia-labs/docdig/internal/extractors/pdf"
	"github.com/custodia-labs/docdig/internal/extractors/plaintext"
	"github.com/custodia-labs/docdig/internal/logger"
)

// cacheDirEnv selects a persistent extraction cache directory.
const cacheDirEnv = "DOCDIG_CACHE_DIR"

// cacheRetention is how long an unused persistent cache entry is kept.
const cacheRetention = 30 * 24 * time.Hour

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docdig: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.Configure(newServices())

	root := cli.Root()
	root.SilenceErrors = true
	return root.ExecuteContext(ctx)
}

// newServices wires the adapters into the services the commands use.
// Nothing here touches the filesystem; the extraction cache is opened by
// the extract and mcp commands only.
func newServices() cli.Services {
	var ocr driven.OCREngine
	if tesseract.Available() {
		ocr = tesseract.New()
	}
	engine := extractors.NewEngine(
		plaintext.New(),
		html.New(),
		markdown.New(),
		docx.New(),
		eml.New(),
		pdf.New(ocr),
		image.New(ocr),
	)

	return cli.Services{
		NewStaging: func(out io.Writer, verify bool) driving.StagingService {
			return services.NewStagingService(
				artifact.NewLocator(),
				artifact.NewStager(verify),
				directive.NewWriter(out),
			).WithWatcher(watch.New(watch.DefaultDebounce))
		},
		LoadSettings: func(manifestDir string) (domain.StagingSettings, error) {
			store, err := file.NewConfigStore(manifestDir)
			if err != nil {
				return domain.StagingSettings{}, err
			}
			return services.LoadStagingSettings(store, manifestDir)
		},
		NewExtraction: func(ctx context.Context) (driving.ExtractionService, func(), error) {
			cache, release := openCache(ctx)
			engine.WithCache(cache)
			return services.NewExtractionService(engine, fetch.New(fetch.Config{})), release, nil
		},
		Capabilities: &mcp.Capabilities{
			MIMETypes:          engine.SupportedMIMETypes(),
			OCRAvailable:       ocr != nil,
			DefaultOCRLanguage: domain.DefaultOCRLanguage,
		},
	}
}

// openCache returns the SQLite cache when DOCDIG_CACHE_DIR is set and an
// in-memory cache otherwise. A persistent cache that cannot be opened
// degrades to memory.
func openCache(ctx context.Context) (driven.ExtractionCache, func()) {
	dir := os.Getenv(cacheDirEnv)
	if dir == "" {
		return memory.NewCache(memory.DefaultMaxEntries), func() {}
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		logger.Warn("Extraction cache unavailable, using memory: %v", err)
		return memory.NewCache(memory.DefaultMaxEntries), func() {}
	}
	if n, err := store.Prune(ctx, time.Now().Add(-cacheRetention)); err != nil {
		logger.Warn("Pruning extraction cache: %v", err)
	} else if n > 0 {
		logger.Debug("Pruned %d stale cache entries", n)
	}
	return store, func() { _ = store.Close() }
}
