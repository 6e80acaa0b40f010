// Package cli provides the docdig command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdig/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driving"
	"github.com/custodia-labs/docdig/internal/logger"
)

// version is set at build time via -ldflags or SetVersion.
var version = "dev"

var verbose bool

// Services wired in by the composition root.
var (
	newStagingService   func(out io.Writer, verify bool) driving.StagingService
	loadStagingSettings func(manifestDir string) (domain.StagingSettings, error)
	newExtraction       func(ctx context.Context) (driving.ExtractionService, func(), error)
	mcpCapabilities     *mcp.Capabilities
)

// Services holds the driving ports and factories the commands depend on.
type Services struct {
	// NewStaging builds a staging service that writes build directives
	// to out. verify enables digest checks on staged copies.
	NewStaging func(out io.Writer, verify bool) driving.StagingService

	// LoadSettings reads project configuration from the manifest directory.
	LoadSettings func(manifestDir string) (domain.StagingSettings, error)

	// NewExtraction opens the extraction service for the extract and mcp
	// commands. It is only called by those commands, so staging never opens
	// the extraction cache. The returned func releases it.
	NewExtraction func(ctx context.Context) (driving.ExtractionService, func(), error)

	// Capabilities is published by the MCP server. Optional.
	Capabilities *mcp.Capabilities
}

var rootCmd = &cobra.Command{
	Use:   "docdig",
	Short: "Native library staging and document text extraction",
	Long: `docdig stages the native extraction library produced by a cargo build
into the runtime directory of the host package, and extracts plain text and
metadata from local files, URLs and raw bytes.

Run "docdig stage" from a build script; directives for cargo are written to
stdout and a summary to stderr.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
}

// Configure injects the services used by all commands.
func Configure(s Services) {
	newStagingService = s.NewStaging
	loadStagingSettings = s.LoadSettings
	newExtraction = s.NewExtraction
	mcpCapabilities = s.Capabilities
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Root returns the root command. The composition root runs it with
// ExecuteContext so that watch and mcp serve stop on interrupt.
func Root() *cobra.Command {
	return rootCmd
}

// openExtraction opens the configured extraction service.
func openExtraction(ctx context.Context) (driving.ExtractionService, func(), error) {
	if newExtraction == nil {
		return nil, nil, errors.New("extraction service not configured")
	}
	svc, release, err := newExtraction(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opening extraction service: %w", err)
	}
	if release == nil {
		release = func() {}
	}
	return svc, release, nil
}
