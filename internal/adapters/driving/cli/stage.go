package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// Build environment read when the matching flag is not given.
const (
	envOutDir      = "OUT_DIR"
	envManifestDir = "CARGO_MANIFEST_DIR"
	envTargetOS    = "CARGO_CFG_TARGET_OS"
	envStagingDir  = "DOCDIG_STAGING_DIR"
)

var (
	stageOutDir      string
	stageManifestDir string
	stageStagingDir  string
	stageTargetOS    string
	stageForce       bool
	stageWatch       bool
)

var (
	stagedColor   = color.New(color.FgGreen, color.Bold)
	fastPathColor = color.New(color.FgYellow, color.Bold)
	failedColor   = color.New(color.FgRed, color.Bold)
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Stage native libraries into the runtime directory",
	Long: `Locates the native extraction library in the cargo build tree, copies every
shared library next to it into the staging directory and prints cargo
directives on stdout.

When the staging directory already holds the library nothing is searched or
copied. Each setting is taken from its flag, then the environment, then
docdig.toml in the manifest directory:

  --out-dir       OUT_DIR
  --manifest-dir  CARGO_MANIFEST_DIR
  --target-os     CARGO_CFG_TARGET_OS (default: host OS)
  --staging-dir   DOCDIG_STAGING_DIR, staging.dir (default: ../../priv/native)`,
	Args: cobra.NoArgs,
	RunE: runStage,
}

func init() {
	stageCmd.Flags().StringVar(&stageOutDir, "out-dir", "", "build script output directory")
	stageCmd.Flags().StringVar(&stageManifestDir, "manifest-dir", "", "directory of the crate manifest")
	stageCmd.Flags().StringVar(&stageStagingDir, "staging-dir", "", "runtime directory for staged libraries")
	stageCmd.Flags().StringVar(&stageTargetOS, "target-os", "", "target operating system")
	stageCmd.Flags().BoolVarP(&stageForce, "force", "f", false, "re-copy even when already staged")
	stageCmd.Flags().BoolVarP(&stageWatch, "watch", "w", false, "re-stage whenever the source libraries change")
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, _ []string) error {
	if newStagingService == nil {
		return errors.New("staging service not configured")
	}

	req, verify, err := buildStageRequest()
	if err != nil {
		return err
	}

	svc := newStagingService(cmd.OutOrStdout(), verify)
	summary := cmd.ErrOrStderr()

	if stageWatch {
		initial := true
		return svc.Watch(cmd.Context(), req, func(report *domain.StageReport, err error) {
			first := initial
			initial = false
			// An initial failure ends the watch and is returned.
			if err != nil && first {
				return
			}
			printStageSummary(summary, report, err)
		})
	}

	// A failure is reported once, by the caller of Execute.
	report, err := svc.Stage(req)
	if err != nil {
		return err
	}
	printStageSummary(summary, report, nil)
	return nil
}

// buildStageRequest resolves every input with flag > env > file > default
// precedence.
func buildStageRequest() (domain.StageRequest, bool, error) {
	outDir := firstNonEmpty(stageOutDir, os.Getenv(envOutDir))
	if outDir == "" {
		return domain.StageRequest{}, false,
			fmt.Errorf("output directory not set (--out-dir or %s): %w", envOutDir, domain.ErrInvalidInput)
	}
	manifestDir := firstNonEmpty(stageManifestDir, os.Getenv(envManifestDir))
	if manifestDir == "" {
		return domain.StageRequest{}, false,
			fmt.Errorf("manifest directory not set (--manifest-dir or %s): %w", envManifestDir, domain.ErrInvalidInput)
	}

	settings := domain.DefaultStagingSettings()
	if loadStagingSettings != nil {
		loaded, err := loadStagingSettings(manifestDir)
		if err != nil {
			return domain.StageRequest{}, false, fmt.Errorf("loading settings: %w", err)
		}
		settings = loaded
	}

	stagingDir := firstNonEmpty(
		stageStagingDir,
		os.Getenv(envStagingDir),
		settings.StagingDir,
		domain.DefaultStagingDir(manifestDir),
	)
	targetOS := firstNonEmpty(stageTargetOS, os.Getenv(envTargetOS), runtime.GOOS)

	return domain.StageRequest{
		Layout: domain.BuildLayout{
			OutDir:      outDir,
			ManifestDir: manifestDir,
			StagingDir:  stagingDir,
		},
		Platform:   domain.ResolvePlatform(targetOS),
		Descriptor: settings.Descriptor,
		Profiles:   settings.Profiles,
		Force:      stageForce,
	}, settings.Verify, nil
}

func printStageSummary(w io.Writer, report *domain.StageReport, err error) {
	switch {
	case err != nil:
		failedColor.Fprint(w, "failed")
		fmt.Fprintf(w, "  %v\n", err)
	case report.FastPath:
		fastPathColor.Fprint(w, "up to date")
		fmt.Fprintf(w, "  %s\n", report.StagingDir)
	default:
		stagedColor.Fprint(w, "staged")
		fmt.Fprintf(w, "  %d libraries from %s into %s\n", len(report.Staged), report.SourceDir, report.StagingDir)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
