package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// clearBuildEnv blanks the build environment for the duration of a test.
func clearBuildEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envOutDir, envManifestDir, envTargetOS, envStagingDir} {
		t.Setenv(key, "")
	}
}

func executeStage(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(append([]string{"stage"}, args...))
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestStageCmd_Use(t *testing.T) {
	assert.Equal(t, "stage", stageCmd.Use)
	assert.Equal(t, "Stage native libraries into the runtime directory", stageCmd.Short)
}

func TestStageCmd_Flags(t *testing.T) {
	for _, name := range []string{"out-dir", "manifest-dir", "staging-dir", "target-os", "force", "watch"} {
		assert.NotNil(t, stageCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
	assert.Equal(t, "f", stageCmd.Flags().Lookup("force").Shorthand)
	assert.Equal(t, "w", stageCmd.Flags().Lookup("watch").Shorthand)
}

func TestStageCmd_FromFlags(t *testing.T) {
	clearBuildEnv(t)
	ts, cleanup := setupTestServices()
	defer cleanup()

	stdout, stderr, err := executeStage(t,
		"--out-dir", "/target/debug/build/doc_dig-1/out",
		"--manifest-dir", "/proj/native/doc_dig",
		"--target-os", "linux",
	)
	require.NoError(t, err)

	req := ts.staging.lastReq
	assert.Equal(t, "/target/debug/build/doc_dig-1/out", req.Layout.OutDir)
	assert.Equal(t, "/proj/native/doc_dig", req.Layout.ManifestDir)
	assert.Equal(t, "/proj/priv/native", req.Layout.StagingDir)
	assert.Equal(t, domain.PlatformLinux, req.Platform)
	assert.Equal(t, domain.DefaultDescriptor(), req.Descriptor)
	assert.False(t, req.Force)
	assert.True(t, ts.staging.verify)
	assert.Equal(t, "/proj/native/doc_dig", ts.manifest)

	assert.Contains(t, stdout, "cargo:rerun-if-changed=/target/debug/build/extractous-1/out/libtika_native.so")
	assert.Contains(t, stdout, "cargo:rustc-link-arg=-Wl,-rpath,$ORIGIN")
	assert.Contains(t, stderr, "staged")
	assert.Contains(t, stderr, "1 libraries")
	assert.NotContains(t, stdout, "staged", "summary stays off stdout")
}

func TestStageCmd_FromEnvironment(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(envOutDir, "/env/out")
	t.Setenv(envManifestDir, "/env/native/doc_dig")
	t.Setenv(envTargetOS, "macos")
	t.Setenv(envStagingDir, "/env/stage")
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeStage(t)
	require.NoError(t, err)

	req := ts.staging.lastReq
	assert.Equal(t, "/env/out", req.Layout.OutDir)
	assert.Equal(t, "/env/native/doc_dig", req.Layout.ManifestDir)
	assert.Equal(t, "/env/stage", req.Layout.StagingDir)
	assert.Equal(t, domain.PlatformApple, req.Platform)
}

func TestStageCmd_FlagsOverrideEnvironment(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(envOutDir, "/env/out")
	t.Setenv(envStagingDir, "/env/stage")
	t.Setenv(envTargetOS, "windows")
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeStage(t,
		"--out-dir", "/flag/out",
		"--manifest-dir", "/flag/native/doc_dig",
		"--staging-dir", "/flag/stage",
		"--target-os", "linux",
	)
	require.NoError(t, err)

	req := ts.staging.lastReq
	assert.Equal(t, "/flag/out", req.Layout.OutDir)
	assert.Equal(t, "/flag/stage", req.Layout.StagingDir)
	assert.Equal(t, domain.PlatformLinux, req.Platform)
}

func TestStageCmd_SettingsFile(t *testing.T) {
	clearBuildEnv(t)
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.settings.StagingDir = "/configured/stage"
	ts.settings.Verify = false
	ts.settings.Descriptor.Name = "libother"

	_, _, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/proj/native/doc_dig")
	require.NoError(t, err)

	req := ts.staging.lastReq
	assert.Equal(t, "/configured/stage", req.Layout.StagingDir)
	assert.Equal(t, "libother", req.Descriptor.Name)
	assert.False(t, ts.staging.verify)
}

func TestStageCmd_DefaultsToHostOS(t *testing.T) {
	clearBuildEnv(t)
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/proj/native/doc_dig")
	require.NoError(t, err)

	assert.Equal(t, domain.ResolvePlatform(runtime.GOOS), ts.staging.lastReq.Platform)
}

func TestStageCmd_ForceAndWatch(t *testing.T) {
	clearBuildEnv(t)
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, stderr, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/m/n/c", "--force", "--watch")
	require.NoError(t, err)

	assert.True(t, ts.staging.lastReq.Force)
	assert.True(t, ts.staging.watched)
	assert.Contains(t, stderr, "staged")
}

func TestStageCmd_FastPathSummary(t *testing.T) {
	clearBuildEnv(t)
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.staging.report = &domain.StageReport{FastPath: true, StagingDir: "/proj/priv/native"}

	_, stderr, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/proj/native/doc_dig")
	require.NoError(t, err)
	assert.Contains(t, stderr, "up to date")
	assert.Contains(t, stderr, "/proj/priv/native")
}

func TestStageCmd_Errors(t *testing.T) {
	t.Run("missing out dir", func(t *testing.T) {
		clearBuildEnv(t)
		_, cleanup := setupTestServices()
		defer cleanup()

		_, _, err := executeStage(t, "--manifest-dir", "/m")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "OUT_DIR")
	})

	t.Run("missing manifest dir", func(t *testing.T) {
		clearBuildEnv(t)
		_, cleanup := setupTestServices()
		defer cleanup()

		_, _, err := executeStage(t, "--out-dir", "/out")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "CARGO_MANIFEST_DIR")
	})

	t.Run("settings failure", func(t *testing.T) {
		clearBuildEnv(t)
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.settingsErr = errMock

		_, _, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/m")
		assert.ErrorIs(t, err, errMock)
	})

	t.Run("staging failure", func(t *testing.T) {
		clearBuildEnv(t)
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.staging.err = &domain.NotFoundError{File: "libtika_native.so"}

		stdout, stderr, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/m")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
		assert.Empty(t, stdout, "no directives on failure")
		assert.NotContains(t, stderr, "failed", "the error is reported once by the caller")
		assert.NotContains(t, stderr, "libtika_native.so")
	})

	t.Run("service not configured", func(t *testing.T) {
		clearBuildEnv(t)
		_, cleanup := setupTestServices()
		defer cleanup()
		newStagingService = nil

		_, _, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/m")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})
}

func TestStageCmd_DoesNotOpenExtraction(t *testing.T) {
	clearBuildEnv(t)
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.staging.report = &domain.StageReport{FastPath: true, StagingDir: "/proj/priv/native"}

	_, _, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/proj/native/doc_dig")
	require.NoError(t, err)
	assert.Zero(t, ts.extractionOpens)
}

func TestStageCmd_WatchReportsFailures(t *testing.T) {
	t.Run("initial failure is returned only", func(t *testing.T) {
		clearBuildEnv(t)
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.staging.err = errMock

		_, stderr, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/m", "--watch")
		assert.ErrorIs(t, err, errMock)
		assert.NotContains(t, stderr, "failed")
	})

	t.Run("re-stage failure is summarised", func(t *testing.T) {
		clearBuildEnv(t)
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.staging.restageErr = errMock

		_, stderr, err := executeStage(t, "--out-dir", "/out", "--manifest-dir", "/m", "--watch")
		require.NoError(t, err)
		assert.Contains(t, stderr, "staged")
		assert.Contains(t, stderr, "failed")
		assert.Contains(t, stderr, errMock.Error())
	})
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "", firstNonEmpty())
}
