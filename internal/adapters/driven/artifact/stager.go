package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/logger"
)

// Ensure Stager implements the interface.
var _ driven.ArtifactStager = (*Stager)(nil)

// errDigestMismatch is returned when a staged copy differs from its source.
var errDigestMismatch = errors.New("staged copy does not match source digest")

// Stager copies platform shared libraries into the staging directory.
type Stager struct {
	verify bool
}

// NewStager creates a stager. When verify is set, every copy is re-read
// and compared to the source by BLAKE3 digest.
func NewStager(verify bool) *Stager {
	return &Stager{verify: verify}
}

// tempPattern names the temporary copies written by copyLibrary.
const tempPattern = ".stage-*"

// Prepare creates destDir if it does not exist and removes temporary
// copies an interrupted run left behind.
func (s *Stager) Prepare(destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return &domain.StageError{Destination: destDir, Err: err}
	}

	leftovers, err := filepath.Glob(filepath.Join(destDir, tempPattern))
	if err != nil {
		return &domain.StageError{Destination: destDir, Err: err}
	}
	for _, path := range leftovers {
		if err := os.Remove(path); err != nil {
			logger.Warn("Cannot remove stale staging file %s: %v", path, err)
			continue
		}
		logger.Debug("Removed stale staging file %s", path)
	}
	return nil
}

// IsStaged reports whether destDir already holds the primary file.
func (s *Stager) IsStaged(destDir string, d domain.ArtifactDescriptor, p domain.Platform) bool {
	return isFile(filepath.Join(destDir, d.PrimaryFile(p)))
}

// Stage copies every entry of sourceDir (one level, no recursion) whose
// extension matches the platform into destDir.
func (s *Stager) Stage(
	sourceDir, destDir string,
	d domain.ArtifactDescriptor,
	p domain.Platform,
	force bool,
) (*domain.StageResult, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &domain.StageError{Source: sourceDir, Destination: destDir, Err: err}
	}
	if !force && s.IsStaged(destDir, d, p) {
		logger.Info("%s already staged in %s", d.PrimaryFile(p), destDir)
		return &domain.StageResult{Skipped: true}, nil
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, &domain.StageError{Source: sourceDir, Destination: destDir, Err: err}
	}

	result := &domain.StageResult{}
	for _, entry := range entries {
		if entry.IsDir() || !p.MatchesExtension(filepath.Ext(entry.Name())) {
			continue
		}

		src := filepath.Join(sourceDir, entry.Name())
		dst := filepath.Join(destDir, entry.Name())
		if err := s.copyLibrary(src, dst); err != nil {
			return nil, &domain.StageError{Source: src, Destination: dst, Err: err}
		}

		logger.Info("Staged %s", dst)
		result.Copied = append(result.Copied, src)
	}

	return result, nil
}

// copyLibrary writes src to a temporary file next to dst and renames it
// into place, so a loader never sees a half-written library.
func (s *Stager) copyLibrary(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	hasher := blake3.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return err
	}

	if !s.verify {
		return nil
	}
	got, err := fileDigest(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, hasher.Sum(nil)) {
		return errDigestMismatch
	}
	return nil
}

// fileDigest streams the file at path through BLAKE3.
func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hasher.Sum(nil), nil
}
