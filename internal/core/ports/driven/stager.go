package driven

import "github.com/custodia-labs/docdig/internal/core/domain"

// ArtifactStager copies platform shared libraries into the staging directory.
type ArtifactStager interface {
	// Prepare creates destDir if it does not exist.
	Prepare(destDir string) error

	// IsStaged reports whether destDir already holds the primary file.
	IsStaged(destDir string, d domain.ArtifactDescriptor, p domain.Platform) bool

	// Stage copies every library in sourceDir matching the platform's
	// extension into destDir. Unless force is set, it returns without
	// reading sourceDir when the primary file is already staged.
	Stage(sourceDir, destDir string, d domain.ArtifactDescriptor, p domain.Platform, force bool) (*domain.StageResult, error)
}
