package domain

import "path/filepath"

const (
	// DefaultArtifactName is the base name of the primary native library.
	DefaultArtifactName = "libtika_native"

	// DefaultDependencyPrefix prefixes the upstream crate's build directories.
	DefaultDependencyPrefix = "extractous-"
)

// ArtifactDescriptor is the logical identity of the sought shared library.
type ArtifactDescriptor struct {
	// Name is the file name without extension (e.g., "libtika_native").
	Name string

	// DependencyPrefix is the directory-name prefix of the upstream
	// dependency inside the build root (e.g., "extractous-").
	DependencyPrefix string
}

// DefaultDescriptor returns the descriptor of the Tika native library.
func DefaultDescriptor() ArtifactDescriptor {
	return ArtifactDescriptor{
		Name:             DefaultArtifactName,
		DependencyPrefix: DefaultDependencyPrefix,
	}
}

// PrimaryFile returns the file name of the primary artifact on the
// given platform.
func (d ArtifactDescriptor) PrimaryFile(p Platform) string {
	return d.Name + "." + p.LibraryExtension
}

// Validate checks the descriptor is usable for searching.
func (d ArtifactDescriptor) Validate() error {
	if d.Name == "" || d.Name != filepath.Base(d.Name) {
		return ErrInvalidInput
	}
	return nil
}
