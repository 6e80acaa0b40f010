package driven

import "github.com/custodia-labs/docdig/internal/core/domain"

// ArtifactLocator finds the primary artifact produced by the upstream
// native dependency.
type ArtifactLocator interface {
	// Locate returns the path of the descriptor's primary file.
	// Returns a *domain.NotFoundError when every strategy is exhausted.
	Locate(req LocateRequest) (string, error)
}

// LocateRequest carries the inputs of one search.
type LocateRequest struct {
	// OutDir is the current build invocation's output directory.
	OutDir string

	Descriptor domain.ArtifactDescriptor
	Platform   domain.Platform

	// Profiles pairs build profiles for the opposite-profile fallback.
	Profiles domain.ProfilePairs
}
