package domain

// StageRequest describes one run of the staging pipeline.
type StageRequest struct {
	Layout     BuildLayout
	Platform   Platform
	Descriptor ArtifactDescriptor

	// Profiles pairs build profiles for the opposite-profile fallback.
	Profiles ProfilePairs

	// Force skips the already-staged fast path.
	Force bool
}

// StageResult is the outcome of copying libraries into the staging dir.
type StageResult struct {
	// Skipped is true when the primary artifact was already staged.
	Skipped bool

	// Copied lists the source paths copied, in directory order.
	Copied []string
}

// StageReport summarises a full pipeline run.
type StageReport struct {
	// FastPath is true when no search or copy was needed.
	FastPath bool

	// SourceDir is the directory the libraries were copied from.
	SourceDir string

	// StagingDir is the destination directory.
	StagingDir string

	// Staged lists the copied source paths.
	Staged []string

	// Directives lists everything emitted, in order.
	Directives []Directive
}
