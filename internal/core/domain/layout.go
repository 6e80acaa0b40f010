package domain

import "path/filepath"

// BuildDirName is the literal directory name the locator ascends to.
const BuildDirName = "build"

// BuildLayout holds the filesystem locations supplied by the build tool.
type BuildLayout struct {
	// OutDir is the current invocation's output directory, conventionally
	// {root}/{triple}/{profile}/build/{crate}-{hash}/out.
	OutDir string

	// ManifestDir is the native crate's root directory.
	ManifestDir string

	// StagingDir is the runtime directory bundled with the extension.
	StagingDir string
}

// DefaultStagingDir returns priv/native under the project root, two
// levels above the native crate.
func DefaultStagingDir(manifestDir string) string {
	return filepath.Join(filepath.Dir(filepath.Dir(filepath.Clean(manifestDir))), "priv", "native")
}

// ProfilePairs maps a build profile to its opposite. The mapping is
// symmetric.
type ProfilePairs map[string]string

// DefaultProfilePairs returns the release/debug pairing.
func DefaultProfilePairs() ProfilePairs {
	return ProfilePairs{"release": "debug", "debug": "release"}
}

// Add registers a symmetric pairing.
func (p ProfilePairs) Add(a, b string) {
	p[a] = b
	p[b] = a
}

// Opposite returns the paired profile, if any.
func (p ProfilePairs) Opposite(profile string) (string, bool) {
	opp, ok := p[profile]
	return opp, ok
}
