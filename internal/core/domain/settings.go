package domain

// StagingSettings is the project configuration for the staging pipeline,
// after defaults have been applied.
type StagingSettings struct {
	Descriptor ArtifactDescriptor

	// StagingDir is the runtime directory; empty means the default
	// priv/native location.
	StagingDir string

	Profiles ProfilePairs

	// Verify re-reads each staged copy and compares digests.
	Verify bool
}

// DefaultStagingSettings returns the built-in configuration.
func DefaultStagingSettings() StagingSettings {
	return StagingSettings{
		Descriptor: DefaultDescriptor(),
		Profiles:   DefaultProfilePairs(),
		Verify:     true,
	}
}
