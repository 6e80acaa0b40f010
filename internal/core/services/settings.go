package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// Config keys for docdig.toml.
const (
	keyArtifactName     = "artifact.name"
	keyDependencyPrefix = "artifact.dependency_prefix"
	keyStagingDir       = "staging.dir"
	keyStagingVerify    = "staging.verify"
	keyProfilePairs     = "profiles.pairs"
)

// LoadStagingSettings reads staging settings from the config store,
// falling back to defaults for missing keys. A relative staging.dir is
// resolved against manifestDir. A nil store yields the defaults.
func LoadStagingSettings(store driven.ConfigStore, manifestDir string) (domain.StagingSettings, error) {
	settings := domain.DefaultStagingSettings()
	if store == nil {
		return settings, nil
	}

	if name := store.GetString(keyArtifactName); name != "" {
		settings.Descriptor.Name = name
	}
	if _, ok := store.Get(keyDependencyPrefix); ok {
		settings.Descriptor.DependencyPrefix = store.GetString(keyDependencyPrefix)
	}
	if err := settings.Descriptor.Validate(); err != nil {
		return settings, fmt.Errorf("%s %q: %w", keyArtifactName, settings.Descriptor.Name, err)
	}

	if dir := store.GetString(keyStagingDir); dir != "" {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(manifestDir, dir)
		}
		settings.StagingDir = filepath.Clean(dir)
	}

	if _, ok := store.Get(keyStagingVerify); ok {
		settings.Verify = store.GetBool(keyStagingVerify)
	}

	if pairs := store.GetStringSlice(keyProfilePairs); len(pairs) > 0 {
		settings.Profiles = domain.ProfilePairs{}
		for _, pair := range pairs {
			a, b, ok := strings.Cut(pair, ":")
			if !ok || a == "" || b == "" {
				return settings, fmt.Errorf("%s entry %q must be \"profile:profile\": %w",
					keyProfilePairs, pair, domain.ErrInvalidInput)
			}
			settings.Profiles.Add(a, b)
		}
	}

	return settings, nil
}
