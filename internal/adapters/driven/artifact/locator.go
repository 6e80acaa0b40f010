package artifact

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/logger"
)

// Ensure Locator implements the interface.
var _ driven.ArtifactLocator = (*Locator)(nil)

// strategy searches one candidate region. It returns a description of the
// region it searched, or "" when the region does not exist for this layout.
type strategy struct {
	name   string
	search func(req driven.LocateRequest, file string) (region, path string, found bool)
}

// Locator finds the upstream library by trying, in order: the output
// directory itself, the dependency's sibling build directories, the
// opposite profile's build root, and finally the whole build root.
type Locator struct {
	strategies []strategy
}

// NewLocator creates a filesystem locator.
func NewLocator() *Locator {
	return &Locator{
		strategies: []strategy{
			{name: "output directory", search: searchOutDir},
			{name: "dependency tree", search: searchDependencyTree},
			{name: "opposite profile", search: searchOppositeProfile},
			{name: "build root", search: searchBuildRoot},
		},
	}
}

// Locate returns the path of the descriptor's primary file.
func (l *Locator) Locate(req driven.LocateRequest) (string, error) {
	if err := req.Descriptor.Validate(); err != nil {
		return "", fmt.Errorf("artifact descriptor %q: %w", req.Descriptor.Name, err)
	}
	if req.OutDir == "" {
		return "", fmt.Errorf("output directory is empty: %w", domain.ErrInvalidInput)
	}

	abs, err := filepath.Abs(req.OutDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	req.OutDir = abs

	file := req.Descriptor.PrimaryFile(req.Platform)
	logger.Section("Artifact Search")
	logger.Debug("Looking for %s from %s", file, req.OutDir)

	var searched []string
	for _, s := range l.strategies {
		region, path, found := s.search(req, file)
		if region == "" {
			logger.Debug("%s: not applicable", s.name)
			continue
		}
		searched = append(searched, region)
		if found {
			logger.Info("Found %s via %s", path, s.name)
			return path, nil
		}
		logger.Debug("%s: no match", region)
	}

	return "", &domain.NotFoundError{File: file, Searched: searched}
}

func searchOutDir(req driven.LocateRequest, file string) (string, string, bool) {
	region := "output directory " + req.OutDir
	candidate := filepath.Join(req.OutDir, file)
	if isFile(candidate) {
		return region, candidate, true
	}
	return region, "", false
}

func searchDependencyTree(req driven.LocateRequest, file string) (string, string, bool) {
	prefix := req.Descriptor.DependencyPrefix
	if prefix == "" {
		return "", "", false
	}
	buildRoot, ok := ascendUntil(req.OutDir, domain.BuildDirName)
	if !ok {
		return "", "", false
	}

	region := "dependency directories " + filepath.Join(buildRoot, prefix+"*")
	dirs := prefixedSubdirs(buildRoot, prefix)
	if len(dirs) == 0 {
		return region, "", false
	}
	path, found := searchBreadthFirst(file, dirs...)
	return region, path, found
}

func searchOppositeProfile(req driven.LocateRequest, file string) (string, string, bool) {
	buildRoot, ok := ascendUntil(req.OutDir, domain.BuildDirName)
	if !ok {
		return "", "", false
	}
	profileDir := filepath.Dir(buildRoot)
	opposite, ok := req.Profiles.Opposite(filepath.Base(profileDir))
	if !ok {
		return "", "", false
	}

	sibling := filepath.Join(filepath.Dir(profileDir), opposite, domain.BuildDirName)
	region := "opposite profile " + sibling
	if !isDir(sibling) {
		return region, "", false
	}
	path, found := searchBreadthFirst(file, sibling)
	return region, path, found
}

func searchBuildRoot(req driven.LocateRequest, file string) (string, string, bool) {
	buildRoot, ok := ascendUntil(req.OutDir, domain.BuildDirName)
	if !ok {
		return "", "", false
	}
	path, found := searchBreadthFirst(file, buildRoot)
	return "build root " + buildRoot, path, found
}
