package artifact

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docdig/internal/logger"
)

// readDir lists a directory. Tests replace it to simulate unreadable
// directories.
var readDir = os.ReadDir

// searchBreadthFirst scans the given roots level by level for a regular
// file called name. Unreadable directories are treated as empty.
func searchBreadthFirst(name string, roots ...string) (string, bool) {
	queue := append([]string(nil), roots...)

	for head := 0; head < len(queue); head++ {
		dir := queue[head]

		entries, err := readDir(dir)
		if err != nil {
			logger.Debug("Skipping unreadable directory %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				queue = append(queue, path)
				continue
			}
			if entry.Name() == name && isFile(path) {
				return path, true
			}
		}
	}

	return "", false
}

// ascendUntil walks from start towards the filesystem root and returns
// the first directory whose base name is name, start included.
func ascendUntil(start, name string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		if filepath.Base(dir) == name {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// prefixedSubdirs lists the immediate subdirectories of dir whose name
// starts with prefix.
func prefixedSubdirs(dir, prefix string) []string {
	entries, err := readDir(dir)
	if err != nil {
		logger.Debug("Cannot list %s: %v", dir, err)
		return nil
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	return dirs
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
