package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// configFileNames are the file names probed inside each search path, in
// precedence order. Both may exist; both are loaded.
var configFileNames = []string{"hooks.json", "hooks.yaml", "hooks.yml"}

// Discovery locates hook configuration files across an ordered list of
// search paths and merges them into a single Config. Earlier search paths
// contribute earlier entries, which matters because PreToolUse hooks run
// in load order and the first Deny wins.
type Discovery struct {
	searchPaths []string
	logger      *zap.Logger
}

// NewDiscovery creates a Discovery over the given search paths. Paths are
// scanned in the order given.
func NewDiscovery(searchPaths []string, logger *zap.Logger) *Discovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discovery{searchPaths: searchPaths, logger: logger}
}

// AddSearchPath appends a directory to scan after the existing ones.
func (d *Discovery) AddSearchPath(path string) {
	d.searchPaths = append(d.searchPaths, path)
}

// SearchPaths returns the directories scanned, in order.
func (d *Discovery) SearchPaths() []string {
	out := make([]string, len(d.searchPaths))
	copy(out, d.searchPaths)
	return out
}

// Discover scans every search path for hook configuration files and merges
// them in order. Entries are concatenated, never deduplicated: the same
// command registered by two files runs twice. Missing files and missing
// directories are skipped silently; files that exist but fail to parse are
// hard errors so a broken hook file cannot be ignored.
func (d *Discovery) Discover() (*Config, error) {
	merged := NewConfig()
	for _, dir := range d.searchPaths {
		for _, name := range configFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := LoadFile(path)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			d.logger.Debug("loaded hook config",
				zap.String("path", path),
				zap.Int("hooks", len(cfg.Hooks)))
			merged.Merge(cfg)
		}
	}
	return merged, nil
}

// DefaultSearchPaths returns the standard hook configuration locations for
// a project, most specific first:
//
//  1. <projectRoot>/.dispatch
//  2. <projectRoot>/.dispatch/plugins/<name> for each plugin directory
//  3. ~/.dispatch
//  4. ~/.dispatch/plugins/<name> for each plugin directory
//
// Plugin directories are listed in lexical order so discovery is
// deterministic across runs.
func DefaultSearchPaths(projectRoot string) []string {
	var paths []string

	projectDir := filepath.Join(projectRoot, ".dispatch")
	paths = append(paths, projectDir)
	paths = append(paths, pluginDirs(filepath.Join(projectDir, "plugins"))...)

	if home, err := os.UserHomeDir(); err == nil {
		userDir := filepath.Join(home, ".dispatch")
		paths = append(paths, userDir)
		paths = append(paths, pluginDirs(filepath.Join(userDir, "plugins"))...)
	}
	return paths
}

func pluginDirs(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs
}

// FindProjectRoot walks up from start looking for a directory containing
// .git or .dispatch. If neither is found, start itself is returned.
func FindProjectRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for {
		for _, marker := range []string{".git", ".dispatch"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
