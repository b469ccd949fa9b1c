package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectConfigName is the project-local config file name.
const ProjectConfigName = ".treelist.yaml"

// dataSuffixes are the file names DiscoverDataFiles picks up while scanning.
var dataSuffixes = []string{".tree.json", ".tree.yaml", ".tree.yml", ".tree.db"}

// DiscoverDataFiles returns the configured data paths followed by every
// *.tree.{json,yaml,yml,db} file found under the scan paths, without
// duplicates.
func DiscoverDataFiles(cfg Config) []string {
	seen := make(map[string]bool)
	var result []string

	for _, p := range cfg.Data.Paths {
		p = filepath.Clean(expandHome(p))
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, scanPath := range cfg.Data.ScanPaths {
		maxDepth := cfg.Data.MaxDepth
		if maxDepth <= 0 {
			maxDepth = 3
		}
		for _, f := range scanForData(scanPath, maxDepth) {
			if !seen[f] {
				seen[f] = true
				result = append(result, f)
			}
		}
	}

	return result
}

// scanForData walks a directory tree up to maxDepth levels deep, looking
// for data files.
func scanForData(root string, maxDepth int) []string {
	root = filepath.Clean(expandHome(root))
	var results []string

	rootDepth := strings.Count(root, string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}

		currentDepth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if d.IsDir() {
			if currentDepth > maxDepth {
				return filepath.SkipDir
			}
			// Skip hidden directories
			if name := d.Name(); path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		name := strings.ToLower(d.Name())
		for _, suffix := range dataSuffixes {
			if strings.HasSuffix(name, suffix) {
				results = append(results, path)
				break
			}
		}
		return nil
	})

	return results
}

// DetectProjectConfig looks for a project config by walking up from the
// current directory.
func DetectProjectConfig() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findProjectConfig(dir)
}

// findProjectConfig walks up from dir looking for .treelist.yaml.
func findProjectConfig(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
