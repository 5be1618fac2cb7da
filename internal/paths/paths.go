// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectConfig is the per-directory config file, checked before the user
// config.
const ProjectConfig = ".zircon/config.yaml"

// Expand replaces a leading "~" with the home directory and cleans the path.
// An empty path stays empty.
func Expand(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}

// ResolveConfig picks the config file to load.
//
// Lookup order:
//   - explicit, when non-empty (it need not exist yet)
//   - .zircon/config.yaml in the working directory
//   - <userDir>/config.yaml
//
// found reports whether the returned file exists. When nothing exists the
// project path is returned so a default config can be written there.
func ResolveConfig(explicit, userDir string) (path string, found bool) {
	if explicit != "" {
		path = Expand(explicit)
		return path, exists(path)
	}
	if exists(ProjectConfig) {
		return ProjectConfig, true
	}
	if userDir != "" {
		user := filepath.Join(userDir, "config.yaml")
		if exists(user) {
			return user, true
		}
	}
	return ProjectConfig, false
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
