package document

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath makes a link path absolute. A leading "~/" expands to the
// home directory and relative paths are joined to baseDir. Without a base
// directory relative paths resolve against the working directory.
func ResolvePath(raw, baseDir string) string {
	if raw == "" {
		return ""
	}
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(raw, "~"))
		}
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	if baseDir != "" {
		return filepath.Join(baseDir, raw)
	}
	if abs, err := filepath.Abs(raw); err == nil {
		return abs
	}
	return raw
}

// splitSearch separates an org search option ("file.org::*Heading").
func splitSearch(path string) (string, string) {
	if i := strings.Index(path, "::"); i >= 0 {
		return path[:i], path[i+2:]
	}
	return path, ""
}
