package guide

import (
	"path/filepath"
	"strings"
)

// DeriveTitle implements spec.md §4.G step 4: find the first configured root
// path that is a prefix of originalPath and use its basename; if none
// matches, fall back to the basename of originalPath's parent directory.
func DeriveTitle(rootPaths []string, originalPath string) string {
	for _, root := range rootPaths {
		if root == "" {
			continue
		}
		if originalPath == root || strings.HasPrefix(originalPath, strings.TrimRight(root, string(filepath.Separator))+string(filepath.Separator)) {
			return filepath.Base(root)
		}
	}
	return filepath.Base(filepath.Dir(originalPath))
}
