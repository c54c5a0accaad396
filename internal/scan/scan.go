// Package scan discovers candidate video files beneath a root
// directory.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions recognised as video containers by default. Matching is
// case-insensitive on the file extension.
var defaultExtensions = []string{"mp4", "avi", "mov", "mkv", "wmv", "m4v", "mpeg", "mpg"}

// Scan walks the directory tree rooted at rootDir and returns every
// file whose extension is on the allow-list, sorted lexicographically
// for a deterministic submission order. extraExtensions widens the
// default allow-list (no leading dots).
func Scan(rootDir string, extraExtensions []string) ([]string, error) {
	allowed := allowList(extraExtensions)

	paths := make([]string, 0, 128)
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if allowed[ext] {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan '%s' for videos: %w", rootDir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func allowList(extraExtensions []string) map[string]bool {
	allowed := make(map[string]bool, len(defaultExtensions)+len(extraExtensions))
	for _, ext := range defaultExtensions {
		allowed[ext] = true
	}
	for _, ext := range extraExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = true
		}
	}

	return allowed
}
