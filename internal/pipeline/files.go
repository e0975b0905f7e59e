package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ListSubmissions returns the files in dir matching any of patterns, sorted
// by name. A missing directory yields no files. Files modified before since
// are skipped unless since is zero.
func ListSubmissions(dir string, patterns []string, since time.Time) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	if len(patterns) == 0 {
		patterns = []string{"*.md"}
	}

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, path := range matches {
			if seen[path] || !matchesSince(path, since) {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// Matches reports whether the base name of path matches any of patterns
func Matches(path string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = []string{"*.md"}
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// matchesSince reports whether path is a regular file modified at or after since
func matchesSince(path string, since time.Time) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return since.IsZero() || !info.ModTime().Before(since)
}

// ParseSince accepts RFC3339 timestamps or plain dates (2006-01-02)
func ParseSince(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid --since %q: want RFC3339 or YYYY-MM-DD", value)
}
