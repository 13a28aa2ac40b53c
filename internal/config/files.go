package config

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// libraryExtensions are the file types the schema codec understands.
var libraryExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// ResolveLibraries expands the library glob patterns under rootPath and
// returns a sorted, de-duplicated list of library files.
func (c *Config) ResolveLibraries(rootPath string) ([]string, error) {
	fileSet := make(map[string]bool)
	for _, pattern := range c.Libraries {
		matches, err := expandGlob(anchor(rootPath, pattern))
		if err != nil {
			// Silently skip invalid patterns
			continue
		}
		for _, match := range matches {
			if libraryExtensions[strings.ToLower(filepath.Ext(match))] {
				fileSet[filepath.Clean(match)] = true
			}
		}
	}

	for _, pattern := range c.Exclude {
		matches, err := expandGlob(anchor(rootPath, pattern))
		if err != nil {
			continue
		}
		for _, match := range matches {
			delete(fileSet, filepath.Clean(match))
		}
	}

	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func anchor(rootPath, pattern string) string {
	if filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(rootPath, pattern)
}

// expandGlob expands a glob pattern, handling ** for recursive matching
func expandGlob(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		return filepath.Glob(pattern)
	}

	parts := strings.SplitN(pattern, "**", 2)
	baseDir := filepath.Clean(parts[0])
	suffix := strings.TrimPrefix(parts[1], string(filepath.Separator))

	// Validate the suffix up front so a bad pattern is reported, not skipped per file
	if _, err := filepath.Match(suffix, ""); err != nil {
		return nil, err
	}

	var results []string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if d.IsDir() {
			// hidden directories (.git, caches) never hold libraries
			if path != baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if suffix == "" {
			results = append(results, path)
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}
		if matchSuffix(rel, suffix) {
			results = append(results, path)
		}
		return nil
	})
	return results, err
}

// matchSuffix checks if a path relative to the ** anchor matches the rest
// of the pattern. A pattern without a directory component matches file names
// at any depth; otherwise it must match the trailing path elements.
func matchSuffix(rel, pattern string) bool {
	if !strings.Contains(pattern, string(filepath.Separator)) {
		matched, _ := filepath.Match(pattern, filepath.Base(rel))
		return matched
	}

	want := len(strings.Split(pattern, string(filepath.Separator)))
	elems := strings.Split(rel, string(filepath.Separator))
	if len(elems) < want {
		return false
	}
	tail := filepath.Join(elems[len(elems)-want:]...)
	matched, _ := filepath.Match(pattern, tail)
	return matched
}
