package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolveLibrariesWithDefaults(t *testing.T) {
	root := t.TempDir()
	top := filepath.Join(root, "stdcells.json")
	nested := filepath.Join(root, "libs", "seq", "flops.yaml")
	hidden := filepath.Join(root, ".cache", "old.json")
	notes := filepath.Join(root, "libs", "README.md")
	writeFile(t, top, "{}")
	writeFile(t, nested, "entries: []")
	writeFile(t, hidden, "{}")
	writeFile(t, notes, "# notes")
	writeFile(t, filepath.Join(root, FileName), "{}")

	files, err := DefaultConfig().ResolveLibraries(root)
	if err != nil {
		t.Fatalf("ResolveLibraries: %v", err)
	}

	if !containsPath(files, top) || !containsPath(files, nested) {
		t.Fatalf("expected %s and %s, got %v", top, nested, files)
	}
	if containsPath(files, hidden) {
		t.Fatalf("expected hidden directory to be skipped, got %v", files)
	}
	if containsPath(files, notes) {
		t.Fatalf("expected non-library extension to be skipped, got %v", files)
	}
	if containsPath(files, filepath.Join(root, FileName)) {
		t.Fatalf("expected config file to be excluded, got %v", files)
	}
	if len(files) != 2 {
		t.Fatalf("expected no duplicates, got %v", files)
	}
}

func TestResolveLibrariesWithExplicitPatterns(t *testing.T) {
	root := t.TempDir()
	core := filepath.Join(root, "lib", "core", "cells.yml")
	legacy := filepath.Join(root, "lib", "legacy", "cells.yml")
	writeFile(t, core, "entries: []")
	writeFile(t, legacy, "entries: []")

	cfg := Config{
		Libraries: []string{"lib/**/cells.yml"},
		Exclude:   []string{"lib/legacy/*"},
	}

	files, err := cfg.ResolveLibraries(root)
	if err != nil {
		t.Fatalf("ResolveLibraries: %v", err)
	}
	if len(files) != 1 || !containsPath(files, core) {
		t.Fatalf("expected only %s, got %v", core, files)
	}
}

func TestMatchSuffix(t *testing.T) {
	tests := []struct {
		rel     string
		pattern string
		want    bool
	}{
		{"a/b/cells.json", "*.json", true},
		{"a/b/cells.json", "b/*.json", true},
		{"a/b/cells.json", "c/*.json", false},
		{"cells.json", "b/*.json", false},
	}
	for _, tt := range tests {
		rel := filepath.FromSlash(tt.rel)
		pattern := filepath.FromSlash(tt.pattern)
		if got := matchSuffix(rel, pattern); got != tt.want {
			t.Fatalf("matchSuffix(%q, %q) = %v, want %v", tt.rel, tt.pattern, got, tt.want)
		}
	}
}

func containsPath(files []string, target string) bool {
	for _, f := range files {
		if filepath.Clean(f) == filepath.Clean(target) {
			return true
		}
	}
	return false
}
