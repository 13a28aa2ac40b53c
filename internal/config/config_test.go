package config

import (
	"path/filepath"
	"testing"
)

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `{"lint": {"rules": {"unreachable_row": "error", "conflicting_rows": "off"}}}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if len(cfg.Libraries) == 0 {
		t.Fatalf("expected default library patterns")
	}
	if !cfg.ShouldValidate() {
		t.Fatalf("expected validation on by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
	if got := cfg.RuleSeverity("unreachable_row", "warning"); got != "error" {
		t.Fatalf("expected configured severity error, got %q", got)
	}
	if got := cfg.RuleSeverity("state_signal_not_pin", "warning"); got != "warning" {
		t.Fatalf("expected default severity warning, got %q", got)
	}
	if cfg.IsRuleEnabled("conflicting_rows") {
		t.Fatalf("expected conflicting_rows disabled")
	}
	if !cfg.IsRuleEnabled("unreachable_row") {
		t.Fatalf("expected unreachable_row enabled")
	}
}

func TestLoadFileRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `{"libraries": [`)
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadFindsRootConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `{"libraries": ["cells/*.json"], "load": {"validate": false}}`)

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Libraries) != 1 || cfg.Libraries[0] != "cells/*.json" {
		t.Fatalf("expected root config to be loaded, got %v", cfg.Libraries)
	}
	if cfg.ShouldValidate() {
		t.Fatalf("expected validation disabled")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Lint.PolicyDir = "policies"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Lint.PolicyDir != "policies" {
		t.Fatalf("expected policy dir to survive, got %q", loaded.Lint.PolicyDir)
	}
	if got := loaded.PolicyPath("/proj"); got != filepath.Join("/proj", "policies") {
		t.Fatalf("unexpected policy path %q", got)
	}
}
