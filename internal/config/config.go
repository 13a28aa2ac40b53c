package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the project-level configuration file name.
const FileName = "celllib.json"

// Config is the top-level configuration for celllib
type Config struct {
	// Libraries is a list of glob patterns for cell library files (.json, .yaml, .yml)
	Libraries []string `json:"libraries,omitempty"`

	// Exclude is a list of glob patterns removed from the resolved library set
	Exclude []string `json:"exclude,omitempty"`

	// Lint contains linting rule configuration
	Lint LintConfig `json:"lint,omitempty"`

	// Load controls how library files are read
	Load LoadConfig `json:"load,omitempty"`

	// Log controls CLI log output
	Log LogConfig `json:"log,omitempty"`
}

// LintConfig contains linting configuration
type LintConfig struct {
	// Rules maps rule names to severity: "off", "info", "warning", "error"
	Rules map[string]string `json:"rules,omitempty"`

	// PolicyDir holds extra .rego modules (relative to project root if not absolute)
	PolicyDir string `json:"policyDir,omitempty"`
}

// LoadConfig contains library loading options
type LoadConfig struct {
	// Validate checks every file against the CUE contract before decoding
	Validate *bool `json:"validate,omitempty"`
}

// LogConfig contains logging options
type LogConfig struct {
	// Level is a logrus level name: "debug", "info", "warn", "error"
	Level string `json:"level,omitempty"`

	// Format is "text" or "json"
	Format string `json:"format,omitempty"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Libraries: []string{"*.json", "*.yaml", "*.yml", "**/*.json", "**/*.yaml", "**/*.yml"},
		Exclude:   []string{FileName, "." + FileName},
		Lint: LintConfig{
			Rules: map[string]string{},
		},
		Load: LoadConfig{
			Validate: boolPtr(true),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

// Load finds and loads the configuration file
// Search order:
//  1. ./celllib.json (current working directory)
//  2. ./.celllib.json (current working directory)
//  3. <rootPath>/celllib.json (if different from cwd)
//  4. ~/.config/celllib/config.json
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, FileName),
		filepath.Join(cwd, "."+FileName),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, FileName),
				filepath.Join(rootPath, "."+FileName),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "celllib", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Libraries == nil {
		c.Libraries = defaults.Libraries
	}
	if c.Exclude == nil {
		c.Exclude = defaults.Exclude
	}
	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]string)
	}
	if c.Load.Validate == nil {
		c.Load.Validate = boolPtr(true)
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// RuleSeverity returns the severity for a rule, or the default if not configured
func (c *Config) RuleSeverity(rule string, defaultSeverity string) string {
	if severity, ok := c.Lint.Rules[rule]; ok && severity != "" {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the rule is not set to "off"
func (c *Config) IsRuleEnabled(rule string) bool {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity != "off"
	}
	return true
}

// ShouldValidate reports whether library files go through the CUE contract.
func (c *Config) ShouldValidate() bool {
	return c.Load.Validate == nil || *c.Load.Validate
}

// PolicyPath resolves Lint.PolicyDir against rootPath. Empty means built-in rules only.
func (c *Config) PolicyPath(rootPath string) string {
	dir := c.Lint.PolicyDir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(rootPath, dir)
}
