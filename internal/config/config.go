// Package config provides configuration management for the cleaning worker.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingInputDir      = errors.New("input.dir is required")
	ErrMissingOutputDir     = errors.New("output.dir is required")
	ErrMissingManifest      = errors.New("manifest path is required")
	ErrInvalidExtension     = errors.New("input.extension must start with a dot")
	ErrOutputCollision      = errors.New("output.prefix is required when output.dir equals input.dir")
	ErrInvalidWorkers       = errors.New("workers must be at least 1")
	ErrInvalidTokenizerMode = errors.New("tokenizer.mode must be one of: unicode, whitespace")
	ErrInvalidFallbackMode  = errors.New("tokenizer.fallback must be empty or one of: unicode, whitespace")
	ErrInvalidDiffWidth     = errors.New("logging.diff_width must be non-negative")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete cleaner configuration.
type Config struct {
	Cleaner  CleanerConfig  `yaml:"cleaner"`
	Features FeaturesConfig `yaml:"features"`
}

// CleanerConfig contains the batch pipeline settings.
type CleanerConfig struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Manifest  string          `yaml:"manifest"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Logging   LoggingConfig   `yaml:"logging"`
	Workers   int             `yaml:"workers"`
}

// InputConfig selects the source files.
type InputConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
}

// OutputConfig defines where cleaned files are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// TokenizerConfig selects the segmentation backend.
// Fallback, if set, is used when the primary mode fails to initialize;
// the degradation is logged, never silent.
type TokenizerConfig struct {
	Mode     string `yaml:"mode"`
	Fallback string `yaml:"fallback"`
}

// LoggingConfig defines logging and diff reporting behavior.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	ShowDiff  bool   `yaml:"show_diff"`
	DiffWidth int    `yaml:"diff_width"`
}

// FeaturesConfig contains feature flags.
type FeaturesConfig struct {
	// StrictVerify re-checks the cleaned-text contract after every clean.
	StrictVerify bool `yaml:"strict_verify"`
}

// Default returns the configuration matching the historical behavior:
// sources next to the worker, outputs under editedbooktext/, manifest in
// the working directory.
func Default() *Config {
	return &Config{
		Cleaner: CleanerConfig{
			Input:    InputConfig{Dir: ".", Extension: ".txt"},
			Output:   OutputConfig{Dir: "editedbooktext", Prefix: "edited_"},
			Manifest: "editedbook_list.txt",
			Tokenizer: TokenizerConfig{
				Mode: "unicode",
			},
			Logging: LoggingConfig{Level: "info", ShowDiff: true, DiffWidth: 100},
			Workers: 1,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Cleaner.Input.Dir == "" {
		return ErrMissingInputDir
	}

	if !strings.HasPrefix(c.Cleaner.Input.Extension, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, c.Cleaner.Input.Extension)
	}

	if c.Cleaner.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	// Without a prefix an in-place output would overwrite its own source.
	if c.Cleaner.Output.Dir == c.Cleaner.Input.Dir && c.Cleaner.Output.Prefix == "" {
		return ErrOutputCollision
	}

	if c.Cleaner.Manifest == "" {
		return ErrMissingManifest
	}

	if c.Cleaner.Workers < 1 {
		return ErrInvalidWorkers
	}

	validModes := map[string]bool{"unicode": true, "whitespace": true}
	if !validModes[c.Cleaner.Tokenizer.Mode] {
		return fmt.Errorf("%w: %q", ErrInvalidTokenizerMode, c.Cleaner.Tokenizer.Mode)
	}

	if fb := c.Cleaner.Tokenizer.Fallback; fb != "" && !validModes[fb] {
		return fmt.Errorf("%w: %q", ErrInvalidFallbackMode, fb)
	}

	if c.Cleaner.Logging.DiffWidth < 0 {
		return ErrInvalidDiffWidth
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Cleaner.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// OutputName derives the output filename for a source filename.
func (c *Config) OutputName(source string) string {
	return c.Cleaner.Output.Prefix + source
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Output: %s, Tokenizer: %s, Workers: %d}",
		c.Cleaner.Input.Dir,
		c.Cleaner.Output.Dir,
		c.Cleaner.Tokenizer.Mode,
		c.Cleaner.Workers,
	)
}
