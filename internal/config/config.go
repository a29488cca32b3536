// Package config loads pinelint's review and dispatcher settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pinelint/internal/logging"
)

// Config holds all pinelint configuration.
type Config struct {
	// Review holds defaults applied to a review.Options when a CLI flag
	// or dispatcher request does not override them.
	Review ReviewConfig `yaml:"review"`

	// Scan holds the default scanner root and extension filter.
	Scan ScanConfig `yaml:"scan"`

	// Docs is a reference documentation path read from the file or
	// PINELINT_DOCS_PATH. No command reads it: the reference index is always
	// built from the entries compiled into internal/docs.
	Docs string `yaml:"docs"`

	// Logging controls the categorized file logger.
	Logging LoggingConfig `yaml:"logging"`
}

// ReviewConfig mirrors review.Options' tunables.
type ReviewConfig struct {
	// DefaultSeverity filters the minimum severity returned ("all", "error",
	// "warning", "suggestion").
	DefaultSeverity string `yaml:"default_severity"`

	// ChunkSize must be positive (see Validate) and is logged on load. The
	// review engine lexes and parses each source in one pass and does not
	// read it; stream chunking uses the request's chunk_size (default 20).
	ChunkSize int `yaml:"chunk_size"`

	// WallClockBudget is the total time budget for one review call.
	WallClockBudget string `yaml:"wall_clock_budget"`

	// ValidatorBudget is the soft per-validator time budget; overruns are
	// logged but never abort the review.
	ValidatorBudget string `yaml:"validator_budget"`

	// MemoryCeilingBytes must be positive (see Validate). The review engine
	// does not read it: no memory ceiling is checked and reviews are never
	// truncated for size.
	MemoryCeilingBytes int64 `yaml:"memory_ceiling_bytes"`
}

// ScanConfig configures scan.LocalScanner defaults.
type ScanConfig struct {
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions"`
	Recursive  bool     `yaml:"recursive"`
}

// LoggingConfig holds the logging section of pinelint.yaml. internal/logging
// reads its own .pinelint/config.json and does not consult these fields.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	DebugMode bool   `yaml:"debug_mode"`
}

// DefaultConfig returns pinelint's built-in defaults, matching spec.md §5.
func DefaultConfig() *Config {
	return &Config{
		Review: ReviewConfig{
			DefaultSeverity:    "all",
			ChunkSize:          2000,
			WallClockBudget:    "2s",
			ValidatorBudget:    "50ms",
			MemoryCeilingBytes: 64 << 20,
		},
		Scan: ScanConfig{
			Root:       ".",
			Extensions: []string{".pine"},
			Recursive:  true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load reads a YAML config file, falling back to DefaultConfig when path
// does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("Loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("Config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootError("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("Failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("Config loaded: severity=%s chunk_size=%d", cfg.Review.DefaultSeverity, cfg.Review.ChunkSize)
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets a handful of environment variables override the
// loaded file, useful for container/CI deployments of `pinelint serve`.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PINELINT_SEVERITY"); v != "" {
		c.Review.DefaultSeverity = v
	}
	if v := os.Getenv("PINELINT_DOCS_PATH"); v != "" {
		c.Docs = v
	}
	if v := os.Getenv("PINELINT_SCAN_ROOT"); v != "" {
		c.Scan.Root = v
	}
	if v := os.Getenv("PINELINT_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// WallClock returns the review wall-clock budget as a Duration, defaulting
// to 2s if unset or unparseable.
func (c *Config) WallClock() time.Duration {
	d, err := time.ParseDuration(c.Review.WallClockBudget)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// ValidatorTimeout returns the per-validator soft budget as a Duration,
// defaulting to 50ms if unset or unparseable.
func (c *Config) ValidatorTimeout() time.Duration {
	d, err := time.ParseDuration(c.Review.ValidatorBudget)
	if err != nil {
		return 50 * time.Millisecond
	}
	return d
}

// Validate checks invariants that would otherwise surface as confusing
// runtime errors deep inside the review engine.
func (c *Config) Validate() error {
	switch c.Review.DefaultSeverity {
	case "all", "error", "warning", "suggestion":
	default:
		return fmt.Errorf("config: invalid review.default_severity %q", c.Review.DefaultSeverity)
	}
	if c.Review.ChunkSize <= 0 {
		return fmt.Errorf("config: review.chunk_size must be positive, got %d", c.Review.ChunkSize)
	}
	if c.Review.MemoryCeilingBytes <= 0 {
		return fmt.Errorf("config: review.memory_ceiling_bytes must be positive, got %d", c.Review.MemoryCeilingBytes)
	}
	return nil
}
