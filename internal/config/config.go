// Package config loads operational settings for the deck-construction
// service (spec.md §6 External interfaces): random-mode tuning, export
// destinations and the owned-cards directory. Follows the teacher's
// TOML-file-plus-environment-override shape (internal/config/config.go).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Random contains seeded random-entrypoint tuning (spec.md §4.9).
	Random RandomConfig `toml:"random"`

	// Export contains deck-export destination settings (spec.md §6 Export).
	Export ExportConfig `toml:"export"`

	// App contains general application settings.
	App AppConfig `toml:"app"`
}

// RandomConfig mirrors spec.md §6's RANDOM_* environment variables.
type RandomConfig struct {
	Modes                []string `toml:"modes"`                  // RANDOM_MODES
	MaxAttempts          int      `toml:"max_attempts"`           // RANDOM_MAX_ATTEMPTS
	TimeoutMS            int      `toml:"timeout_ms"`             // RANDOM_TIMEOUT_MS
	SuppressInitialExport bool    `toml:"suppress_initial_export"` // RANDOM_SUPPRESS_INITIAL_EXPORT
}

// ExportConfig mirrors spec.md §6's DECK_EXPORTS/OWNED_CARDS_DIR variables.
type ExportConfig struct {
	Dir           string `toml:"dir"`             // DECK_EXPORTS
	OwnedCardsDir string `toml:"owned_cards_dir"` // OWNED_CARDS_DIR
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Random: RandomConfig{
			Modes:                 []string{"commander"},
			MaxAttempts:           5,
			TimeoutMS:             5000,
			SuppressInitialExport: false,
		},
		Export: ExportConfig{
			Dir:           "deck_exports",
			OwnedCardsDir: "owned_cards",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".commanderbuilder")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk, falling back to defaults if the
// file doesn't exist, then layers environment variable overrides on top
// (spec.md §6 External interfaces).
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if _, statErr := os.Stat(path); statErr == nil {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read config file: %w", readErr)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides mirrors the teacher's getDBPath env-override idiom,
// generalized to every spec.md §6 operational setting.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("RANDOM_MODES"); v != "" {
		c.Random.Modes = strings.Split(v, ",")
	}
	if v := os.Getenv("RANDOM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Random.MaxAttempts = n
		}
	}
	if v := os.Getenv("RANDOM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Random.TimeoutMS = n
		}
	}
	if v := os.Getenv("RANDOM_SUPPRESS_INITIAL_EXPORT"); v != "" {
		c.Random.SuppressInitialExport = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("DECK_EXPORTS"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("OWNED_CARDS_DIR"); v != "" {
		c.Export.OwnedCardsDir = v
	}
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Random.MaxAttempts <= 0 {
		return fmt.Errorf("random.max_attempts must be positive: %d", c.Random.MaxAttempts)
	}
	if c.Random.TimeoutMS <= 0 {
		return fmt.Errorf("random.timeout_ms must be positive: %d", c.Random.TimeoutMS)
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("export.dir must not be empty")
	}
	return nil
}

// RandomTimeout returns the configured random-entrypoint timeout as a
// duration, for internal/randomentry.SelectConfig.Timeout.
func (c *Config) RandomTimeout() time.Duration {
	return time.Duration(c.Random.TimeoutMS) * time.Millisecond
}
