// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Game state ingestion settings
	Game GameConfig `toml:"game"`

	// Snapshot database settings
	Database DatabaseConfig `toml:"database"`

	// File watch settings
	Watch WatchConfig `toml:"watch"`

	// General application settings
	App AppConfig `toml:"app"`
}

// GameConfig locates the game client's persisted state.
type GameConfig struct {
	DataDir string `toml:"data_dir"` // Root of the game's state directories (auto-detected if empty)
	Profile string `toml:"profile"`  // Profile directory name (e.g. "nvprod"); required when several exist
}

// DatabaseConfig contains snapshot store settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`         // Path to the SQLite database
	AutoMigrate bool   `toml:"auto_migrate"` // Apply schema migrations on startup
}

// WatchConfig contains file watch settings.
type WatchConfig struct {
	Debounce      string `toml:"debounce"`       // Minimum interval between ingestions (e.g. "2s")
	MaxPerSecond  int    `toml:"max_per_second"` // Hard cap on ingestion cycles per second
	IngestTimeout string `toml:"ingest_timeout"` // Per-cycle timeout (e.g. "30s")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Game: GameConfig{
			DataDir: "",
			Profile: "",
		},
		Database: DatabaseConfig{
			Path:        "",
			AutoMigrate: true,
		},
		Watch: WatchConfig{
			Debounce:      "2s",
			MaxPerSecond:  2,
			IngestTimeout: "30s",
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

	configDir := filepath.Join(homeDir, ".snap-companion")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// DefaultDatabasePath returns where the snapshot database lives when the
// configuration does not name one.
func DefaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".snap-companion", "snapshots.db"), nil
}

// Load loads the configuration from disk. Returns the default config if
// the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
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
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
	}
	if _, err := time.ParseDuration(c.Watch.IngestTimeout); err != nil {
		return fmt.Errorf("invalid ingest timeout %q: %w", c.Watch.IngestTimeout, err)
	}
	if c.Watch.MaxPerSecond <= 0 {
		return fmt.Errorf("watch max_per_second must be positive: %d", c.Watch.MaxPerSecond)
	}
	return nil
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Watch.Debounce)
}

// GetIngestTimeout returns the per-cycle ingest timeout as a duration.
func (c *Config) GetIngestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Watch.IngestTimeout)
}
