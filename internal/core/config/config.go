// Package config handles configuration loading and validation for mingle.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is absent or a field is unset.
const (
	DefaultTheme       = "tokyo-night"
	DefaultDebounceMS  = 300
	DefaultSearchLimit = 8
)

// Config holds the application configuration.
type Config struct {
	// DisplayName identifies the local user as event organizer.
	DisplayName string `yaml:"display_name"`
	// ProfileID is the local user's participant record in the directory.
	// Set by 'mingle init'; RSVPs default to this participant.
	ProfileID string `yaml:"profile_id"`

	TUI       TUIConfig      `yaml:"tui"`
	Directory DirectoryConf  `yaml:"directory"`
	Database  DatabaseConfig `yaml:"database"`

	DataDir string `yaml:"-"` // set by caller, not from config file
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DirectoryConf tunes the participant suggestion source.
type DirectoryConf struct {
	// DebounceMS is the idle delay before a keystroke triggers a
	// directory search.
	DebounceMS int `yaml:"debounce_ms"`
	// SearchLimit caps candidates shown in the mention popup.
	SearchLimit int `yaml:"search_limit"`
}

// DatabaseConfig holds SQLite tuning knobs.
type DatabaseConfig struct {
	MaxOpenConns  int `yaml:"max_open_conns"`
	MaxIdleConns  int `yaml:"max_idle_conns"`
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
}

// Debounce returns the configured debounce as a duration.
func (c DirectoryConf) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Default returns a config populated with defaults.
func Default(dataDir string) *Config {
	return &Config{
		TUI: TUIConfig{Theme: DefaultTheme},
		Directory: DirectoryConf{
			DebounceMS:  DefaultDebounceMS,
			SearchLimit: DefaultSearchLimit,
		},
		Database: DatabaseConfig{
			MaxOpenConns:  10,
			MaxIdleConns:  5,
			BusyTimeoutMS: 5000,
		},
		DataDir: dataDir,
	}
}

// Load reads the YAML config at path, fills unset fields with defaults, and
// validates the result. A missing file is not an error; defaults apply.
func Load(path string, dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.DataDir = dataDir
		cfg.applyDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyDefaults backfills zero values after unmarshal so a sparse config
// file behaves like the defaults.
func (c *Config) applyDefaults() {
	if c.TUI.Theme == "" {
		c.TUI.Theme = DefaultTheme
	}
	if c.Directory.DebounceMS == 0 {
		c.Directory.DebounceMS = DefaultDebounceMS
	}
	if c.Directory.SearchLimit == 0 {
		c.Directory.SearchLimit = DefaultSearchLimit
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.BusyTimeoutMS == 0 {
		c.Database.BusyTimeoutMS = 5000
	}
}

// Save writes the config as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
