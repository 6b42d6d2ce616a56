// Package config provides configuration loading and structs for the sitesearch server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool          `yaml:"debug"`
	LogLevel string        `yaml:"log_level"` // overrides the level implied by Debug
	Server   ServerConfig  `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`
	Search   SearchConfig  `yaml:"search"`
	Watch    WatchConfig   `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the record data directory and the session history database.
type StorageConfig struct {
	DataDir       string `yaml:"data_dir"`
	SessionDBPath string `yaml:"session_db_path"`
}

// SearchConfig holds query, snippet, suggestion, and history settings.
type SearchConfig struct {
	SnippetLength     int `yaml:"snippet_length"`
	SuggestionLimit   int `yaml:"suggestion_limit"`
	HistoryLimit      int `yaml:"history_limit"`
	HistoryMaxEntries int `yaml:"history_max_entries"`
	MaxWords          int `yaml:"max_words"`
	// DefaultLimit caps returned results when a request sets none; 0 returns all.
	DefaultLimit int `yaml:"default_limit"`
}

// WatchConfig controls rebuilding the index when record files change.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled"`
	DebounceMS int   `yaml:"debounce_ms"`
}

// EnabledOrDefault returns whether to watch the data directory; defaults to true when unset.
func (w *WatchConfig) EnabledOrDefault() bool {
	if w.Enabled != nil {
		return *w.Enabled
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DataDir = expandPath(cfg.Storage.DataDir, configDir)
	if cfg.Storage.SessionDBPath != MemorySessionDB {
		cfg.Storage.SessionDBPath = expandPath(cfg.Storage.SessionDBPath, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
