// Package config holds the application configuration. Configuration is
// explicit state passed into the engine components, never ambient globals.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"tidymark/internal/store"
)

// Config holds application configuration.
type Config struct {
	// MinBookmarks is the consolidation threshold: folders with fewer
	// bookmarks are merged away.
	MinBookmarks int `json:"minBookmarks"`
	// FallbackFolder receives bookmarks whose folder cannot be merged
	// into a regular parent.
	FallbackFolder string `json:"fallbackFolder"`
	// BaseFolder is the top-level container category folders live under.
	BaseFolder string `json:"baseFolder"`
	// ReservedFolders are titles the engine must never touch.
	ReservedFolders []string `json:"reservedFolders"`
	// AIModel selects the categorization model.
	AIModel string `json:"aiModel"`
	// CheckExcludeDomains lists domains where 404s are treated as
	// "possibly private" during link checking.
	CheckExcludeDomains []string `json:"checkExcludeDomains"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinBookmarks:        3,
		FallbackFolder:      "Uncategorized",
		BaseFolder:          store.TitleOtherBookmarks,
		ReservedFolders:     store.ReservedTitles(),
		AIModel:             "",
		CheckExcludeDomains: []string{"github.com", "gitlab.com"},
	}
}

// Load reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = Save(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.MinBookmarks < 1 {
		config.MinBookmarks = defaults.MinBookmarks
	}
	if config.FallbackFolder == "" {
		config.FallbackFolder = defaults.FallbackFolder
	}
	if config.BaseFolder == "" {
		config.BaseFolder = defaults.BaseFolder
	}
	if config.ReservedFolders == nil {
		config.ReservedFolders = defaults.ReservedFolders
	}
	if config.CheckExcludeDomains == nil {
		config.CheckExcludeDomains = defaults.CheckExcludeDomains
	}

	return &config, nil
}

// Save writes config to the JSON file.
// Creates the directory if it doesn't exist.
func Save(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config path: ~/.config/tidymark/config.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tidymark", "config.json"), nil
}
