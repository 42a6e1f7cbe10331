package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat strata configuration stored next to the
// metadata database.
type Config struct {
	Version         string `json:"version"`
	ProjectsDir     string `json:"projects_dir,omitempty"`     // defaults to <home>/projects
	OutputGroupName string `json:"output_group_name,omitempty"` // layer-tree group for results
	CurrentProject  string `json:"current_project,omitempty"`   // project name used when --project is omitted
}

// HomeDir returns the strata home directory (~/.strata), creating nothing.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".strata"), nil
}

// LoadConfig reads config.json from the given directory.
// Returns an error if no config is found - callers decide how to degrade.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to the given directory, creating it if needed.
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Default returns a config with the standard group and directory names.
func Default() *Config {
	return &Config{
		Version:         "1",
		OutputGroupName: "Output Layers",
	}
}
