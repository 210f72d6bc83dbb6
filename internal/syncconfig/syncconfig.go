// Package syncconfig reads sync-related settings from the vust config
// directory, with environment-variable overrides for scripting and tests.
package syncconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config is the global vust config stored at ~/.config/vust/config.json.
type Config struct {
	ServerURL string `json:"server_url,omitempty"`
	ChunkSize int    `json:"chunk_size,omitempty"`
}

const defaultServerURL = "http://localhost:8080"

// DefaultChunkSize is the number of records per sync chunk when neither the
// config nor the server suggests one.
const DefaultChunkSize = 100

// ConfigDir returns ~/.config/vust, creating it if necessary.
// VUST_CONFIG_DIR overrides the location.
func ConfigDir() (string, error) {
	if v := os.Getenv("VUST_CONFIG_DIR"); v != "" {
		if err := os.MkdirAll(v, 0755); err != nil {
			return "", fmt.Errorf("create config dir: %w", err)
		}
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "vust")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// IconsDir returns the local icon asset directory, creating it if needed.
func IconsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	icons := filepath.Join(dir, "icons")
	if err := os.MkdirAll(icons, 0755); err != nil {
		return "", fmt.Errorf("create icons dir: %w", err)
	}
	return icons, nil
}

// LoadConfig reads config.json, returning an empty config if absent.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes config.json.
func SaveConfig(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// GetServerURL returns the sync server base URL.
// Priority: VUST_SERVER_URL env > config.json > default.
func GetServerURL() string {
	if v := os.Getenv("VUST_SERVER_URL"); v != "" {
		return v
	}
	cfg, err := LoadConfig()
	if err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return defaultServerURL
}

// GetChunkSize returns the default chunk size for outbound sync data.
// Priority: VUST_CHUNK_SIZE env > config.json > DefaultChunkSize.
func GetChunkSize() int {
	if v := os.Getenv("VUST_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	cfg, err := LoadConfig()
	if err == nil && cfg.ChunkSize > 0 {
		return cfg.ChunkSize
	}
	return DefaultChunkSize
}
