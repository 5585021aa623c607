// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"jewel-pricing/internal/errors"
	"jewel-pricing/internal/logging"
)

// Environment variables that override file values
const (
	EnvSettingsPath = "JEWEL_PRICING_SETTINGS"
	EnvDatabasePath = "JEWEL_PRICING_DB"
	EnvServerAddr   = "JEWEL_PRICING_ADDR"
	EnvLogLevel     = "JEWEL_PRICING_LOG_LEVEL"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Catalog contains catalog storage configuration
	Catalog CatalogConfig `json:"catalog"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// SettingsPath is the admin settings file (.json or .hcl).
	// Empty means engine defaults.
	SettingsPath string `json:"settings_path,omitempty"`

	// Currency is the label printed next to amounts
	Currency string `json:"currency"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowDetails shows per-selection line items
	ShowDetails bool `json:"show_details"`
}

// CatalogConfig contains catalog-related settings
type CatalogConfig struct {
	// Enabled resolves processId/materialId references from the catalog
	Enabled bool `json:"enabled"`

	// DatabasePath is the path to the catalog database
	DatabasePath string `json:"database_path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds"`
}

// Dir returns the per-user configuration directory
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".jewel-pricing")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Currency: "USD",
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   true,
		},
		Catalog: CatalogConfig{
			Enabled:      false,
			DatabasePath: filepath.Join(Dir(), "catalog.db"),
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 10,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies a .env file in the
// working directory and JEWEL_PRICING_* environment overrides. A missing
// file yields defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, errors.Config("parse config "+path, err)
			}
		case !os.IsNotExist(err):
			return nil, errors.Config("read config "+path, err)
		}
	}

	_ = godotenv.Load()
	config.ApplyEnv()
	return config, nil
}

// ApplyEnv overrides file values from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSettingsPath); v != "" {
		c.Pricing.SettingsPath = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Catalog.DatabasePath = v
		c.Catalog.Enabled = true
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Config("create config directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Config("encode config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Config("write config "+path, err)
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
