package config

import (
	"os"
	"path/filepath"
	"testing"

	"jewel-pricing/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.DefaultFormat != "cli" || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Pricing.SettingsPath = "/etc/jewel/settings.hcl"
	cfg.Output.DefaultFormat = "markdown"
	cfg.Catalog.Enabled = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Pricing.SettingsPath != cfg.Pricing.SettingsPath {
		t.Errorf("settings path = %q", loaded.Pricing.SettingsPath)
	}
	if loaded.Output.DefaultFormat != "markdown" || !loaded.Catalog.Enabled {
		t.Errorf("loaded config = %+v", loaded)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"addr": ":9090"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Pricing.Currency != "USD" {
		t.Errorf("currency = %q", cfg.Pricing.Currency)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": `), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.IsType(err, errors.TypeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSettingsPath, "/tmp/settings.json")
	t.Setenv(EnvDatabasePath, "/tmp/catalog.db")
	t.Setenv(EnvServerAddr, "127.0.0.1:7000")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pricing.SettingsPath != "/tmp/settings.json" {
		t.Errorf("settings path = %q", cfg.Pricing.SettingsPath)
	}
	if cfg.Catalog.DatabasePath != "/tmp/catalog.db" || !cfg.Catalog.Enabled {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestGlobalConfig(t *testing.T) {
	prev := Get()
	defer Set(prev)

	cfg := Default()
	cfg.Pricing.Currency = "EUR"
	Set(cfg)
	if Get().Pricing.Currency != "EUR" {
		t.Errorf("Get() did not return the config passed to Set()")
	}
}
