package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pricemap-tw/pricemap/pkg/constants"
)

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Backend != "postgrest" {
		t.Errorf("Backend = %q, want postgrest", config.Backend)
	}
	if config.BackendURL != constants.DefaultBackendURL {
		t.Errorf("BackendURL = %q, want %q", config.BackendURL, constants.DefaultBackendURL)
	}
	if config.HistoryLimit != constants.PriceHistoryLimit {
		t.Errorf("HistoryLimit = %d, want %d", config.HistoryLimit, constants.PriceHistoryLimit)
	}
	if config.AddressSearch {
		t.Error("AddressSearch should default to false")
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies PRICEMAP_* loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRICEMAP_BACKEND", "Postgres")
	t.Setenv("PRICEMAP_DATABASE_URL", "postgres://localhost/pricemap")
	t.Setenv("PRICEMAP_BACKEND_KEY", "anon")
	t.Setenv("PRICEMAP_VERBOSE", "true")
	t.Setenv("PRICEMAP_FORMAT", "json")
	t.Setenv("PRICEMAP_ADDRESS_SEARCH", "true")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Backend != "postgres" {
		t.Errorf("Backend = %q, want postgres", config.Backend)
	}
	if config.DatabaseURL != "postgres://localhost/pricemap" {
		t.Errorf("DatabaseURL = %q", config.DatabaseURL)
	}
	if config.BackendKey != "anon" {
		t.Errorf("BackendKey = %q, want anon", config.BackendKey)
	}
	if !config.Verbose {
		t.Error("PRICEMAP_VERBOSE not loaded")
	}
	if config.Format != "json" {
		t.Errorf("Format = %q, want json", config.Format)
	}
	if !config.AddressSearch {
		t.Error("PRICEMAP_ADDRESS_SEARCH=true not loaded")
	}
}

// TestConfig_Durations verifies duration parsing.
func TestConfig_Durations(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRICEMAP_REFRESH_INTERVAL", "1h")
	t.Setenv("PRICEMAP_REFRESH_TIMEOUT", "20s")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.RefreshInterval != time.Hour {
		t.Errorf("RefreshInterval = %v, want 1h", config.RefreshInterval)
	}
	if config.RefreshTimeout != 20*time.Second {
		t.Errorf("RefreshTimeout = %v, want 20s", config.RefreshTimeout)
	}
}

// TestConfig_File verifies the YAML config file and env precedence over it.
func TestConfig_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "pricemap.yaml")
	content := "backend: memory\nfixture: testdata/directory.yaml\nhistory_limit: 5\nbackend_url: https://file.example\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PRICEMAP_BACKEND_URL", "https://env.example")

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	if config.Backend != "memory" || config.Fixture != "testdata/directory.yaml" {
		t.Errorf("backend = %q fixture = %q", config.Backend, config.Fixture)
	}
	if config.HistoryLimit != 5 {
		t.Errorf("HistoryLimit = %d, want 5", config.HistoryLimit)
	}
	if config.BackendURL != "https://env.example" {
		t.Errorf("BackendURL = %q, env should win over file", config.BackendURL)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
}

// TestConfig_MissingExplicitFile verifies an explicit config path must exist.
func TestConfig_MissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "info"}
	config.UpdateFromFlags(true, false, true, "", "")

	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Errorf("flags not applied: %+v", config)
	}
	if config.Format != "yaml" || config.LogLevel != "info" {
		t.Error("empty flag values should not override config")
	}

	config.UpdateFromFlags(false, false, false, "json", "debug")
	if config.Format != "json" || config.LogLevel != "debug" {
		t.Errorf("Format = %q LogLevel = %q", config.Format, config.LogLevel)
	}
}
