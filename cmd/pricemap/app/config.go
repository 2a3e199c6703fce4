package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pricemap-tw/pricemap/pkg/constants"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g.
// PRICEMAP_BACKEND_URL.
const EnvPrefix = "PRICEMAP"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Backend: postgrest, postgres or memory
	Backend     string
	BackendURL  string
	BackendKey  string
	DatabaseURL string
	Fixture     string

	// Directory behavior
	HistoryLimit    int
	RefreshTimeout  time.Duration
	RefreshInterval time.Duration
	AddressSearch   bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (PRICEMAP_*)
// 3. .env files
// 4. Config file (~/.pricemap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv(EnvPrefix + "_CONFIG"))
}

func loadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".pricemap")
	}

	// Read config file (a missing default file is fine)
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && configFile != "" {
			return nil, err
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Backend:     strings.ToLower(v.GetString("backend")),
		BackendURL:  v.GetString("backend_url"),
		BackendKey:  v.GetString("backend_key"),
		DatabaseURL: v.GetString("database_url"),
		Fixture:     v.GetString("fixture"),

		HistoryLimit:    v.GetInt("history_limit"),
		RefreshTimeout:  v.GetDuration("refresh_timeout"),
		RefreshInterval: v.GetDuration("refresh_interval"),
		AddressSearch:   v.GetBool("address_search"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "postgrest")
	v.SetDefault("backend_url", constants.DefaultBackendURL)
	v.SetDefault("history_limit", constants.PriceHistoryLimit)
	v.SetDefault("refresh_timeout", constants.RefreshTimeout)
	v.SetDefault("refresh_interval", constants.DefaultRefreshInterval)
	v.SetDefault("address_search", false)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables already set, so .env.local only
// fills what .env left unset.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
