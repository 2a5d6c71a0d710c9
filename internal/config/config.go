package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	App      AppConfig
	API      APIConfig
	Keystore KeystoreConfig
	Logging  LoggingConfig
	Refresh  RefreshConfig
}

type AppConfig struct {
	Name        string
	Environment string
}

// APIConfig holds connectivity settings for the To-Dogether backend
type APIConfig struct {
	// Origin is the fixed backend origin, e.g. https://api.todogether.app
	Origin string
	// RequestTimeout is the per-request deadline in seconds, applied when the
	// caller does not supply one
	RequestTimeout int
}

// KeystoreConfig controls where the bearer credentials are persisted
type KeystoreConfig struct {
	// Mode selects the keystore driver: "file", "sqlite" or "memory"
	Mode string
	// Path is the credential file (file mode) or database file (sqlite mode).
	// Empty means a default under the user config directory.
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// RefreshConfig controls the optional background session-refresh job
type RefreshConfig struct {
	// Enabled turns the periodic refresh on
	Enabled bool
	// Schedule is a cron expression, e.g. "@every 15m"
	Schedule string
}

// RequestTimeoutDuration returns the request timeout as duration
func (a *APIConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(a.RequestTimeout) * time.Second
}

// ResolvePath returns the configured keystore path, falling back to a file
// under the user config directory when none is set.
func (k *KeystoreConfig) ResolvePath() (string, error) {
	if k.Path != "" {
		return k.Path, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}

	name := "credentials.json"
	if k.Mode == "sqlite" {
		name = "credentials.db"
	}
	return filepath.Join(base, "todogether", name), nil
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// TODOGETHER_API_ORIGIN is the conventional env var for pointing the
	// client at a different backend
	if origin := v.GetString("TODOGETHER_API_ORIGIN"); origin != "" {
		cfg.API.Origin = origin
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "To-Dogether Client")
	v.SetDefault("app.environment", "development")

	// API defaults
	v.SetDefault("api.origin", "http://localhost:8080")
	v.SetDefault("api.requestTimeout", 30)

	// Keystore defaults
	v.SetDefault("keystore.mode", "file")
	v.SetDefault("keystore.path", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Session refresh defaults (disabled unless explicitly scheduled)
	v.SetDefault("refresh.enabled", false)
	v.SetDefault("refresh.schedule", "@every 15m")
}
