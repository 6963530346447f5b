// Package config provides configuration management for the ingestion application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "stock-ingest/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Provider ProviderConfig `mapstructure:"provider"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// IngestConfig holds ingestion-related configuration.
type IngestConfig struct {
	Tickers         []string `mapstructure:"tickers"`
	ChunkSize       int      `mapstructure:"chunk_size"`
	IntervalMinutes int      `mapstructure:"interval_minutes"`
}

// ProviderConfig holds upstream data provider configuration.
type ProviderConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stock-ingest"
	}
	return filepath.Join(home, ".config", "stock-ingest")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	return filepath.Join(DefaultConfigDir(), "stockdata.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("creating config template: %w", err)
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	// An empty path in the template means "use the default location".
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDBPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ingest.tickers", []string{"AAPL", "MSFT", "GOOGL", "AMZN"})
	v.SetDefault("ingest.chunk_size", 3)
	v.SetDefault("ingest.interval_minutes", 10)
	v.SetDefault("provider.endpoint", "https://query2.finance.yahoo.com")
	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("database.path", DefaultDBPath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKINGEST_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("STOCKINGEST_ENDPOINT"); v != "" {
		cfg.Provider.Endpoint = v
	}
	if v := os.Getenv("STOCKINGEST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STOCKINGEST_TICKERS"); v != "" {
		var tickers []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tickers = append(tickers, t)
			}
		}
		if len(tickers) > 0 {
			cfg.Ingest.Tickers = tickers
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ingest.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk_size must be at least 1", apperrors.ErrConfigInvalid)
	}
	if c.Ingest.IntervalMinutes < 1 {
		return fmt.Errorf("%w: interval_minutes must be at least 1", apperrors.ErrConfigInvalid)
	}
	if c.Provider.TimeoutSeconds < 1 {
		return fmt.Errorf("%w: timeout_seconds must be at least 1", apperrors.ErrConfigInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", apperrors.ErrConfigInvalid, c.Logging.Level)
	}
	return nil
}
