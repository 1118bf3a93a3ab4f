package config

import (
	"os"
	"strconv"

	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Source   SourceConfig
	Analysis profile.Config
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds PostgreSQL connection settings. The database source is
// optional: when URL is empty only file-backed layers are available.
type DatabaseConfig struct {
	URL     string
	Schema  string
	SSLMode string
}

// SourceConfig holds file-backed layer settings
type SourceConfig struct {
	// Dir is the directory layer files are resolved against.
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			Schema:  getEnvOrDefault("DB_SCHEMA", "public"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Source: SourceConfig{
			Dir: getEnvOrDefault("LAYER_DIR", "."),
		},
		Analysis: loadAnalysisConfig(),
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// loadAnalysisConfig layers environment overrides onto the analysis defaults.
func loadAnalysisConfig() profile.Config {
	cfg := profile.DefaultConfig()
	cfg.TopValueLimit = getEnvIntOrDefault("TOP_VALUE_LIMIT", cfg.TopValueLimit)
	cfg.Precision = getEnvIntOrDefault("PRECISION", cfg.Precision)
	cfg.NumericShape = getEnvBoolOrDefault("NUMERIC_SHAPE", cfg.NumericShape)
	cfg.NumericPercentiles = getEnvBoolOrDefault("NUMERIC_PERCENTILES", cfg.NumericPercentiles)
	cfg.NumericIntDecimal = getEnvBoolOrDefault("NUMERIC_INT_DECIMAL", cfg.NumericIntDecimal)
	cfg.NumericOutlierDetail = getEnvBoolOrDefault("NUMERIC_OUTLIER_DETAIL", cfg.NumericOutlierDetail)
	cfg.TextCase = getEnvBoolOrDefault("TEXT_CASE", cfg.TextCase)
	cfg.TextRarity = getEnvBoolOrDefault("TEXT_RARITY", cfg.TextRarity)
	cfg.DateTimeDetail = getEnvBoolOrDefault("DATETIME_DETAIL", cfg.DateTimeDetail)
	return cfg.Normalize()
}

func validate(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric: " + c.Server.Port)
	}
	if c.Source.Dir == "" {
		return errors.ConfigInvalid("LAYER_DIR must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
