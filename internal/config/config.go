package config

import (
	"os"
	"strconv"
	"time"

	"pricecompare/domain/pricing"
	"pricecompare/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Sheet   SheetConfig
	Upload  UploadConfig
	Session SessionConfig
	Chart   ChartConfig
	Log     LogConfig
}

// ServerConfig holds dashboard web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// APIConfig holds JSON API server settings
type APIConfig struct {
	Port    string
	Enabled bool
}

// SheetConfig names the reserved spreadsheet columns
type SheetConfig struct {
	ProductColumn  string
	QuantityColumn string
	QuantityMax    int
	MaxRows        int
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxBytes int64
}

// SessionConfig holds in-memory session settings
type SessionConfig struct {
	TTL        time.Duration
	CookieName string
}

// ChartConfig holds chart rendering settings
type ChartConfig struct {
	FontPath string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8080"),
			GinMode:         getEnvOrDefault("GIN_MODE", "release"),
			ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		API: APIConfig{
			Port:    getEnvOrDefault("API_PORT", "8081"),
			Enabled: getEnvBoolOrDefault("API_ENABLED", true),
		},
		Sheet: SheetConfig{
			ProductColumn:  getEnvOrDefault("PRODUCT_COLUMN", pricing.DefaultProductColumn),
			QuantityColumn: getEnvOrDefault("QUANTITY_COLUMN", pricing.DefaultQuantityColumn),
			QuantityMax:    getEnvIntOrDefault("QUANTITY_MAX", pricing.MaxQuantity),
			MaxRows:        getEnvIntOrDefault("MAX_ROWS", 0),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
		},
		Session: SessionConfig{
			TTL:        getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
			CookieName: getEnvOrDefault("SESSION_COOKIE", "pricecompare_session"),
		},
		Chart: ChartConfig{
			FontPath: getEnvOrDefault("CHART_FONT_PATH", ""),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.API.Enabled && config.API.Port == config.Server.Port {
		return errors.ConfigInvalid("API_PORT must differ from PORT")
	}
	if config.Sheet.ProductColumn == config.Sheet.QuantityColumn {
		return errors.ConfigInvalid("PRODUCT_COLUMN and QUANTITY_COLUMN must differ")
	}
	if config.Sheet.QuantityMax <= 0 {
		return errors.ConfigInvalid("QUANTITY_MAX must be positive")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Chart.FontPath != "" {
		if _, err := os.Stat(config.Chart.FontPath); err != nil {
			return errors.ConfigInvalid("CHART_FONT_PATH does not exist: " + config.Chart.FontPath)
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
