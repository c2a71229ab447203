// Package config loads the two configuration layers spec.md §6 names:
// environment variables for deployment knobs, and an optional YAML file for
// business configuration (default loyalty discount, daily cap). Grounded on
// order_service/main.go's Config/loadConfig/getEnv.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	ServerPort  string
	Environment string

	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	DBName               string
	DBSSLMode            string
	DBMaxConnections     int
	DBMaxIdleConnections int
	DBConnMaxLifetime    time.Duration

	RedisURL string

	Business BusinessConfig
}

// BusinessConfig is the YAML-loaded policy layer spec.md §6 calls out
// explicitly: "default loyalty discount amount (used only if the allowance
// row's max_allowance_per_transaction is absent)".
type BusinessConfig struct {
	DefaultLoyaltyDiscount decimal.Decimal `yaml:"default_loyalty_discount"`
	DailyCap               int64           `yaml:"daily_cap"`
	CatalogCacheTTL        time.Duration   `yaml:"catalog_cache_ttl"`
}

// DefaultBusinessConfig mirrors spec.md's fixed cap of 5 and a conservative
// default discount for when no YAML file is supplied.
func DefaultBusinessConfig() BusinessConfig {
	return BusinessConfig{
		DefaultLoyaltyDiscount: decimal.NewFromFloat(0.50),
		DailyCap:               5,
		CatalogCacheTTL:        60 * time.Second,
	}
}

// Load builds a Config from environment variables plus, if CONFIG_FILE is
// set, a YAML business-configuration file.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", "password"),
		DBName:               getEnv("DB_NAME", "loyalty_engine"),
		DBSSLMode:            getEnv("DB_SSL_MODE", "disable"),
		DBMaxConnections:     getEnvInt("DB_MAX_CONNECTIONS", 25),
		DBMaxIdleConnections: getEnvInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		Business: DefaultBusinessConfig(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		business, err := loadBusinessConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.Business = business
	}

	return cfg, nil
}

func loadBusinessConfig(path string) (BusinessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BusinessConfig{}, err
	}
	cfg := DefaultBusinessConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BusinessConfig{}, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
