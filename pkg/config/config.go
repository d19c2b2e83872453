package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// RateLimit is an ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	// RecurrenceEnabled turns the background generation ticker on.
	RecurrenceEnabled bool
	// RecurrenceInterval is how often the ticker checks for due patterns.
	RecurrenceInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("RECURRENCE_ENABLED", true)
	viper.SetDefault("RECURRENCE_INTERVAL", "1h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.RecurrenceEnabled = viper.GetBool("RECURRENCE_ENABLED")

	intervalStr := viper.GetString("RECURRENCE_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		interval = time.Hour
		log.Printf("Warning: Invalid value for RECURRENCE_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
	}
	cfg.RecurrenceInterval = interval

	return cfg, nil
}
