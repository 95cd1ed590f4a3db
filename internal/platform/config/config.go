package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Movement limits
	MinDeposit decimal.Decimal
	MaxDeposit decimal.Decimal
	UndoWindow time.Duration

	// Fee policy cache
	FeeCacheTTL time.Duration

	// Rate limiting, e.g. "100-M" for 100 requests per minute per IP
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIN_DEPOSIT", "10")
	viper.SetDefault("MAX_DEPOSIT", "50000")
	viper.SetDefault("UNDO_WINDOW", "15m")
	viper.SetDefault("FEE_CACHE_TTL", "30s")
	viper.SetDefault("RATE_LIMIT", "100-M")

	// Environment variables override defaults and .env file values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	minDeposit, err := decimal.NewFromString(viper.GetString("MIN_DEPOSIT"))
	if err != nil {
		minDeposit = decimal.NewFromInt(10)
		log.Printf("Warning: Invalid value for MIN_DEPOSIT. Defaulting to %s.\n", minDeposit)
	}
	cfg.MinDeposit = minDeposit

	maxDeposit, err := decimal.NewFromString(viper.GetString("MAX_DEPOSIT"))
	if err != nil {
		maxDeposit = decimal.NewFromInt(50000)
		log.Printf("Warning: Invalid value for MAX_DEPOSIT. Defaulting to %s.\n", maxDeposit)
	}
	cfg.MaxDeposit = maxDeposit

	undoWindowStr := viper.GetString("UNDO_WINDOW")
	undoWindow, err := time.ParseDuration(undoWindowStr)
	if err != nil {
		undoWindow = 15 * time.Minute
		if undoWindowStr != "" {
			log.Printf("Warning: Invalid value for UNDO_WINDOW ('%s'). Defaulting to %s.\n", undoWindowStr, undoWindow)
		}
	}
	cfg.UndoWindow = undoWindow

	feeCacheTTLStr := viper.GetString("FEE_CACHE_TTL")
	feeCacheTTL, err := time.ParseDuration(feeCacheTTLStr)
	if err != nil {
		feeCacheTTL = 30 * time.Second
		if feeCacheTTLStr != "" {
			log.Printf("Warning: Invalid value for FEE_CACHE_TTL ('%s'). Defaulting to %s.\n", feeCacheTTLStr, feeCacheTTL)
		}
	}
	cfg.FeeCacheTTL = feeCacheTTL

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
