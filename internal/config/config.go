package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	APIKey string // API key for authentication

	WheelConfigPath string
	HistoryLimit    int
	DeadLetterPath  string

	// SpinCooldown overrides the 24h free-spin window; zero means the
	// default. Intended for staging only.
	SpinCooldown time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "dev"),
		Version:         getEnv("VERSION", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBName:          getEnv("DB_NAME", "wheelhouse"),
		APIKey:          getEnv("API_KEY", ""),
		WheelConfigPath: getEnv("WHEEL_CONFIG_PATH", "configs/wheel.json"),
		DeadLetterPath:  getEnv("DEAD_LETTER_PATH", "wheel_events.deadletter"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	limitStr := getEnv("WHEEL_HISTORY_LIMIT", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("invalid WHEEL_HISTORY_LIMIT value: %q", limitStr)
	}
	cfg.HistoryLimit = limit

	if cdStr := getEnv("WHEEL_SPIN_COOLDOWN", ""); cdStr != "" {
		cd, err := time.ParseDuration(cdStr)
		if err != nil || cd <= 0 {
			return nil, fmt.Errorf("invalid WHEEL_SPIN_COOLDOWN value: %q", cdStr)
		}
		cfg.SpinCooldown = cd
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
