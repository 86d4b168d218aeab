package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string // sqlite, postgres or mysql
	DatabasePath    string // sqlite only
	DatabaseURL     string // postgres/mysql connection string
	MigrationsPath  string
	StaticFilesPath string

	SessionDuration time.Duration
	SessionSecret   string // signs realtime tickets

	// Optional Redis backplane for multi-process broadcast fan-out.
	// Empty means broadcasts stay process-local.
	RedisURL string

	// Optional SES invite notifications. Disabled when FromEmail is empty.
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./homehub.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		SessionDuration: 30 * 24 * time.Hour,
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		AWSRegion:       getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "HomeHub"),
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
