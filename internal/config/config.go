package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// OIDC
	AuthDomain   string
	AuthAudience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Archive maintenance
	ArchiveRecalculateBudgets bool

	// S3 Storage (avatars)
	S3 S3Config
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AuthDomain:   getEnv("AUTH_DOMAIN", ""),
		AuthAudience: getEnv("AUTH_AUDIENCE", ""),
		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:          getEnv("ENV", "development"),

		ArchiveRecalculateBudgets: getEnv("ARCHIVE_RECALCULATE_BUDGETS", "true") != "false",

		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "centsible-avatars"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AuthDomain == "" {
		return fmt.Errorf("AUTH_DOMAIN is required")
	}
	if c.AuthAudience == "" {
		return fmt.Errorf("AUTH_AUDIENCE is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
