// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	Port     int
	DevMode  bool
	LogLevel string

	// Base URLs for service-to-service lookups. In a single-process deployment
	// these point back at this server; in a split deployment they point at the
	// owning service.
	PortfolioServiceURL string
	InvestorServiceURL  string

	// JWT settings shared with the gateway middleware
	JWTSecret string
	JWTTTL    time.Duration

	// Secret key required to register internal (admin) users
	AdminRegistrationKey string

	// Archive (S3-compatible) settings; archiving is disabled when Bucket is empty
	Archive ArchiveConfig
}

// ArchiveConfig holds compliance-archive upload configuration
type ArchiveConfig struct {
	Endpoint  string // S3-compatible endpoint URL (empty = AWS default)
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Retention int // Number of archives to keep remotely
}

// Enabled reports whether archive uploads are configured
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("PORTSURE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		Port:                 getEnvAsInt("PORTSURE_PORT", 8080),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		PortfolioServiceURL:  getEnv("PORTFOLIO_SERVICE_URL", "http://localhost:8080"),
		InvestorServiceURL:   getEnv("INVESTOR_SERVICE_URL", "http://localhost:8080"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTL:               getEnvAsDuration("JWT_TTL", 12*time.Hour),
		AdminRegistrationKey: getEnv("ADMIN_REGISTRATION_KEY", ""),
		Archive: ArchiveConfig{
			Endpoint:  getEnv("ARCHIVE_S3_ENDPOINT", ""),
			Region:    getEnv("ARCHIVE_S3_REGION", "auto"),
			Bucket:    getEnv("ARCHIVE_S3_BUCKET", ""),
			AccessKey: getEnv("ARCHIVE_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("ARCHIVE_S3_SECRET_KEY", ""),
			Retention: getEnvAsInt("ARCHIVE_RETENTION", 14),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if !c.DevMode {
			return fmt.Errorf("JWT_SECRET is required outside dev mode")
		}
		// Dev mode gets a fixed secret so tokens survive restarts
		c.JWTSecret = "portsure-dev-secret"
	}
	if c.AdminRegistrationKey == "" && !c.DevMode {
		return fmt.Errorf("ADMIN_REGISTRATION_KEY is required outside dev mode")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
