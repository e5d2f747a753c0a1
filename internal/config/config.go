// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Validation ValidationConfig
}

type ServerConfig struct {
	GRPCPort         string
	Environment      string
	EnableReflection bool
	AutoMigrate      bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ValidationConfig bounds the request fields checked by the
// validation interceptor before a request reaches the service.
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			GRPCPort:         getEnv("GRPC_PORT", "50051"),
			Environment:      getEnv("ENVIRONMENT", "development"),
			EnableReflection: getEnvAsBool("GRPC_ENABLE_REFLECTION", true),
			AutoMigrate:      getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "labflow"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Validation: ValidationConfig{
			MaxTitleLength:       getEnvAsInt("VALIDATION_MAX_TITLE_LENGTH", 200),
			MaxDescriptionLength: getEnvAsInt("VALIDATION_MAX_DESCRIPTION_LENGTH", 5000),
		},
	}, nil
}

// ValidateConfig checks the loaded configuration for values the
// server cannot start with.
func (c *Config) ValidateConfig() error {
	if c.Server.GRPCPort == "" {
		return fmt.Errorf("GRPC_PORT must not be empty")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST must not be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("DB_NAME must not be empty")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be a valid port, got %d", c.Database.Port)
	}
	if c.Validation.MaxTitleLength <= 0 {
		return fmt.Errorf("VALIDATION_MAX_TITLE_LENGTH must be positive")
	}
	if c.Validation.MaxDescriptionLength <= 0 {
		return fmt.Errorf("VALIDATION_MAX_DESCRIPTION_LENGTH must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
