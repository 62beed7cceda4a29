package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Storage   StorageConfig
	Ingestion IngestionConfig
	RemoteAPI RemoteAPIConfig
	Server    ServerConfig
	Log       LogConfig
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	Type string `validate:"oneof=csv memory"`
	Path string `validate:"required_if=Type csv"` // Output file for "csv"
}

// IngestionConfig holds pipeline-related configuration
type IngestionConfig struct {
	Mock         bool
	PostsPerPage int `validate:"gte=0"`
}

// RemoteAPIConfig holds the settings a real content API source would use
type RemoteAPIConfig struct {
	BaseURL     string        `validate:"required,url"`
	Version     string        `validate:"required"`
	AccessToken string
	Timeout     time.Duration `validate:"gt=0"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `validate:"gte=1,lte=65535"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn warning error"`
	Format string `validate:"oneof=text json"`
}

var validate = validator.New()

// Default values for the command-line surface
const (
	DefaultPostsPerPage = 3
	DefaultOutputPath   = "output_posts.csv"
)

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Storage: StorageConfig{
			Type: "csv",
			Path: DefaultOutputPath,
		},
		Ingestion: IngestionConfig{
			PostsPerPage: DefaultPostsPerPage,
		},
		RemoteAPI: RemoteAPIConfig{
			BaseURL:     getEnv("GRAPH_API_URL", "https://graph.facebook.com"),
			Version:     getEnv("GRAPH_API_VERSION", "v19.0"),
			AccessToken: getEnv("GRAPH_API_TOKEN", ""),
			Timeout:     getEnvDuration("API_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}

	return cfg, nil
}

// ValidateRun checks the settings that come from command-line flags.
func (c *Config) ValidateRun() error {
	if err := validate.Struct(c.Ingestion); err != nil {
		return fmt.Errorf("invalid ingestion options: %w", err)
	}
	if err := validate.Struct(c.Storage); err != nil {
		return fmt.Errorf("invalid storage options: %w", err)
	}
	return nil
}

// Validate checks the logger settings taken from the environment
func (c LogConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid logging configuration (LOG_LEVEL, LOG_FORMAT): %w", err)
	}
	return nil
}

// Validate checks the HTTP server settings
func (c ServerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	return nil
}

// Validate checks the content API settings
func (c RemoteAPIConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid remote API configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
