package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL         string        // Reclamos backend REST API base URL
	APITimeout         time.Duration // Per-request timeout against the backend
	Port               string        // Service port
	SessionIdleTimeout time.Duration // Server-side session idle timeout
	CSRFSecret         string        // Secret for session-bound CSRF tokens
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8080"),
		APITimeout:         5 * time.Second,
		Port:               getEnv("PORT", "8888"),
		SessionIdleTimeout: 30 * time.Minute,
		CSRFSecret:         getEnv("CSRF_SECRET", ""),
	}

	// Parse SESSION_IDLE_TIMEOUT if provided
	if timeoutStr := os.Getenv("SESSION_IDLE_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT format: %w", err)
		}
		config.SessionIdleTimeout = duration
	}

	// Parse API_TIMEOUT if provided
	if timeoutStr := os.Getenv("API_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid API_TIMEOUT format: %w", err)
		}
		config.APITimeout = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}

	if c.CSRFSecret == "" {
		return fmt.Errorf("CSRF_SECRET cannot be empty")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
