package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/rezonia/fatturapa-exporter/internal/logger"
)

// Config holds service and CLI settings resolved from the environment
type Config struct {
	// HTTP server
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	// Batch export
	BatchWorkers int

	// Signing key pair (PEM). Both or neither.
	SignCert string
	SignKey  string

	// Verification roots (PEM bundle)
	TrustRoots string

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads an optional .env file from the working directory, then the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	logDefaults := logger.DefaultConfig()
	cfg := &Config{
		Address:       getEnv("FATTURAPA_ADDR", ":8080"),
		ReadTimeout:   getEnvDuration("FATTURAPA_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:  getEnvDuration("FATTURAPA_WRITE_TIMEOUT", 30*time.Second),
		Debug:         getEnvBool("FATTURAPA_DEBUG", false),
		BatchWorkers:  getEnvInt("FATTURAPA_BATCH_WORKERS", 4),
		SignCert:      getEnv("FATTURAPA_SIGN_CERT", ""),
		SignKey:       getEnv("FATTURAPA_SIGN_KEY", ""),
		TrustRoots:    getEnv("FATTURAPA_TRUST_ROOTS", ""),
		LogLevel:      getEnv("LOG_LEVEL", logDefaults.Level),
		LogFormat:     getEnv("LOG_FORMAT", logDefaults.Format),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", logDefaults.TimeFormat),
		LogOutput:     getEnv("LOG_OUTPUT", logDefaults.Output),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.BatchWorkers < 1 {
		return fmt.Errorf("FATTURAPA_BATCH_WORKERS must be at least 1, got %d", c.BatchWorkers)
	}
	if (c.SignCert == "") != (c.SignKey == "") {
		return fmt.Errorf("FATTURAPA_SIGN_CERT and FATTURAPA_SIGN_KEY must be set together")
	}
	return nil
}

// SigningEnabled reports whether a signing key pair is configured
func (c *Config) SigningEnabled() bool {
	return c.SignCert != "" && c.SignKey != ""
}

// LoggerConfig returns a logger configuration from the main config
func (c *Config) LoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
