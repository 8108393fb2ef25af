package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/config"
)

var keys = []string{
	"FATTURAPA_ADDR", "FATTURAPA_READ_TIMEOUT", "FATTURAPA_WRITE_TIMEOUT", "FATTURAPA_DEBUG",
	"FATTURAPA_BATCH_WORKERS", "FATTURAPA_SIGN_CERT", "FATTURAPA_SIGN_KEY", "FATTURAPA_TRUST_ROOTS",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT", "LOG_OUTPUT",
}

// clearEnv blanks every key for the test; godotenv does not override set variables,
// so blank ones are unset after t.Setenv registers their restore.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.False(t, cfg.SigningEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("FATTURAPA_ADDR", ":9090")
	t.Setenv("FATTURAPA_DEBUG", "true")
	t.Setenv("FATTURAPA_BATCH_WORKERS", "8")
	t.Setenv("FATTURAPA_READ_TIMEOUT", "5s")
	t.Setenv("FATTURAPA_WRITE_TIMEOUT", "not-a-duration")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FATTURAPA_ADDR=:7070\nLOG_LEVEL=debug\nLOG_FORMAT=json\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Address)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over .env")
	assert.Equal(t, "json", cfg.LoggerConfig().Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"valid", config.Config{BatchWorkers: 1}, false},
		{"zero workers", config.Config{BatchWorkers: 0}, true},
		{"cert without key", config.Config{BatchWorkers: 1, SignCert: "cert.pem"}, true},
		{"key without cert", config.Config{BatchWorkers: 1, SignKey: "key.pem"}, true},
		{"full key pair", config.Config{BatchWorkers: 1, SignCert: "cert.pem", SignKey: "key.pem"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_InvalidWorkers(t *testing.T) {
	clearEnv(t)
	t.Setenv("FATTURAPA_BATCH_WORKERS", "0")

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}
