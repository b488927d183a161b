package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() *Config {
	return &Config{
		Port:            "8390",
		Env:             "development",
		StorageBackend:  BackendDatabase,
		DBDriver:        "postgres",
		DBPassword:      "password",
		SessionTTLHours: 24,
	}
}

func TestValidate(t *testing.T) {
	t.Run("development defaults pass", func(t *testing.T) {
		assert.NoError(t, baseConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown storage backend", func(t *testing.T) {
		cfg := baseConfig()
		cfg.StorageBackend = "cloud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("memory backend allowed outside production", func(t *testing.T) {
		cfg := baseConfig()
		cfg.StorageBackend = BackendMemory
		cfg.DBDriver = "sqlite"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DBDriver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive session ttl", func(t *testing.T) {
		cfg := baseConfig()
		cfg.SessionTTLHours = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects memory backend", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.StorageBackend = BackendMemory
		cfg.DBPassword = "s3cure-Enough!"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects sqlite", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.DBDriver = "sqlite"
		cfg.DBPassword = "s3cure-Enough!"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects default password", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production with strong password passes", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.DBPassword = "s3cure-Enough!"
		assert.NoError(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	cfg := baseConfig()
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.True(t, cfg.IsProduction())

	cfg.Env = "prod"
	assert.True(t, cfg.IsProduction())
}
