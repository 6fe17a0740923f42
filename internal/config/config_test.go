package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 2, cfg.Gemini.MaxAttempts)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxFileSize)
	assert.False(t, cfg.Analysis.StoreResults)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ENV", "production")
	t.Setenv("GEMINI_TIMEOUT", "90s")
	t.Setenv("GEMINI_MAX_ATTEMPTS", "3")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("STORE_ANALYSES", "true")
	t.Setenv("WORKER_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 90*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 3, cfg.Gemini.MaxAttempts)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Analysis.StoreResults)
	assert.Equal(t, 8, cfg.Worker.Concurrency)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing api key", env: map[string]string{"GEMINI_API_KEY": ""}},
		{name: "unknown storage driver", env: map[string]string{"GEMINI_API_KEY": "k", "STORAGE_DRIVER": "redis"}},
		{name: "zero attempts", env: map[string]string{"GEMINI_API_KEY": "k", "GEMINI_MAX_ATTEMPTS": "0"}},
		{name: "non-numeric port", env: map[string]string{"GEMINI_API_KEY": "k", "PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "ats", Password: "secret", DBName: "analyses",
	}}
	assert.Equal(t, "host=db port=5433 user=ats password=secret dbname=analyses sslmode=disable", cfg.GetDatabaseDSN())
}

func TestGeminiConfig_AnalysisBudget(t *testing.T) {
	tests := []struct {
		name string
		cfg  GeminiConfig
		want time.Duration
	}{
		{"single attempt", GeminiConfig{Timeout: 60 * time.Second, MaxAttempts: 1, RetryDelay: 2 * time.Second}, 60 * time.Second},
		{"one retry", GeminiConfig{Timeout: 60 * time.Second, MaxAttempts: 2, RetryDelay: 2 * time.Second}, 122 * time.Second},
		{"three attempts", GeminiConfig{Timeout: 10 * time.Second, MaxAttempts: 3, RetryDelay: 5 * time.Second}, 40 * time.Second},
		{"unset attempts", GeminiConfig{Timeout: 10 * time.Second, RetryDelay: 5 * time.Second}, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.AnalysisBudget())
		})
	}
}
