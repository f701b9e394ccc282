package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_FillsEverything(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, "insuraiq", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Redis.DefaultTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "policy.extracted", cfg.Kafka.ExtractedTopic)
	assert.Equal(t, "policy.compared", cfg.Kafka.ComparedTopic)
	assert.Equal(t, "insuraiq-documents", cfg.Storage.Bucket)
	assert.Equal(t, "disabled", cfg.Extraction.Adapter)
	assert.Equal(t, 12000, cfg.Extraction.TruncationBudget)
	assert.Equal(t, "demo-user", cfg.Auth.DefaultOwner)
	assert.Equal(t, "info", cfg.Log.Level)

	require.NoError(t, cfg.Validate())
}

func TestApplyDefaults_DoesNotOverrideSetValues(t *testing.T) {
	cfg := Config{}
	cfg.Server.Port = 9090
	cfg.Extraction.Adapter = "gemini"
	cfg.Extraction.GeminiAPIKey = "key"
	cfg.ApplyDefaults()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.Extraction.Adapter)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown environment", func(c *Config) { c.App.Environment = "qa" }},
		{"unknown adapter", func(c *Config) { c.Extraction.Adapter = "claude" }},
		{"gemini without key", func(c *Config) {
			c.Extraction.Adapter = "gemini"
			c.Extraction.GeminiAPIKey = ""
		}},
		{"negative truncation budget", func(c *Config) { c.Extraction.TruncationBudget = -1 }},
		{"max conns below min", func(c *Config) {
			c.Database.MaxConns = 1
			c.Database.MinConns = 5
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p",
		Database: "insuraiq", SSLMode: "require",
	}
	assert.Equal(t, "postgres://u:p@db:5433/insuraiq?sslmode=require", c.DSN())
}

func TestLoad_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
app:
  environment: staging
server:
  port: 8081
extraction:
  truncation_budget: 5000
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	t.Setenv("INSURAIQ_SERVER_PORT", "8082")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.App.Environment)
	// Env overrides the file.
	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Extraction.TruncationBudget)
	// Defaults still applied for unset fields.
	assert.Equal(t, "disabled", cfg.Extraction.Adapter)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestIsProduction(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.False(t, cfg.IsProduction())
	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
