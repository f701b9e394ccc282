// Package config defines the InsuraIQ configuration model and its loader.
// All tunable parameters of the platform live here; components receive the
// sub-struct they need rather than the whole Config.
package config

import (
	"fmt"
	"time"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// Config is the root configuration for the InsuraIQ platform.
type Config struct {
	App        AppConfig         `mapstructure:"app"`
	Server     ServerConfig      `mapstructure:"server"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Redis      RedisConfig       `mapstructure:"redis"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	Storage    StorageConfig     `mapstructure:"storage"`
	Extraction ExtractionConfig  `mapstructure:"extraction"`
	Quotes     QuotesConfig      `mapstructure:"quotes"`
	Auth       AuthConfig        `mapstructure:"auth"`
	Monitoring MonitoringConfig  `mapstructure:"monitoring"`
	Log        logging.LogConfig `mapstructure:"log"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// Addr returns the host:port address the server binds to.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig holds Redis connection and cache settings.
type RedisConfig struct {
	// Enabled switches the comparison result cache on. When false the
	// service runs with a no-op cache.
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// DefaultTTL is the base lifetime for cached comparison and scoring
	// results; a small jitter is applied on top of it.
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// KafkaConfig holds Kafka producer settings.
type KafkaConfig struct {
	Brokers        []string      `mapstructure:"brokers"`
	Enabled        bool          `mapstructure:"enabled"`
	ExtractedTopic string        `mapstructure:"extracted_topic"`
	ComparedTopic  string        `mapstructure:"compared_topic"`
	BatchTimeout   time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// StorageConfig holds MinIO object storage settings for uploaded documents.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Enabled   bool   `mapstructure:"enabled"`
}

// ExtractionConfig tunes the document extraction pipeline.
type ExtractionConfig struct {
	// Adapter selects the optional AI enrichment backend: "disabled" or
	// "gemini".  The rule-based extractor always runs regardless.
	Adapter string `mapstructure:"adapter"`
	// GeminiAPIKey authenticates against the Generative Language API.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	// GeminiModel names the model used for enrichment.
	GeminiModel string `mapstructure:"gemini_model"`
	// TruncationBudget caps the number of document characters sent to the
	// adapter in a single request.
	TruncationBudget int `mapstructure:"truncation_budget"`
	// AdapterTimeout bounds a single adapter call.
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
}

// QuotesConfig tunes the external quote aggregation source.
type QuotesConfig struct {
	// ExternalURL is the endpoint of the external quote source.  When empty
	// the deterministic built-in generator serves all quote requests.
	ExternalURL string `mapstructure:"external_url"`
	// APIKey is sent to the external source as a bearer token.
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	// APIKey protects mutating endpoints when non-empty.  Requests must
	// present it in the X-API-Key header.
	APIKey string `mapstructure:"api_key"`
	// DefaultOwner is the owner identity assigned to requests when no
	// authenticated subject is available.
	DefaultOwner string `mapstructure:"default_owner"`
}

// MonitoringConfig holds metrics exposure settings.
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

// ApplyDefaults fills in zero-valued fields with sane defaults so a minimal
// configuration file (or none at all) still yields a runnable service.
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "insuraiq"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.Version == "" {
		c.App.Version = "dev"
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 32 << 20 // 32 MiB
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "insuraiq"
	}
	if c.Database.Database == "" {
		c.Database.Database = "insuraiq"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 20
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = 2
	}
	if c.Database.MaxConnLifetime == 0 {
		c.Database.MaxConnLifetime = time.Hour
	}
	if c.Database.MaxConnIdleTime == 0 {
		c.Database.MaxConnIdleTime = 30 * time.Minute
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.DefaultTTL == 0 {
		c.Redis.DefaultTTL = 10 * time.Minute
	}

	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.ExtractedTopic == "" {
		c.Kafka.ExtractedTopic = "policy.extracted"
	}
	if c.Kafka.ComparedTopic == "" {
		c.Kafka.ComparedTopic = "policy.compared"
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = 100 * time.Millisecond
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 5 * time.Second
	}

	if c.Storage.Endpoint == "" {
		c.Storage.Endpoint = "localhost:9000"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "insuraiq-documents"
	}

	if c.Extraction.Adapter == "" {
		c.Extraction.Adapter = "disabled"
	}
	if c.Extraction.GeminiModel == "" {
		c.Extraction.GeminiModel = "gemini-1.5-flash"
	}
	if c.Extraction.TruncationBudget == 0 {
		c.Extraction.TruncationBudget = 12000
	}
	if c.Extraction.AdapterTimeout == 0 {
		c.Extraction.AdapterTimeout = 20 * time.Second
	}

	if c.Quotes.Timeout == 0 {
		c.Quotes.Timeout = 10 * time.Second
	}

	if c.Auth.DefaultOwner == "" {
		c.Auth.DefaultOwner = "demo-user"
	}

	if c.Monitoring.MetricsPath == "" {
		c.Monitoring.MetricsPath = "/metrics"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks cross-field consistency.  It is called after ApplyDefaults,
// so only genuinely invalid values can fail here.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("config: unknown app.environment %q", c.App.Environment)
	}
	switch c.Extraction.Adapter {
	case "disabled", "gemini":
	default:
		return fmt.Errorf("config: unknown extraction.adapter %q", c.Extraction.Adapter)
	}
	if c.Extraction.Adapter == "gemini" && c.Extraction.GeminiAPIKey == "" {
		return fmt.Errorf("config: extraction.adapter is gemini but no gemini_api_key set")
	}
	if c.Extraction.TruncationBudget < 0 {
		return fmt.Errorf("config: extraction.truncation_budget must be non-negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("config: database.max_conns (%d) < min_conns (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
