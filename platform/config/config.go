// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	ShouldRunMigrations() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// ProspectorConfig provides settings for the external prospecting engine.
type ProspectorConfig interface {
	GetProspectorURL() string
	GetProspectorTimeout() time.Duration
}

// CampaignConfig provides settings for the campaign orchestrator.
type CampaignConfig interface {
	GetCampaignConcurrency() int
}

// SchedulerConfig provides settings for asynchronous campaign runs.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueue() string
	GetAsynqConcurrency() int
	IsSchedulerEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketDossiers() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	RunMigrations       bool
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	ProspectorURL       string
	ProspectorTimeout   time.Duration
	CampaignConcurrency int
	RedisURL            string
	RedisTLSInsecure    bool
	AsynqQueue          string
	AsynqConcurrency    int
	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinioBucketDossiers string
}

// DatabaseConfig
func (c *Config) GetDatabaseURL() string    { return c.DatabaseURL }
func (c *Config) ShouldRunMigrations() bool { return c.RunMigrations }

// HTTPConfig
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// ProspectorConfig
func (c *Config) GetProspectorURL() string            { return c.ProspectorURL }
func (c *Config) GetProspectorTimeout() time.Duration { return c.ProspectorTimeout }

// CampaignConfig
func (c *Config) GetCampaignConcurrency() int { return c.CampaignConcurrency }

// SchedulerConfig
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueue() string     { return c.AsynqQueue }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

// MinIOConfig
func (c *Config) GetMinIOEndpoint() string       { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string      { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string      { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool           { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketDossiers() string { return c.MinioBucketDossiers }
func (c *Config) IsMinIOEnabled() bool           { return c.MinIOEndpoint != "" }

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Env, "development") }

// Load reads configuration from environment variables.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	prospectorURL := getEnv("PROSPECTOR_URL", "")
	if prospectorURL == "" {
		prospectorURL = getEnv("AI_ENGINE_URL", "http://localhost:8000")
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":5000"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RunMigrations:       strings.EqualFold(getEnv("RUN_MIGRATIONS", "true"), "true"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		ProspectorURL:       strings.TrimRight(prospectorURL, "/"),
		ProspectorTimeout:   mustDuration(getEnv("PROSPECTOR_TIMEOUT", "5m")),
		CampaignConcurrency: mustInt(getEnv("CAMPAIGN_CONCURRENCY", "8")),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueue:          getEnv("ASYNQ_QUEUE", "campaigns"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:         strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketDossiers: getEnv("MINIO_BUCKET_DOSSIERS", "campaign-dossiers"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ProspectorTimeout <= 0 {
		return nil, fmt.Errorf("PROSPECTOR_TIMEOUT must be a positive duration")
	}
	if cfg.CampaignConcurrency <= 0 {
		return nil, fmt.Errorf("CAMPAIGN_CONCURRENCY must be a positive integer")
	}
	if cfg.AsynqConcurrency <= 0 {
		return nil, fmt.Errorf("ASYNQ_CONCURRENCY must be a positive integer")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.MinIOEndpoint != "" && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
