package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for emissions-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Schema document locations
	Schema SchemaConfig `yaml:"schema"`

	// Simulated remote submission behavior
	Submission SubmissionConfig `yaml:"submission"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"emissions"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"emissions_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// SchemaConfig holds the paths of the externally supplied schema documents.
type SchemaConfig struct {
	FormPath           string `yaml:"form_path" env:"FORM_SCHEMA_PATH" env-default:"config/form-config.yaml"`
	IdentificationPath string `yaml:"identification_path" env:"IDENTIFICATION_SCHEMA_PATH" env-default:"config/identification-config.yaml"`
}

// SubmissionConfig controls the simulated remote submission.
type SubmissionConfig struct {
	// DelayMS is the simulated network latency in milliseconds.
	DelayMS int `yaml:"delay_ms" env:"SUBMIT_DELAY_MS" env-default:"2000"`
	// SuccessRate is the probability a submission succeeds (0..1).
	SuccessRate float64 `yaml:"success_rate" env:"SUBMIT_SUCCESS_RATE" env-default:"0.9"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Submission.SuccessRate < 0 || c.Submission.SuccessRate > 1 {
		return fmt.Errorf("submission success_rate must be in [0, 1], got %v", c.Submission.SuccessRate)
	}
	if c.Submission.DelayMS < 0 {
		return fmt.Errorf("submission delay_ms must not be negative, got %d", c.Submission.DelayMS)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
