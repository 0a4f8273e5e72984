package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Chdir(dir)
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, "")

	cfg, err := Load("v1.2.3")

	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "config/form-config.yaml", cfg.Schema.FormPath)
	assert.Equal(t, 2000, cfg.Submission.DelayMS)
	assert.Equal(t, 0.9, cfg.Submission.SuccessRate)
	assert.Equal(t, int32(10), cfg.Database.MaxConnections)
}

func TestLoad_YAMLValues(t *testing.T) {
	writeConfig(t, `
port: "9090"
env: production
database:
  host: db.internal
  database: emissions_prod
submission:
  delay_ms: 500
  success_rate: 1.0
`)

	cfg, err := Load("dev")

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 500, cfg.Submission.DelayMS)
	assert.Equal(t, 1.0, cfg.Submission.SuccessRate)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeConfig(t, `port: "9090"`)
	t.Setenv("PORT", "7070")
	t.Setenv("PGPASSWORD", "secret")

	cfg, err := Load("dev")

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoad_RejectsBadSuccessRate(t *testing.T) {
	writeConfig(t, `
submission:
  success_rate: 1.5
`)

	_, err := Load("dev")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "success_rate")
}

func TestLoad_RejectsNegativeDelay(t *testing.T) {
	writeConfig(t, `
submission:
  delay_ms: -1
`)

	_, err := Load("dev")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay_ms")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("dev")

	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "emissions",
		Password: "pw",
		Database: "emissions_engine",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=emissions password=pw dbname=emissions_engine sslmode=disable",
		cfg.ConnectionString())
}
