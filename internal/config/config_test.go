package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesTemplatesInEmptyDir(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Analysis.MinTrades)
	assert.Equal(t, "USD", cfg.Journal.Currency)
	assert.False(t, cfg.Enrichment.Enabled)

	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err, "a template config.toml is written on first run")
	_, err = os.Stat(filepath.Join(dir, "credentials.toml"))
	assert.NoError(t, err, "a template credentials.toml is written on first run")

	info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "credentials stay user-only")
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[journal]
currency = "EUR"

[analysis]
min_trades = 10
grid_start_hour = 8
grid_end_hour = 16

[enrichment]
enabled = true
model = "gpt-4o"
timeout = "45s"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Journal.Currency)
	assert.Equal(t, 10, cfg.Analysis.MinTrades)
	assert.Equal(t, 8, cfg.Analysis.GridStartHour)
	assert.True(t, cfg.Enrichment.Enabled)
	assert.Equal(t, "gpt-4o", cfg.Enrichment.Model)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[analysis]
min_trades = 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TRADEBOOK_DB", "/tmp/override.db")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Credentials.OpenAI.APIKey)
	assert.Equal(t, "/tmp/override.db", cfg.Journal.DatabasePath)
}

func TestValidateGridHours(t *testing.T) {
	cfg := Default()
	cfg.Analysis.GridStartHour = 12
	cfg.Analysis.GridEndHour = 8

	assert.Error(t, cfg.Validate())
}

func TestEnrichmentReady(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.EnrichmentReady())

	cfg.Enrichment.Enabled = true
	assert.False(t, cfg.EnrichmentReady(), "enabled without credentials is not ready")

	cfg.Credentials.OpenAI.APIKey = "sk-test"
	assert.True(t, cfg.EnrichmentReady())
}
