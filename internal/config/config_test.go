package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrdoc/internal/synthesizer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Tool)
	assert.Equal(t, []string{".php"}, cfg.Extensions)
	assert.Equal(t, []string{".git", "vendor", "node_modules"}, cfg.Ignore)
	assert.Equal(t, "attrdoc.db", cfg.DB)
	assert.Positive(t, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
tool: psalm
root: src
extensions: [.php, .inc]
workers: 3
log:
  level: debug
  file: attrdoc.log
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "psalm", cfg.Tool)
	assert.Equal(t, "src", cfg.Root)
	assert.Equal(t, []string{".php", ".inc"}, cfg.Extensions)
	assert.Equal(t, []string{".git", "vendor", "node_modules"}, cfg.Ignore)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "attrdoc.log", cfg.Log.File)

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, synthesizer.ModePsalm, mode)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ATTRDOC_TOOL", "phpstan")
	t.Setenv("ATTRDOC_LOG_LEVEL", "warn")
	t.Setenv("ATTRDOC_DB", "other.db")
	t.Setenv("ATTRDOC_WORKERS", "2")

	cfg, err := LoadConfig(writeConfig(t, "tool: psalm\n"))
	require.NoError(t, err)
	assert.Equal(t, "phpstan", cfg.Tool)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "other.db", cfg.DB)
	assert.Equal(t, 2, cfg.Workers)

	t.Setenv("ATTRDOC_WORKERS", "many")
	_, err = LoadConfig(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "tool: [unterminated"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.Tool = "phan"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Extensions = nil
	assert.Error(t, cfg.Validate())
}
