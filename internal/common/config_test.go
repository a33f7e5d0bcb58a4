package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Indonesian", cfg.Analysis.Language)
	assert.Equal(t, 100, cfg.Analysis.ChatWordLimit)
	assert.Equal(t, "https://eodhd.com/api", cfg.Clients.EODHD.BaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saham.toml")
	content := `
environment = "production"

[server]
port = 9090

[analysis]
language = "English"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "English", cfg.Analysis.Language)
	// Untouched values keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 14, cfg.Analysis.NewsRecency)
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/saham.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SAHAM_PORT", "7070")
	t.Setenv("SAHAM_LANGUAGE", "English")
	t.Setenv("SAHAM_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "English", cfg.Analysis.Language)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SAHAM_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	// Missing everywhere is an error
	_, err := ResolveAPIKey("gemini_api_key", "")
	assert.Error(t, err)

	// Config fallback
	key, err := ResolveAPIKey("gemini_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)

	// Environment wins over config
	t.Setenv("GEMINI_API_KEY", "from-env")
	key, err = ResolveAPIKey("gemini_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestEODHDTimeout(t *testing.T) {
	cfg := EODHDConfig{Timeout: "5s"}
	assert.Equal(t, "5s", cfg.GetTimeout().String())

	broken := EODHDConfig{Timeout: "not-a-duration"}
	assert.Equal(t, "30s", broken.GetTimeout().String())
}
