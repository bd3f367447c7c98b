package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATTER_STATE_DIR", t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Chat.TypingDelay())
	assert.Equal(t, 10*time.Second, cfg.Chat.RequestTimeout())
	assert.Equal(t, "metric", cfg.Weather.Units)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.Weather.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NATTER_STATE_DIR", dir)
	t.Setenv("OPENWEATHER_API_KEY", "")

	path := filepath.Join(dir, "config.toml")
	data := `
[chat]
typing_delay_ms = 50
request_timeout_s = 3

[weather]
api_key = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.Chat.TypingDelay())
	assert.Equal(t, 3*time.Second, cfg.Chat.RequestTimeout())
	assert.Equal(t, "from-file", cfg.Weather.APIKey)
	// Untouched sections keep defaults.
	assert.Equal(t, "https://api.dictionaryapi.dev/api/v2/entries/en", cfg.Dictionary.BaseURL)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NATTER_STATE_DIR", dir)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[weather]\napi_key = \"from-file\"\n"), 0644))

	t.Setenv("OPENWEATHER_API_KEY", "from-env")
	t.Setenv("NATTER_TYPING_DELAY_MS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Weather.APIKey)
	assert.Equal(t, time.Duration(0), cfg.Chat.TypingDelay())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NATTER_STATE_DIR", dir)
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Weather.Units = "imperial"
	require.NoError(t, cfg.Save())

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "imperial", reloaded.Weather.Units)
}
