package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"SCANMASTER_LISTEN_ADDR",
	"SCANMASTER_DB_PATH",
	"SCANMASTER_LOG_LEVEL",
	"SCANMASTER_GEMINI_API_KEY",
	"SCANMASTER_GEMINI_MODEL",
	"SCANMASTER_GEMINI_ENDPOINT",
	"SCANMASTER_SUMMARY_TIMEOUT",
	"SCANMASTER_DEBOUNCE_WINDOW",
	"SCANMASTER_LINK_PREVIEW",
	"API_KEY",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SCANMASTER_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("SCANMASTER_DB_PATH", "/tmp/test.db")
	t.Setenv("SCANMASTER_LOG_LEVEL", "DEBUG")
	t.Setenv("SCANMASTER_GEMINI_API_KEY", " key-123 ")
	t.Setenv("SCANMASTER_GEMINI_MODEL", "gemini-test")
	t.Setenv("SCANMASTER_GEMINI_ENDPOINT", "http://localhost:9999/v1/")
	t.Setenv("SCANMASTER_SUMMARY_TIMEOUT", "5s")
	t.Setenv("SCANMASTER_DEBOUNCE_WINDOW", "500ms")
	t.Setenv("SCANMASTER_LINK_PREVIEW", "false")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "key-123", cfg.GeminiAPIKey)
	assert.True(t, cfg.HasGeminiKey())
	assert.Equal(t, "gemini-test", cfg.GeminiModel)
	assert.Equal(t, "http://localhost:9999/v1", cfg.GeminiEndpoint)
	assert.Equal(t, 5*time.Second, cfg.SummaryTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
	assert.False(t, cfg.LinkPreview)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
	assert.Equal(t, DefaultGeminiEndpoint, cfg.GeminiEndpoint)
	assert.Equal(t, 20*time.Second, cfg.SummaryTimeout)
	assert.Equal(t, 3*time.Second, cfg.DebounceWindow)
	assert.True(t, cfg.LinkPreview)
	assert.False(t, cfg.HasGeminiKey())
}

func TestLoad_APIKeyFallback(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("API_KEY", "fallback-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.GeminiAPIKey)

	t.Setenv("SCANMASTER_GEMINI_API_KEY", "primary-key")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.GeminiAPIKey)
}

// TestLoad_ZeroDebounceWindow verifies that zero is accepted and means
// "suppress while displayed".
func TestLoad_ZeroDebounceWindow(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SCANMASTER_DEBOUNCE_WINDOW", "0s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.DebounceWindow)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		errMsg string
	}{
		{"bad timeout", "SCANMASTER_SUMMARY_TIMEOUT", "soon", "SCANMASTER_SUMMARY_TIMEOUT has invalid duration"},
		{"zero timeout", "SCANMASTER_SUMMARY_TIMEOUT", "0s", "must be positive"},
		{"bad window", "SCANMASTER_DEBOUNCE_WINDOW", "3", "SCANMASTER_DEBOUNCE_WINDOW has invalid duration"},
		{"negative window", "SCANMASTER_DEBOUNCE_WINDOW", "-1s", "must not be negative"},
		{"bad bool", "SCANMASTER_LINK_PREVIEW", "maybe", "invalid boolean"},
		{"bad level", "SCANMASTER_LOG_LEVEL", "verbose", "invalid level"},
		{"empty addr", "SCANMASTER_LISTEN_ADDR", "", "SCANMASTER_LISTEN_ADDR must not be empty"},
		{"empty db", "SCANMASTER_DB_PATH", "", "SCANMASTER_DB_PATH must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
