// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values used when the corresponding variable is unset.
const (
	DefaultListenAddr     = "127.0.0.1:8080"
	DefaultDBPath         = "scanmaster.db"
	DefaultGeminiModel    = "gemini-3-flash-preview"
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultSummaryTimeout = 20 * time.Second
	DefaultDebounceWindow = 3 * time.Second
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   slog.Level

	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string

	SummaryTimeout time.Duration
	// DebounceWindow of zero suppresses repeats for as long as a record is
	// displayed.
	DebounceWindow time.Duration
	LinkPreview    bool
}

// HasGeminiKey reports whether summarization can be enabled. Without a key the
// composition root runs with no summarizer and records stay un-annotated.
func (c *Config) HasGeminiKey() bool {
	return c.GeminiAPIKey != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional: SCANMASTER_LISTEN_ADDR (127.0.0.1:8080),
// SCANMASTER_DB_PATH (scanmaster.db), SCANMASTER_LOG_LEVEL (info),
// SCANMASTER_GEMINI_API_KEY (falls back to API_KEY), SCANMASTER_GEMINI_MODEL,
// SCANMASTER_GEMINI_ENDPOINT, SCANMASTER_SUMMARY_TIMEOUT (20s),
// SCANMASTER_DEBOUNCE_WINDOW (3s) and SCANMASTER_LINK_PREVIEW (true).
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     lookup("SCANMASTER_LISTEN_ADDR", DefaultListenAddr),
		DBPath:         lookup("SCANMASTER_DB_PATH", DefaultDBPath),
		GeminiAPIKey:   strings.TrimSpace(os.Getenv("SCANMASTER_GEMINI_API_KEY")),
		GeminiModel:    lookup("SCANMASTER_GEMINI_MODEL", DefaultGeminiModel),
		GeminiEndpoint: strings.TrimRight(lookup("SCANMASTER_GEMINI_ENDPOINT", DefaultGeminiEndpoint), "/"),
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	}

	level, err := parseLevel(lookup("SCANMASTER_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.SummaryTimeout, err = durationVar("SCANMASTER_SUMMARY_TIMEOUT", DefaultSummaryTimeout); err != nil {
		return nil, err
	}
	if cfg.SummaryTimeout <= 0 {
		return nil, fmt.Errorf("SCANMASTER_SUMMARY_TIMEOUT must be positive, got %s", cfg.SummaryTimeout)
	}
	if cfg.DebounceWindow, err = durationVar("SCANMASTER_DEBOUNCE_WINDOW", DefaultDebounceWindow); err != nil {
		return nil, err
	}
	if cfg.DebounceWindow < 0 {
		return nil, fmt.Errorf("SCANMASTER_DEBOUNCE_WINDOW must not be negative, got %s", cfg.DebounceWindow)
	}

	cfg.LinkPreview = true
	if v, ok := os.LookupEnv("SCANMASTER_LINK_PREVIEW"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SCANMASTER_LINK_PREVIEW has invalid boolean %q: %w", v, err)
		}
		cfg.LinkPreview = parsed
	}

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("SCANMASTER_LISTEN_ADDR must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("SCANMASTER_DB_PATH must not be empty")
	}
	return cfg, nil
}

func lookup(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func durationVar(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	return parsed, nil
}

func parseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("SCANMASTER_LOG_LEVEL has invalid level %q: want debug, info, warn or error", v)
}
