// Package config loads application configuration from environment
// variables with sensible defaults. A .env file, when present, is read
// by cmd/server before this package runs.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultPort     = 3000
	DefaultLogLevel = "info"
	DefaultDataDir  = "data"
	DefaultModel    = "gemini-flash-latest"

	// Stale processing records older than this are swept to failed.
	DefaultSweepInterval = time.Minute
	DefaultSweepMaxAge   = 30 * time.Minute

	DBFilename = "reelscope.db"
)

// Config holds all runtime settings.
type Config struct {
	Port     int
	LogLevel string
	DataDir  string

	GeminiAPIKey string
	GeminiModel  string

	// Optional Netscape cookie file for restricted social hosts.
	// A missing file silently degrades to the unauthenticated strategy.
	InstagramCookieFile string

	// Directory holding the sherpa-onnx model; empty or missing disables
	// transcription (placeholder transcript is used instead).
	ASRModelDir string

	SweepInterval time.Duration
	SweepMaxAge   time.Duration
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:                envInt("PORT", DefaultPort),
		LogLevel:            envString("LOG_LEVEL", DefaultLogLevel),
		DataDir:             envString("DATA_DIR", DefaultDataDir),
		GeminiAPIKey:        envString("GEMINI_API_KEY", ""),
		GeminiModel:         envString("GEMINI_MODEL", DefaultModel),
		InstagramCookieFile: envString("INSTAGRAM_COOKIE_FILE", ""),
		ASRModelDir:         envString("ASR_MODEL_DIR", ""),
		SweepInterval:       envDuration("SWEEP_INTERVAL", DefaultSweepInterval),
		SweepMaxAge:         envDuration("SWEEP_MAX_AGE", DefaultSweepMaxAge),
	}
}

// DBPath returns the SQLite database path under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFilename)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
