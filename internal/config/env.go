package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvWorkDir  = "TEXBUILDER_WORK_DIR"
	EnvDocument = "TEXBUILDER_DOCUMENT"
	EnvLogLevel = "TEXBUILDER_LOG_LEVEL"
	EnvOpen     = "TEXBUILDER_OPEN"
	EnvMetrics  = "TEXBUILDER_METRICS_TEXTFILE"
)

// loadEnvFiles loads .env and .env.local from dir. Existing process
// environment variables are not overwritten; missing files are skipped.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvWorkDir); v != "" {
		cfg.WorkDir = v
	}
	if v := os.Getenv(EnvDocument); v != "" {
		cfg.Document = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = NormalizeLogLevel(v)
	}
	if v := os.Getenv(EnvOpen); v != "" {
		cfg.Open.Mode = OpenMode(v)
	}
	if v := os.Getenv(EnvMetrics); v != "" {
		cfg.Metrics.Textfile = v
	}
}
