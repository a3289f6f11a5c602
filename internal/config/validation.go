package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/texbuilder/internal/foundation/errors"
)

// Validate checks a defaulted configuration. Errors are classified as validation errors.
func Validate(cfg *Config) error {
	var problems []string
	add := func(format string, args ...any) { problems = append(problems, fmt.Sprintf(format, args...)) }

	if cfg.Document == "" {
		add("document must not be empty")
	} else if filepath.Base(cfg.Document) != cfg.Document {
		add("document must be a file name inside work_dir, got %q", cfg.Document)
	}
	if cfg.LogFile == "" {
		add("log_file must not be empty")
	}
	if cfg.SearchPath.Variable == "" {
		add("search_path.variable must not be empty")
	}
	if !strings.HasPrefix(cfg.Bibliography.Extension, ".") {
		add("bibliography.extension must start with '.', got %q", cfg.Bibliography.Extension)
	}
	engines := []struct {
		name string
		cfg  EngineConfig
	}{
		{"primary", cfg.Engines.Primary},
		{"bibliography", cfg.Engines.Bibliography},
		{"fallback", cfg.Engines.Fallback},
	}
	for _, e := range engines {
		if strings.TrimSpace(e.cfg.Binary) == "" {
			add("engines.%s.binary must not be empty", e.name)
		}
	}
	if mode, err := ParseOpenMode(string(cfg.Open.Mode)); err != nil {
		add("open.mode: %v", err)
	} else {
		cfg.Open.Mode = mode
	}
	if cfg.Watch.Debounce != "" {
		if d, err := time.ParseDuration(cfg.Watch.Debounce); err != nil || d <= 0 {
			add("watch.debounce must be a positive duration, got %q", cfg.Watch.Debounce)
		}
	}
	if cfg.Watch.Interval != "" {
		if d, err := time.ParseDuration(cfg.Watch.Interval); err != nil || d < time.Second {
			add("watch.interval must be a duration of at least 1s, got %q", cfg.Watch.Interval)
		}
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))

	if len(problems) == 0 {
		return nil
	}
	return ferrors.ValidationError("invalid configuration").
		WithCause(fmt.Errorf("%s", strings.Join(problems, "; "))).
		WithContext("problems", len(problems)).
		Build()
}
