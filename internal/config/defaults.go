package config

import "time"

const (
	defaultDocument      = "main.tex"
	defaultLogFile       = "compilation_log.txt"
	defaultSearchPathVar = "TEXINPUTS"
	defaultBibDirectory  = "Bibliography"
	defaultBibExtension  = ".bib"
	defaultViewer        = `C:\Program Files\Google\Chrome\Application\chrome.exe`

	// DefaultDebounce is used when watch.debounce is empty.
	DefaultDebounce = 300 * time.Millisecond
)

var defaultSearchDirs = []string{"Styles", "Figures", "Content"}

// applyDefaults fills zero values. It never overrides explicit settings.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.Document == "" {
		cfg.Document = defaultDocument
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	if cfg.SearchPath.Variable == "" {
		cfg.SearchPath.Variable = defaultSearchPathVar
	}
	if cfg.SearchPath.Directories == nil {
		cfg.SearchPath.Directories = append([]string(nil), defaultSearchDirs...)
	}
	if cfg.Bibliography.Directory == "" {
		cfg.Bibliography.Directory = defaultBibDirectory
	}
	if cfg.Bibliography.Extension == "" {
		cfg.Bibliography.Extension = defaultBibExtension
	}

	e := &cfg.Engines
	if e.Primary.Binary == "" {
		e.Primary = EngineConfig{Binary: "pdflatex", Args: []string{"-interaction=nonstopmode", "-file-line-error"}}
	}
	if e.Bibliography.Binary == "" {
		e.Bibliography = EngineConfig{Binary: "bibtex"}
	}
	if e.Fallback.Binary == "" {
		e.Fallback = EngineConfig{Binary: "tectonic", Args: []string{"-X", "compile"}}
	}

	if cfg.Open.Mode == "" {
		cfg.Open.Mode = OpenAuto
	}
	if cfg.Open.Viewer == "" {
		cfg.Open.Viewer = defaultViewer
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

// DebounceDuration returns the parsed watch debounce, or DefaultDebounce.
// Validate has already rejected unparsable values.
func (c *Config) DebounceDuration() time.Duration {
	if c.Watch.Debounce == "" {
		return DefaultDebounce
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// IntervalDuration returns the periodic rebuild interval, zero when disabled.
func (c *Config) IntervalDuration() time.Duration {
	if c.Watch.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 0
	}
	return d
}
