package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up when -c is not given.
const DefaultConfigFile = "texbuilder.yaml"

// Config is the texbuilder configuration. It is built once at process entry
// and passed down explicitly; nothing below cmd/ reads ambient globals.
type Config struct {
	Version string `yaml:"version"`
	// WorkDir is the directory holding the source document. Relative values are
	// resolved against the directory of the configuration file.
	WorkDir      string             `yaml:"work_dir,omitempty"`
	Document     string             `yaml:"document"`
	LogFile      string             `yaml:"log_file"`
	SearchPath   SearchPathConfig   `yaml:"search_path"`
	Bibliography BibliographyConfig `yaml:"bibliography"`
	Engines      EnginesConfig      `yaml:"engines"`
	Open         OpenConfig         `yaml:"open"`
	Watch        WatchConfig        `yaml:"watch"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// SearchPathConfig controls the auxiliary input search path handed to the engines.
type SearchPathConfig struct {
	Variable    string   `yaml:"variable"`    // e.g. TEXINPUTS
	Directories []string `yaml:"directories"` // relative to work_dir
}

// BibliographyConfig controls bibliography detection.
type BibliographyConfig struct {
	Directory string `yaml:"directory"` // conventional subdirectory, e.g. Bibliography
	Extension string `yaml:"extension"` // e.g. .bib
}

// EngineConfig names an external binary and its leading arguments.
type EngineConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args,omitempty"`
}

// EnginesConfig groups the three external tools the driver may invoke.
type EnginesConfig struct {
	Primary      EngineConfig `yaml:"primary"`
	Bibliography EngineConfig `yaml:"bibliography"`
	Fallback     EngineConfig `yaml:"fallback"`
}

// OpenConfig controls what happens with the artifact after a successful run.
type OpenConfig struct {
	Mode   OpenMode `yaml:"mode"`
	Viewer string   `yaml:"viewer,omitempty"` // absolute path of the preferred viewer binary
}

// WatchConfig controls `texbuilder watch`.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"` // duration, default 300ms
	Interval string `yaml:"interval,omitempty"` // optional periodic rebuild
}

// MetricsConfig controls the prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig controls slog setup.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads configPath, applies .env files, environment overrides and defaults,
// then validates. A missing file is an error; see LoadOrDefault.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return finish(&cfg, configPath)
}

// LoadOrDefault behaves like Load but falls back to the built-in defaults when
// configPath does not exist. The work directory then defaults to the directory
// that would have held the file.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFiles(filepath.Dir(configPath))
		return finish(&Config{}, configPath)
	}
	return Load(configPath)
}

func finish(cfg *Config, configPath string) (*Config, error) {
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := cfg.resolveWorkDir(filepath.Dir(configPath)); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolveWorkDir(base string) error {
	dir := c.WorkDir
	if dir == "" {
		dir = base
	} else if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve work_dir: %w", err)
	}
	c.WorkDir = abs
	return nil
}

// DocumentStem is the document name without its extension ("main" for main.tex).
func (c *Config) DocumentStem() string {
	return strings.TrimSuffix(c.Document, filepath.Ext(c.Document))
}

// DocumentPath is the absolute path of the source document.
func (c *Config) DocumentPath() string { return filepath.Join(c.WorkDir, c.Document) }

// ArtifactName is the file name the engines produce for the document.
func (c *Config) ArtifactName() string { return c.DocumentStem() + ".pdf" }

// ArtifactPath is the absolute path of the expected artifact.
func (c *Config) ArtifactPath() string { return filepath.Join(c.WorkDir, c.ArtifactName()) }

// LogPath is the absolute path of the compilation log.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(c.WorkDir, c.LogFile)
}

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Version:  "1",
		Document: "main.tex",
		LogFile:  "compilation_log.txt",
		Open:     OpenConfig{Mode: OpenAuto, Viewer: defaultViewer},
		Watch:    WatchConfig{Debounce: "300ms"},
		Logging:  LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
	applyDefaults(&example)

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
