package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/driver"
	ferrors "git.home.luguber.info/inful/texbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"texbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd       `cmd:"" default:"1" help:"Compile the document once"`
	Init        InitCmd        `cmd:"" help:"Initialize a new configuration file"`
	Watch       WatchCmd       `cmd:"" help:"Recompile whenever the document inputs change"`
	VersionInfo VersionInfoCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once. The level may be
// refined later from the configuration file.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel))
	if c.Verbose {
		level = config.LogLevelDebug
	}
	slog.SetDefault(NewLogger(os.Stderr, level, config.LogFormatText))
	return nil
}

// NewLogger builds the process logger.
func NewLogger(w io.Writer, level config.LogLevel, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(level)}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// applyLogging reconfigures the default logger from the loaded configuration.
// -v always wins.
func applyLogging(g *Global, cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = config.LogLevelDebug
	}
	logger := NewLogger(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return logger
}

// LoadConfig loads configPath, falling back to defaults when it does not exist.
func LoadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		if _, ok := ferrors.AsClassified(err); ok {
			return nil, err
		}
		return nil, ferrors.ConfigError("failed to load configuration").
			WithCause(err).
			WithContext("path", configPath).
			Fatal().
			Build()
	}
	return cfg, nil
}

// Overrides are command line values that replace configuration settings.
type Overrides struct {
	WorkDir  string
	Document string
	Open     string
}

// ApplyOverrides applies non-empty overrides and validates the result.
func ApplyOverrides(cfg *config.Config, o Overrides) error {
	if o.WorkDir != "" {
		abs, err := filepath.Abs(o.WorkDir)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid work directory").
				WithContext("work_dir", o.WorkDir).
				Build()
		}
		cfg.WorkDir = abs
	}
	if o.Document != "" {
		cfg.Document = o.Document
	}
	if o.Open != "" {
		cfg.Open.Mode = config.OpenMode(o.Open)
	}
	return config.Validate(cfg)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// compiler pairs a driver with the optional metrics textfile written after each run.
type compiler struct {
	driver   *driver.Driver
	recorder *metrics.PrometheusRecorder
	textfile string
	logger   *slog.Logger
}

func newCompiler(cfg *config.Config, logger *slog.Logger, opts ...driver.Option) *compiler {
	c := &compiler{textfile: cfg.Metrics.Textfile, logger: logger}
	all := []driver.Option{driver.WithLogger(logger)}
	if c.textfile != "" {
		c.recorder = metrics.NewPrometheusRecorder(nil)
		all = append(all, driver.WithObserver(c.recorder))
	}
	c.driver = driver.New(cfg, append(all, opts...)...)
	return c
}

func (c *compiler) compile(ctx context.Context) driver.Report {
	rep := c.driver.Compile(ctx)
	if c.recorder != nil {
		if err := c.recorder.WriteTextfile(c.textfile); err != nil {
			c.logger.Warn("Failed to write metrics textfile", logfields.Path(c.textfile), logfields.Error(err))
		}
	}
	return rep
}
