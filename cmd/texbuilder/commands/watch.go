package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/driver"
	ferrors "git.home.luguber.info/inful/texbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/texbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	WorkDir  string        `short:"w" name:"work-dir" help:"Directory holding the source document (overrides config)."`
	Document string        `short:"d" name:"document" help:"Source document file name (overrides config)."`
	Open     string        `name:"open" help:"Artifact opener: auto, none, viewer or default (overrides config)."`
	Interval time.Duration `name:"interval" help:"Also recompile periodically, e.g. 5m (overrides config)."`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if w.Interval > 0 {
		cfg.Watch.Interval = w.Interval.String()
	}
	if err := ApplyOverrides(cfg, Overrides{WorkDir: w.WorkDir, Document: w.Document, Open: w.Open}); err != nil {
		return err
	}
	logger := applyLogging(g, cfg, root.Verbose)

	ctx, cancel := signalContext()
	defer cancel()
	return RunWatch(ctx, cfg, logger)
}

// RunWatch compiles on start and on every relevant change until ctx is done.
func RunWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...driver.Option) error {
	c := newCompiler(cfg, logger, opts...)
	wopts := watch.OptionsFromConfig(cfg)
	wopts.Logger = logger
	w := watch.New(wopts, func(ctx context.Context) { c.compile(ctx) })
	if err := w.Run(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "watch failed").
			WithContext("work_dir", cfg.WorkDir).
			Build()
	}
	return nil
}
