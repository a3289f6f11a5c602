package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/driver"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	WorkDir  string `short:"w" name:"work-dir" help:"Directory holding the source document (overrides config)."`
	Document string `short:"d" name:"document" help:"Source document file name (overrides config)."`
	Open     string `name:"open" help:"Artifact opener: auto, none, viewer or default (overrides config)."`
	Strict   bool   `name:"strict" help:"Exit non-zero when no artifact was produced."`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if err := ApplyOverrides(cfg, Overrides{WorkDir: b.WorkDir, Document: b.Document, Open: b.Open}); err != nil {
		return err
	}
	logger := applyLogging(g, cfg, root.Verbose)

	ctx, cancel := signalContext()
	defer cancel()
	return RunBuild(ctx, cfg, b.Strict, logger)
}

// RunBuild compiles once. The outcome is reported on the console and in the
// compilation log; only strict mode turns a failed run into an error.
func RunBuild(ctx context.Context, cfg *config.Config, strict bool, logger *slog.Logger, opts ...driver.Option) error {
	rep := newCompiler(cfg, logger, opts...).compile(ctx)
	if strict {
		return rep.Err()
	}
	return nil
}
