// Package driver runs the pass sequence that turns a LaTeX source document
// into its PDF.
//
// The sequence is strictly sequential: every pass reads files written by the
// one before it. With the primary engine it is
//
//	pass 1 -> [bibliography] -> pass 2 -> pass 3
//
// where only a failure of pass 1 stops the run. With the fallback engine it is
// a single tolerated pass. The run then checks for the artifact and, if it is
// there, hands it to the configured opener.
package driver

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/texbuilder/internal/artifact"
	"git.home.luguber.info/inful/texbuilder/internal/bibliography"
	"git.home.luguber.info/inful/texbuilder/internal/compilelog"
	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/console"
	ferrors "git.home.luguber.info/inful/texbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	"git.home.luguber.info/inful/texbuilder/internal/opener"
	"git.home.luguber.info/inful/texbuilder/internal/revision"
	"git.home.luguber.info/inful/texbuilder/internal/runner"
	"git.home.luguber.info/inful/texbuilder/internal/texenv"
	"git.home.luguber.info/inful/texbuilder/internal/toolchain"
)

// Driver runs compile operations for one configuration.
type Driver struct {
	cfg       *config.Config
	tools     toolchain.Toolchain
	prober    *toolchain.Prober
	runner    runner.Runner
	env       texenv.Builder
	log       *compilelog.Log
	opener    opener.Opener
	console   *console.Console
	observer  metrics.Recorder
	logger    *slog.Logger
	newRunID  func() string
	revision  func(dir string) (string, error)
	now       func() time.Time
	inspector func(path string, logger *slog.Logger) artifact.Info
}

// Option customises a Driver.
type Option func(*Driver)

func WithRunner(r runner.Runner) Option { return func(d *Driver) { d.runner = r } }

func WithLookPath(lp toolchain.LookPathFunc) Option {
	return func(d *Driver) { d.prober = toolchain.NewProber(lp) }
}

func WithOpener(o opener.Opener) Option     { return func(d *Driver) { d.opener = o } }
func WithConsole(c *console.Console) Option { return func(d *Driver) { d.console = c } }
func WithLogger(l *slog.Logger) Option      { return func(d *Driver) { d.logger = l } }
func WithRunID(f func() string) Option      { return func(d *Driver) { d.newRunID = f } }
func WithClock(now func() time.Time) Option { return func(d *Driver) { d.now = now } }

func WithRevision(f func(dir string) (string, error)) Option {
	return func(d *Driver) { d.revision = f }
}

// WithObserver sets the metrics recorder. nil restores the no-op recorder.
func WithObserver(o metrics.Recorder) Option {
	return func(d *Driver) {
		if o == nil {
			o = metrics.NoopRecorder{}
		}
		d.observer = o
	}
}

// WithEnvBase replaces the host environment the execution environment is derived from.
func WithEnvBase(base func() []string) Option {
	return func(d *Driver) { d.env.Base = base }
}

// New builds a Driver with production collaborators, overridable through opts.
func New(cfg *config.Config, opts ...Option) *Driver {
	d := &Driver{
		cfg:       cfg,
		tools:     toolchain.FromConfig(cfg),
		prober:    toolchain.NewProber(nil),
		runner:    runner.ExecRunner{},
		env:       texenv.FromConfig(cfg),
		log:       compilelog.New(cfg.LogPath()),
		opener:    opener.FromConfig(cfg.Open, ""),
		console:   console.New(os.Stdout),
		observer:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		newRunID:  uuid.NewString,
		revision:  revision.Detect,
		now:       time.Now,
		inspector: artifact.Inspect,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log.WithClock(d.now)
	return d
}

// Compile runs one compile operation. It never panics on tool failures and
// never returns an error: outcomes are reported on the console, in the
// compilation log and in the returned Report.
func (d *Driver) Compile(ctx context.Context) (rep Report) {
	rep = Report{RunID: d.newRunID(), Toolchain: toolchain.KindNone, Started: d.now()}
	logger := d.logger.With(logfields.RunID(rep.RunID))
	defer func() {
		rep.Finished = d.now()
		d.observer.ObserveRun(string(rep.Status), string(rep.Toolchain), rep.Finished)
		logger.Info("Compile finished",
			slog.String("status", string(rep.Status)),
			slog.Int("passes", len(rep.Passes)),
			logfields.DurationMS(float64(rep.Duration().Microseconds())/1000))
	}()

	docPath := d.cfg.DocumentPath()
	if st, err := os.Stat(docPath); err != nil || st.IsDir() {
		d.console.Error("cannot find %s in %s", d.cfg.Document, d.cfg.WorkDir)
		d.abort(&rep, logger, ferrors.WrapError(err, ferrors.CategoryPrecondition, "source document not found").
			Fatal().
			WithContext("document", docPath).
			Build())
		return rep
	}

	rep.Revision = d.detectRevision(logger)
	logger.Info("Starting compilation",
		logfields.Document(d.cfg.Document),
		logfields.WorkDir(d.cfg.WorkDir),
		logfields.Revision(rep.Revision))
	d.console.Heading("Starting compilation of %s", d.cfg.Document)

	rep.Toolchain = d.prober.Select(d.tools)
	logger.Debug("Toolchain selected", logfields.Toolchain(string(rep.Toolchain)))

	switch rep.Toolchain {
	case toolchain.KindPrimary:
		if !d.runPrimary(ctx, &rep, logger) {
			return rep
		}
	case toolchain.KindFallback:
		d.runFallback(ctx, &rep, logger)
	default:
		d.console.Error("neither %s nor %s was found.", d.tools.Primary.Binary, d.tools.Fallback.Binary)
		d.abort(&rep, logger, ferrors.NewError(ferrors.CategoryToolchain, "no typesetting engine available").
			Fatal().
			WithContext("primary", d.tools.Primary.Binary).
			WithContext("fallback", d.tools.Fallback.Binary).
			Build())
		return rep
	}

	d.console.Heading("Compilation finished")
	d.complete(ctx, &rep, logger)
	return rep
}

// runPrimary runs the multi-pass sequence. It returns false when the run was aborted.
func (d *Driver) runPrimary(ctx context.Context, rep *Report, logger *slog.Logger) bool {
	d.console.Info("Using %s...", d.tools.Primary.Label())
	document := d.cfg.Document

	first := d.runStep(ctx, primaryStep(d.tools.Primary, document, 1), logger)
	rep.Passes = append(rep.Passes, first)
	if first.Result == PassFatal {
		d.abort(rep, logger, first.Err)
		return false
	}

	if bibliography.Present(d.cfg.WorkDir, d.cfg.Bibliography.Directory, d.cfg.Bibliography.Extension) {
		rep.Passes = append(rep.Passes, d.runStep(ctx, bibliographyStep(d.tools.Bibliography, d.cfg.DocumentStem()), logger))
	} else {
		logger.Debug("No bibliography files found, skipping bibliography pass")
	}

	for n := 2; n <= primaryPasses; n++ {
		rep.Passes = append(rep.Passes, d.runStep(ctx, primaryStep(d.tools.Primary, document, n), logger))
	}
	return true
}

func (d *Driver) runFallback(ctx context.Context, rep *Report, logger *slog.Logger) {
	d.console.Info("%s not found. Using %s...", d.tools.Primary.Label(), d.tools.Fallback.Label())
	rep.Passes = append(rep.Passes, d.runStep(ctx, fallbackStep(d.tools.Fallback, d.cfg.Document), logger))
}

// runStep invokes one step, writes its log entry and classifies the result.
func (d *Driver) runStep(ctx context.Context, step Step, logger *slog.Logger) PassOutcome {
	inv := runner.Invocation{Args: step.Args, Dir: d.cfg.WorkDir, Env: d.env.Environ()}
	d.console.Command(inv.String())

	res := d.runner.Run(ctx, inv)
	out := PassOutcome{Step: step, ExitCode: res.ExitCode, Duration: res.Duration, Result: PassOK}

	if err := d.log.Append(step.Title, res.Output()); err != nil {
		out.LogErr = ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not write compilation log").
			Warning().
			WithContext("path", d.log.Path()).
			Build()
		logger.Warn("Failed to write compilation log", logfields.Step(step.Title), logfields.Error(err))
	}

	stepLogger := logger.With(logfields.Step(step.Title), logfields.Engine(step.Args[0]), logfields.ExitCode(res.ExitCode))
	if !res.Failed() {
		stepLogger.Debug("Pass succeeded", logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
		d.observePass(out)
		return out
	}

	builder := ferrors.WrapError(res.StartErr, ferrors.CategoryCompile, step.Title+" failed").
		WithContext("step", step.Name).
		WithContext("exit_code", res.ExitCode)

	switch step.Policy {
	case PolicyAbort:
		out.Result = PassFatal
		out.Err = builder.Fatal().Build()
		d.console.Error("%s failed. See log.", step.Title)
		stepLogger.Error("Pass failed, aborting")
	case PolicyBibliography:
		verdict := bibliography.ClassifyFailure(res.Output())
		out.Result = PassTolerated
		out.Note = verdict.Note
		if verdict.Benign {
			out.Err = builder.Info().Build()
			stepLogger.Info("Bibliography pass found nothing to do")
		} else {
			out.Err = builder.Warning().Build()
			stepLogger.Warn("Bibliography pass failed, continuing")
		}
		d.console.Note("%s", verdict.Note)
	default:
		out.Result = PassTolerated
		out.Err = builder.Warning().Build()
		out.Note = "error in " + step.Title + "; continuing"
		d.console.Warn("Error in %s. See log.", step.Title)
		stepLogger.Warn("Pass failed, continuing")
	}
	d.observePass(out)
	return out
}

func (d *Driver) complete(ctx context.Context, rep *Report, logger *slog.Logger) {
	rep.Artifact = d.inspector(d.cfg.ArtifactPath(), logger)
	if !rep.Artifact.Exists {
		rep.Status = StatusArtifactMissing
		d.console.Warn("PDF not found: %s", rep.Artifact.Path)
		logger.Warn("Artifact missing after compilation", logfields.Artifact(rep.Artifact.Path))
		return
	}

	rep.Status = StatusSucceeded
	if rep.Artifact.Pages > 0 {
		d.console.Success("PDF generated: %s (%d pages)", rep.Artifact.Path, rep.Artifact.Pages)
	} else {
		d.console.Success("PDF generated: %s", rep.Artifact.Path)
	}
	rep.Open = d.open(ctx, rep.Artifact.Path, logger)
}

// open hands the artifact to the opener. Failures are recorded, never propagated.
func (d *Driver) open(ctx context.Context, path string, logger *slog.Logger) (res OpenResult) {
	if d.opener == nil {
		return OpenResult{}
	}
	res.Opener = d.opener.Name()
	if _, none := d.opener.(opener.None); none {
		return res
	}
	res.Attempted = true
	defer func() {
		if r := recover(); r != nil {
			res.Err = ferrors.NewError(ferrors.CategoryOpener, "opener panicked").Info().WithContext("panic", r).Build()
		}
		if res.Err != nil {
			logger.Debug("Opening artifact failed", logfields.Opener(res.Opener), logfields.Error(res.Err))
		}
	}()
	if err := d.opener.Open(ctx, path); err != nil {
		res.Err = ferrors.WrapError(err, ferrors.CategoryOpener, "could not open artifact").Info().Build()
	}
	return res
}

func (d *Driver) abort(rep *Report, logger *slog.Logger, err *ferrors.ClassifiedError) {
	rep.Status = StatusAborted
	rep.Abort = err
	logger.Error("Compile aborted",
		slog.String("category", string(err.Category())),
		slog.String("reason", err.Message()))
}

func (d *Driver) detectRevision(logger *slog.Logger) string {
	if d.revision == nil {
		return ""
	}
	rev, err := d.revision(d.cfg.WorkDir)
	if err != nil {
		logger.Debug("Could not read source revision", logfields.Error(err))
		return ""
	}
	return rev
}

func (d *Driver) observePass(out PassOutcome) {
	d.observer.ObservePass(out.Step.Name, string(out.Result), out.Duration)
}
