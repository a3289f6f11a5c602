// Package watch recompiles the document when its inputs change.
//
// A Watcher runs one compile on start, then listens for filesystem events in
// the work directory and its input subdirectories. Relevant events are
// debounced and fed into a Queue so that compiles never overlap. An optional
// interval adds a periodic rebuild through gocron.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// Options configures a Watcher.
type Options struct {
	// Root is watched non-recursively.
	Root string
	// Dirs are watched recursively when they exist.
	Dirs     []string
	Filter   Filter
	Debounce time.Duration
	// Interval enables a periodic rebuild when positive.
	Interval time.Duration
	Logger   *slog.Logger
}

// OptionsFromConfig derives watch options from the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	dirs := make([]string, 0, len(cfg.SearchPath.Directories)+1)
	for _, d := range cfg.SearchPath.Directories {
		dirs = append(dirs, filepath.Join(cfg.WorkDir, d))
	}
	if cfg.Bibliography.Directory != "" {
		dirs = append(dirs, filepath.Join(cfg.WorkDir, cfg.Bibliography.Directory))
	}
	return Options{
		Root: cfg.WorkDir,
		Dirs: dirs,
		Filter: Filter{
			LogPath:      cfg.LogPath(),
			ArtifactPath: cfg.ArtifactPath(),
		},
		Debounce: cfg.DebounceDuration(),
		Interval: cfg.IntervalDuration(),
	}
}

// Watcher drives compiles from filesystem events.
type Watcher struct {
	opts    Options
	compile CompileFunc
	logger  *slog.Logger
}

// New returns a Watcher calling compile.
func New(opts Options, compile CompileFunc) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{opts: opts, compile: compile, logger: logger}
}

// Run compiles once, then watches until ctx is done. It returns an error only
// when watching cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.opts.Root); err != nil {
		return fmt.Errorf("watch %s: %w", w.opts.Root, err)
	}
	for _, dir := range w.opts.Dirs {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			w.addDirsRecursive(fw, dir)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	queue := NewQueue(w.compile)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Run(ctx)
	}()
	defer wg.Wait()
	defer cancel()

	debouncer := NewDebouncer(w.opts.Debounce, queue.Request)
	defer debouncer.Stop()

	if w.opts.Interval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.SchedulePeriodic(w.opts.Interval, queue.Request); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				w.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	queue.Request()
	w.logger.Info("Watching for changes",
		logfields.WorkDir(w.opts.Root),
		slog.Duration("debounce", w.opts.Debounce),
		slog.Duration("interval", w.opts.Interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watch")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, debouncer)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, d *Debouncer) {
	if ev.Op&fsnotify.Create == fsnotify.Create && w.underDirs(ev.Name) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			w.addDirsRecursive(fw, ev.Name)
			return
		}
	}
	if ev.Op == fsnotify.Chmod || !w.opts.Filter.Relevant(ev.Name) {
		return
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	d.Trigger()
}

// underDirs reports whether path lies inside one of the recursively watched dirs.
func (w *Watcher) underDirs(path string) bool {
	for _, dir := range w.opts.Dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel) {
			return true
		}
	}
	return false
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignoredName(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
