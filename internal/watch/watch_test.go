package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRelevant(t *testing.T) {
	work := filepath.Join(string(filepath.Separator), "doc")
	f := Filter{
		LogPath:      filepath.Join(work, "compilation_log.txt"),
		ArtifactPath: filepath.Join(work, "main.pdf"),
	}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(work, "main.tex"), true},
		{filepath.Join(work, "Content", "chapter1.tex"), true},
		{filepath.Join(work, "Bibliography", "refs.bib"), true},
		{filepath.Join(work, "Styles", "thesis.sty"), true},
		{filepath.Join(work, "Styles", "report.CLS"), true},
		{filepath.Join(work, "Figures", "plot.png"), true},
		{filepath.Join(work, "Figures", "diagram.pdf"), true},
		{filepath.Join(work, "main.pdf"), false},
		{filepath.Join(work, "compilation_log.txt"), false},
		{filepath.Join(work, "main.aux"), false},
		{filepath.Join(work, "main.log"), false},
		{filepath.Join(work, "main.bbl"), false},
		{filepath.Join(work, "main.synctex.gz"), false},
		{filepath.Join(work, ".main.tex.swp"), false},
		{filepath.Join(work, "main.tex~"), false},
		{filepath.Join(work, "#main.tex#"), false},
		{filepath.Join(work, "notes.txt"), false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, f.Relevant(tt.path))
		})
	}
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { fired.Add(1) })
	for range 10 {
		d.Trigger()
	}
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncerStop(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })
	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestQueueNeverOverlapsAndQueuesOneFollowUp(t *testing.T) {
	started := make(chan struct{}, 10)
	release := make(chan struct{})
	var running, maxRunning, total atomic.Int32

	q := NewQueue(func(ctx context.Context) {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		total.Add(1)
		started <- struct{}{}
		<-release
		running.Add(-1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(done)
	}()

	q.Request()
	<-started
	// Several requests while the first compile runs.
	q.Request()
	q.Request()
	q.Request()
	release <- struct{}{}

	<-started
	release <- struct{}{}

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, int32(2), total.Load())
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestWatcherCompilesOnStartAndOnChange(t *testing.T) {
	work := t.TempDir()
	content := filepath.Join(work, "Content")
	require.NoError(t, os.MkdirAll(content, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(work, "main.tex"), []byte("\\documentclass{article}"), 0o600))

	var mu sync.Mutex
	var compiles int
	compile := func(ctx context.Context) {
		mu.Lock()
		compiles++
		mu.Unlock()
	}
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return compiles
	}

	w := New(Options{
		Root:     work,
		Dirs:     []string{content},
		Filter:   Filter{LogPath: filepath.Join(work, "compilation_log.txt"), ArtifactPath: filepath.Join(work, "main.pdf")},
		Debounce: 20 * time.Millisecond,
	}, compile)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Build products do not trigger a compile.
	require.NoError(t, os.WriteFile(filepath.Join(work, "main.aux"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(work, "compilation_log.txt"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, count())

	require.NoError(t, os.WriteFile(filepath.Join(content, "chapter.tex"), []byte("text"), 0o600))
	require.Eventually(t, func() bool { return count() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherMissingRoot(t *testing.T) {
	w := New(Options{Root: filepath.Join(t.TempDir(), "missing")}, func(context.Context) {})
	err := w.Run(context.Background())
	require.Error(t, err)
}

func TestSchedulerRunsPeriodicTask(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	var runs atomic.Int32
	id, err := s.SchedulePeriodic(50*time.Millisecond, func() { runs.Add(1) })
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}
