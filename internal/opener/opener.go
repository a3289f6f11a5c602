// Package opener shows a finished artifact to the user. Openers are
// best-effort: callers log and ignore their errors.
package opener

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/pkg/browser"

	"git.home.luguber.info/inful/texbuilder/internal/config"
)

// Opener opens an artifact with some external application.
type Opener interface {
	Open(ctx context.Context, path string) error
	Name() string
}

// None does nothing.
type None struct{}

func (None) Open(context.Context, string) error { return nil }
func (None) Name() string                       { return "none" }

// StartFunc starts a program without waiting for it.
type StartFunc func(name string, args ...string) error

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Viewer starts a preferred viewer binary with the artifact as its argument.
type Viewer struct {
	Binary string
	start  StartFunc
}

// NewViewer returns a Viewer for binary.
func NewViewer(binary string) *Viewer {
	return &Viewer{Binary: binary, start: startDetached}
}

func (v *Viewer) Open(_ context.Context, path string) error {
	if err := v.start(v.Binary, path); err != nil {
		return fmt.Errorf("start viewer %s: %w", v.Binary, err)
	}
	return nil
}

func (v *Viewer) Name() string { return "viewer" }

// Default hands the artifact to the host's file association.
type Default struct {
	openFile func(path string) error
}

// NewDefault returns an opener backed by github.com/pkg/browser.
func NewDefault() *Default {
	return &Default{openFile: browser.OpenFile}
}

func (d *Default) Open(_ context.Context, path string) error {
	if err := d.openFile(path); err != nil {
		return fmt.Errorf("open with default application: %w", err)
	}
	return nil
}

func (d *Default) Name() string { return "default" }

// PreferViewer uses Viewer when its binary exists at the configured location
// and Default otherwise.
type PreferViewer struct {
	Viewer   *Viewer
	Fallback Opener
	stat     func(string) (os.FileInfo, error)
}

func (p *PreferViewer) Open(ctx context.Context, path string) error {
	if _, err := p.stat(p.Viewer.Binary); err == nil {
		return p.Viewer.Open(ctx, path)
	}
	return p.Fallback.Open(ctx, path)
}

func (p *PreferViewer) Name() string { return "prefer-viewer" }

// FromConfig selects the opener for mode on the platform goos.
//
//	auto    -> PreferViewer on windows, None elsewhere
//	viewer  -> PreferViewer
//	default -> Default
//	none    -> None
func FromConfig(cfg config.OpenConfig, goos string) Opener {
	if goos == "" {
		goos = runtime.GOOS
	}
	switch cfg.Mode {
	case config.OpenNone:
		return None{}
	case config.OpenDefault:
		return NewDefault()
	case config.OpenViewer:
		return preferViewer(cfg.Viewer)
	default:
		if goos == "windows" {
			return preferViewer(cfg.Viewer)
		}
		return None{}
	}
}

func preferViewer(binary string) *PreferViewer {
	return &PreferViewer{Viewer: NewViewer(binary), Fallback: NewDefault(), stat: os.Stat}
}
