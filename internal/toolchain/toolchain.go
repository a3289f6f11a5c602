// Package toolchain describes the external typesetting tools and picks the one
// a run will use.
package toolchain

import (
	"os/exec"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/texbuilder/internal/config"
)

// Kind is the outcome of toolchain selection.
type Kind string

const (
	KindPrimary  Kind = "primary"
	KindFallback Kind = "fallback"
	KindNone     Kind = "none"
)

// Engine is one external program and the arguments placed before its target.
type Engine struct {
	Binary string
	Args   []string
}

// Label is the human name used for log titles ("PDFLaTeX", "BibTeX", ...).
func (e Engine) Label() string {
	base := strings.TrimSuffix(filepath.Base(e.Binary), filepath.Ext(e.Binary))
	if label, ok := knownLabels[strings.ToLower(base)]; ok {
		return label
	}
	return base
}

var knownLabels = map[string]string{
	"pdflatex": "PDFLaTeX",
	"xelatex":  "XeLaTeX",
	"lualatex": "LuaLaTeX",
	"bibtex":   "BibTeX",
	"biber":    "Biber",
	"tectonic": "Tectonic",
}

// Command returns the full argument vector for running the engine on target.
func (e Engine) Command(target string) []string {
	cmd := make([]string, 0, len(e.Args)+2)
	cmd = append(cmd, e.Binary)
	cmd = append(cmd, e.Args...)
	return append(cmd, target)
}

// Toolchain groups the engines a run may use.
type Toolchain struct {
	Primary      Engine
	Bibliography Engine
	Fallback     Engine
}

// FromConfig builds the toolchain from the engines section.
func FromConfig(cfg *config.Config) Toolchain {
	conv := func(e config.EngineConfig) Engine {
		return Engine{Binary: e.Binary, Args: append([]string(nil), e.Args...)}
	}
	return Toolchain{
		Primary:      conv(cfg.Engines.Primary),
		Bibliography: conv(cfg.Engines.Bibliography),
		Fallback:     conv(cfg.Engines.Fallback),
	}
}

// LookPathFunc resolves a binary on the command search path.
type LookPathFunc func(file string) (string, error)

// Prober checks binary availability.
type Prober struct {
	lookPath LookPathFunc
}

// NewProber returns a prober using lookPath, or exec.LookPath when nil.
func NewProber(lookPath LookPathFunc) *Prober {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &Prober{lookPath: lookPath}
}

// Available reports whether binary can be executed.
func (p *Prober) Available(binary string) bool {
	_, err := p.lookPath(binary)
	return err == nil
}

// Select decides which engine the run uses. The fallback is only probed when
// the primary engine is unavailable.
func (p *Prober) Select(tc Toolchain) Kind {
	if p.Available(tc.Primary.Binary) {
		return KindPrimary
	}
	if p.Available(tc.Fallback.Binary) {
		return KindFallback
	}
	return KindNone
}
