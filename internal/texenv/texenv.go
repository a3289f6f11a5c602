// Package texenv builds the process environment handed to the typesetting engines.
package texenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"git.home.luguber.info/inful/texbuilder/internal/config"
)

// Builder produces a fresh environment for every invocation. It never
// modifies the host environment.
type Builder struct {
	Variable string
	WorkDir  string
	Dirs     []string
	// Base returns the host environment; os.Environ when nil.
	Base func() []string
}

// FromConfig returns a Builder for the search_path section of cfg.
func FromConfig(cfg *config.Config) Builder {
	return Builder{
		Variable: cfg.SearchPath.Variable,
		WorkDir:  cfg.WorkDir,
		Dirs:     append([]string(nil), cfg.SearchPath.Directories...),
	}
}

// SearchPath is "." followed by each configured directory under WorkDir,
// joined with the host list separator and terminated with a trailing one so
// the engine still consults its default search path.
func (b Builder) SearchPath() string {
	sep := string(os.PathListSeparator)
	parts := make([]string, 0, len(b.Dirs)+1)
	parts = append(parts, ".")
	for _, d := range b.Dirs {
		if filepath.IsAbs(d) {
			parts = append(parts, d)
			continue
		}
		parts = append(parts, filepath.Join(b.WorkDir, d))
	}
	return strings.Join(parts, sep) + sep
}

// Environ returns a copy of the host environment with Variable overridden.
func (b Builder) Environ() []string {
	base := b.Base
	if base == nil {
		base = os.Environ
	}
	host := base()
	env := make([]string, 0, len(host)+1)
	for _, kv := range host {
		name, _, _ := strings.Cut(kv, "=")
		if sameName(name, b.Variable) {
			continue
		}
		env = append(env, kv)
	}
	return append(env, b.Variable+"="+b.SearchPath())
}

func sameName(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
