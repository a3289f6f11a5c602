package watch

import (
	"path/filepath"
	"strings"
)

// sourceExtensions are the inputs whose change makes a recompile worthwhile.
var sourceExtensions = map[string]struct{}{
	".tex": {}, ".bib": {}, ".sty": {}, ".cls": {}, ".bst": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".eps": {}, ".pdf": {}, ".svg": {},
}

// buildExtensions are written by the engines themselves. Reacting to them
// would make every compile trigger the next one.
var buildExtensions = map[string]struct{}{
	".aux": {}, ".log": {}, ".out": {}, ".toc": {}, ".lof": {}, ".lot": {},
	".bbl": {}, ".blg": {}, ".fls": {}, ".fdb_latexmk": {}, ".nav": {},
	".snm": {}, ".xdv": {}, ".synctex": {}, ".gz": {},
}

// Filter decides which filesystem events trigger a recompile.
type Filter struct {
	// LogPath and ArtifactPath are absolute; both are written during a run.
	LogPath      string
	ArtifactPath string
}

// Relevant reports whether a change to path should trigger a recompile.
func (f Filter) Relevant(path string) bool {
	if ignoredName(filepath.Base(path)) {
		return false
	}
	clean := filepath.Clean(path)
	if f.LogPath != "" && clean == filepath.Clean(f.LogPath) {
		return false
	}
	if f.ArtifactPath != "" && clean == filepath.Clean(f.ArtifactPath) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := buildExtensions[ext]; ok {
		return false
	}
	_, ok := sourceExtensions[ext]
	return ok
}

// ignoredName matches hidden files and editor swap or backup files.
func ignoredName(base string) bool {
	if base == "" || strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
