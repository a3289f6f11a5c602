// Package bibliography decides whether the bibliography pass should run and how
// to read its failures.
package bibliography

import (
	"os"
	"path/filepath"
	"strings"
)

// Present reports whether workDir or its subdir directly contains a file
// with the given extension. Subdirectories further down are not scanned.
func Present(workDir, subdir, ext string) bool {
	if hasExt(workDir, ext) {
		return true
	}
	if subdir == "" {
		return false
	}
	return hasExt(filepath.Join(workDir, subdir), ext)
}

func hasExt(dir, ext string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			return true
		}
	}
	return false
}

// Verdict explains a failed bibliography pass. Either way the failure is tolerated.
type Verdict struct {
	// Benign is true when the output shows the tool had nothing to do.
	Benign bool
	Note   string
}

// NoteNoCitations is the console note for a benign failure.
const NoteNoCitations = "BibTeX found no citations (normal for reports without a bibliography)."

var benignMarkers = []string{
	`I found no \citation commands`,
	`I found no \bibdata command`,
	`I found no \bibstyle command`,
}

// ClassifyFailure inspects captured output of a failed bibliography pass.
func ClassifyFailure(output string) Verdict {
	for _, m := range benignMarkers {
		if strings.Contains(output, m) {
			return Verdict{Benign: true, Note: NoteNoCitations}
		}
	}
	return Verdict{Note: "bibliography pass failed; continuing without resolved citations (see log)."}
}
