package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"Step", KeyStep, "PDFLaTeX 1", Step("PDFLaTeX 1")},
		{"Engine", KeyEngine, "pdflatex", Engine("pdflatex")},
		{"Toolchain", KeyToolchain, "primary", Toolchain("primary")},
		{"Document", KeyDocument, "main.tex", Document("main.tex")},
		{"WorkDir", KeyWorkDir, "/tmp/x", WorkDir("/tmp/x")},
		{"Artifact", KeyArtifact, "main.pdf", Artifact("main.pdf")},
		{"Path", KeyPath, "/tmp/y", Path("/tmp/y")},
		{"Revision", KeyRevision, "deadbee", Revision("deadbee")},
		{"Opener", KeyOpener, "viewer", Opener("viewer")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := ExitCode(2); a.Key != KeyExitCode || a.Value.Int64() != 2 {
		t.Fatalf("unexpected exit code attr: %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty error value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %q", a.Value.String())
	}
}
