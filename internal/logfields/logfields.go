package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStep       = "step"
	KeyEngine     = "engine"
	KeyToolchain  = "toolchain"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyDocument   = "document"
	KeyWorkDir    = "work_dir"
	KeyArtifact   = "artifact"
	KeyPath       = "path"
	KeyRevision   = "revision"
	KeyOpener     = "opener"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Engine(name string) slog.Attr    { return slog.String(KeyEngine, name) }
func Toolchain(name string) slog.Attr { return slog.String(KeyToolchain, name) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func WorkDir(dir string) slog.Attr    { return slog.String(KeyWorkDir, dir) }
func Artifact(path string) slog.Attr  { return slog.String(KeyArtifact, path) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Revision(rev string) slog.Attr   { return slog.String(KeyRevision, rev) }
func Opener(kind string) slog.Attr    { return slog.String(KeyOpener, kind) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
