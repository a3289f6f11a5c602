package driver

import (
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/artifact"
	ferrors "git.home.luguber.info/inful/texbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/texbuilder/internal/toolchain"
)

// Status is the final state of a compile run.
type Status string

const (
	StatusSucceeded       Status = "succeeded"
	StatusArtifactMissing Status = "artifact_missing"
	StatusAborted         Status = "aborted"
)

// PassResult classifies a single external invocation.
type PassResult string

const (
	PassOK        PassResult = "ok"
	PassTolerated PassResult = "tolerated" // failed, run continues
	PassFatal     PassResult = "fatal"     // failed, run stops
)

// PassOutcome is what remains of a pass once its output has been written to
// the log. The captured output itself is not retained.
type PassOutcome struct {
	Step     Step
	ExitCode int
	Duration time.Duration
	Result   PassResult
	// Note is the console explanation for a tolerated failure.
	Note string
	// Err is set for failed passes. Its severity matches Result.
	Err *ferrors.ClassifiedError
	// LogErr is set when the log entry could not be written.
	LogErr *ferrors.ClassifiedError
}

// OpenResult records the best-effort artifact opening step.
type OpenResult struct {
	Attempted bool
	Opener    string
	Err       error
}

// Report describes a compile run. Compile never returns an error; everything
// a caller may want to assert on is here.
type Report struct {
	RunID     string
	Toolchain toolchain.Kind
	Revision  string
	Passes    []PassOutcome
	Status    Status
	// Abort is set when Status is StatusAborted.
	Abort    *ferrors.ClassifiedError
	Artifact artifact.Info
	Open     OpenResult
	Started  time.Time
	Finished time.Time
}

// Invocations counts passes of the given step kind.
func (r *Report) Invocations(kind StepKind) int {
	n := 0
	for _, p := range r.Passes {
		if p.Step.Kind == kind {
			n++
		}
	}
	return n
}

// Tolerated returns the passes that failed without stopping the run.
func (r *Report) Tolerated() []PassOutcome {
	var out []PassOutcome
	for _, p := range r.Passes {
		if p.Result == PassTolerated {
			out = append(out, p)
		}
	}
	return out
}

// Err converts the report into an error for callers that want one: nil on
// success, the abort reason, or an artifact error.
func (r *Report) Err() error {
	switch r.Status {
	case StatusSucceeded:
		return nil
	case StatusAborted:
		if r.Abort != nil {
			return r.Abort
		}
		return ferrors.NewError(ferrors.CategoryInternal, "compile aborted").Fatal().Build()
	default:
		return ferrors.NewError(ferrors.CategoryArtifact, "artifact not produced").
			WithContext("artifact", r.Artifact.Path).
			Build()
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration { return r.Finished.Sub(r.Started) }
