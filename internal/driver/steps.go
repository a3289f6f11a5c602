package driver

import (
	"fmt"

	"git.home.luguber.info/inful/texbuilder/internal/toolchain"
)

// StepKind identifies which tool a step runs.
type StepKind string

const (
	KindPrimary      StepKind = "primary"
	KindBibliography StepKind = "bibliography"
	KindFallback     StepKind = "fallback"
)

// Policy says what a failure of the step means for the run.
type Policy int

const (
	// PolicyAbort stops the run; later passes depend on its output.
	PolicyAbort Policy = iota
	// PolicyTolerate logs the failure and continues.
	PolicyTolerate
	// PolicyBibliography tolerates the failure and explains it from the output.
	PolicyBibliography
)

// Step is one planned external invocation.
type Step struct {
	Kind StepKind
	// Name is a stable machine name used for metrics ("primary-1", "bibliography").
	Name string
	// Title heads the log entry ("PDFLaTeX 1", "BibTeX").
	Title  string
	Args   []string
	Policy Policy
}

// primaryPasses is the number of typesetting passes on the primary engine.
// Three is the usual fixed point for tables of contents, citations and
// cross-references in documents of moderate size.
const primaryPasses = 3

func primaryStep(e toolchain.Engine, document string, n int) Step {
	policy := PolicyTolerate
	if n == 1 {
		policy = PolicyAbort
	}
	return Step{
		Kind:   KindPrimary,
		Name:   fmt.Sprintf("primary-%d", n),
		Title:  fmt.Sprintf("%s %d", e.Label(), n),
		Args:   e.Command(document),
		Policy: policy,
	}
}

func bibliographyStep(e toolchain.Engine, stem string) Step {
	return Step{
		Kind:   KindBibliography,
		Name:   "bibliography",
		Title:  e.Label(),
		Args:   e.Command(stem),
		Policy: PolicyBibliography,
	}
}

func fallbackStep(e toolchain.Engine, document string) Step {
	return Step{
		Kind:   KindFallback,
		Name:   "fallback",
		Title:  e.Label(),
		Args:   e.Command(document),
		Policy: PolicyTolerate,
	}
}
