// Package errors provides the classified error primitives used across texbuilder.
//
// A ClassifiedError carries a category (precondition, toolchain, compile, ...)
// and a severity. The severity is what separates a failure that aborts a
// compile run from one that is recorded and tolerated.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryCompile, "first pass failed").
//		Fatal().
//		WithContext("step", "PDFLaTeX 1").
//		WithCause(runErr).
//		Build()
package errors
