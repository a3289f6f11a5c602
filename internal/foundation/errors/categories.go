package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryPrecondition covers checks made before any external tool runs.
	CategoryPrecondition ErrorCategory = "precondition"
	CategoryToolchain    ErrorCategory = "toolchain"

	// CategoryCompile represents failures of the external passes.
	CategoryCompile    ErrorCategory = "compile"
	CategoryArtifact   ErrorCategory = "artifact"
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryOpener is used for cosmetic post-build failures.
	CategoryOpener   ErrorCategory = "opener"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Run finished without the expected result
	SeverityWarning ErrorSeverity = "warning" // Tolerated, run continues
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}
