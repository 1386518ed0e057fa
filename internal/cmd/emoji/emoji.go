// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for status indicators in terminal output.
const (
	// Success represents successful completion of an operation.
	// Used for: matching distributions, parsed sources.
	Success = "✓"

	// Error represents failures.
	// Used for: differing distributions, violated assumptions.
	Error = "✗"
)
