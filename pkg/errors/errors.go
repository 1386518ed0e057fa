// Package errors provides custom error types for the tallycheck system.
// Every parser assumption that fails is reported as an AssumptionError tagged
// with the kind of assumption violated, so callers can check errors
// programmatically with errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Common sentinel errors for the tallycheck system
var (
	// ErrStructure indicates a section-level assumption about a source failed
	ErrStructure = errors.New("structural assumption violated")

	// ErrReference indicates a ballot references an unknown candidate
	ErrReference = errors.New("unknown reference")

	// ErrUniqueness indicates a duplicate vote or a duplicate ballot identifier
	ErrUniqueness = errors.New("uniqueness violated")

	// ErrFormat indicates a line or document is not in the expected format
	ErrFormat = errors.New("format violated")

	// ErrMismatch indicates the two sources disagree after normalization
	ErrMismatch = errors.New("distributions differ")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates that a remote source is temporarily unavailable
	ErrProviderUnavailable = errors.New("source unavailable")

	// ErrRateLimited indicates that the remote rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")
)

// Kind classifies which family of assumption an AssumptionError violated.
type Kind string

// Assumption kinds.
const (
	KindStructure  Kind = "structure"
	KindReference  Kind = "reference"
	KindUniqueness Kind = "uniqueness"
	KindFormat     Kind = "format"
)

// sentinel maps a kind to the sentinel error it matches.
func (k Kind) sentinel() error {
	switch k {
	case KindStructure:
		return ErrStructure
	case KindReference:
		return ErrReference
	case KindUniqueness:
		return ErrUniqueness
	case KindFormat:
		return ErrFormat
	default:
		return nil
	}
}

// AssumptionError reports a violated assumption about a source document.
type AssumptionError struct {
	Source     string // "final-piles", "electowidget", ...
	Kind       Kind
	Assumption string // human readable statement of what was expected
	Line       string // offending line or record, if any
}

// Error implements the error interface
func (e *AssumptionError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s assumption violated: %s", e.Kind, e.Assumption)
	if e.Line != "" {
		fmt.Fprintf(&b, " (line %q)", e.Line)
	}
	return b.String()
}

// Is implements errors.Is support
func (e *AssumptionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewAssumptionError creates a new AssumptionError
func NewAssumptionError(source string, kind Kind, assumption, line string) *AssumptionError {
	return &AssumptionError{
		Source:     source,
		Kind:       kind,
		Assumption: assumption,
		Line:       line,
	}
}

// MismatchError reports that two frequency distributions are not equal.
// Rankings are rendered as strings so the error stays independent of the
// ranking package.
type MismatchError struct {
	Missing    []string // present in the official source only
	Extra      []string // present in the community source only
	Mismatched []string // present in both with different counts
}

// Error implements the error interface
func (e *MismatchError) Error() string {
	return fmt.Sprintf("distributions differ: %d missing, %d extra, %d with different counts",
		len(e.Missing), len(e.Extra), len(e.Mismatched))
}

// Is implements errors.Is support
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from a remote document host
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrProviderUnavailable
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when decoding a data format
type ParseError struct {
	Format  string // "json", "yaml", "html", ...
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "open", "extract", ...
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsAssumption checks if an error is any parser assumption violation
func IsAssumption(err error) bool {
	var ae *AssumptionError
	return errors.As(err, &ae)
}

// IsMismatch checks if an error reports differing distributions
func IsMismatch(err error) bool {
	return errors.Is(err, ErrMismatch)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
