package models

import "fmt"

// ErrorType classifies generation failures for reporting.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeAnnotationSyntax
	ErrorTypeGeneration
	ErrorTypeFileSystem
)

// GeneratorError is a generation failure with enough context for the CLI to
// explain it and suggest a fix.
type GeneratorError struct {
	Type        ErrorType
	Message     string
	File        string
	Line        int
	Suggestions []string
	Context     map[string]interface{}
	Cause       error
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}
