package utils

import "fmt"

// Error wrapping helpers shared by the CLI pipeline, kept together so the
// messages stay consistent.

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, err error) error {
	return fmt.Errorf("failed to parse %s: %w", item, err)
}

// WrapProcessError wraps an error with a "failed to process" message
func WrapProcessError(item string, err error) error {
	return fmt.Errorf("failed to process %s: %w", item, err)
}
