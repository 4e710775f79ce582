package annotations

import "fmt"

// ParseError reports a malformed annotation with its source location and a
// fix suggestion.
type ParseError struct {
	Message    string
	Location   SourceLocation
	Suggestion string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("%s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("%s: %s. %s", e.Location, e.Message, e.Suggestion)
}
