package annotations

import (
	"fmt"
	"strings"
)

// httpVerbs are the verbs accepted in call annotations. The set is
// validation-only; the verb itself is passed through to the transport client
// without interpretation.
var httpVerbs = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// validateSchema checks a parsed annotation against its kind's shape.
func validateSchema(a *ParsedAnnotation) error {
	switch a.Type {
	case ServiceAnnotation:
		// The marker carries no information beyond its presence.
		if a.HTTPMethod != "" || a.Path != "" {
			return ParseError{
				Message:    "service annotation takes no parameters",
				Location:   a.Location,
				Suggestion: "Use //clientwire::service on its own line",
			}
		}
	case CallAnnotation:
		if a.HTTPMethod == "" || a.Path == "" {
			return ParseError{
				Message:    "call annotation requires an HTTP method and a path",
				Location:   a.Location,
				Suggestion: "Use format: //clientwire::call GET /users/{id}",
			}
		}
		verb := strings.ToUpper(a.HTTPMethod)
		if !httpVerbs[verb] {
			return ParseError{
				Message:    fmt.Sprintf("unknown HTTP method %q", a.HTTPMethod),
				Location:   a.Location,
				Suggestion: "Use one of: GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS",
			}
		}
		a.HTTPMethod = verb
		if !strings.HasPrefix(a.Path, "/") {
			return ParseError{
				Message:    fmt.Sprintf("path %q must start with '/'", a.Path),
				Location:   a.Location,
				Suggestion: "Use an absolute path template like /users/{id}",
			}
		}
	}
	return nil
}
