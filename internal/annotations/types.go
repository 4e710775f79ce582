package annotations

import "fmt"

// Prefix is the comment marker all clientwire annotations start with.
const Prefix = "clientwire::"

// AnnotationType identifies the kind of a parsed annotation.
type AnnotationType int

const (
	// ServiceAnnotation is the type-level marker flagging an interface as a
	// remote HTTP service to be proxied. It takes no parameters.
	ServiceAnnotation AnnotationType = iota

	// CallAnnotation is the optional method-level annotation carrying an
	// HTTP verb and path template. The values are passed through to the
	// transport client verbatim and never interpreted here.
	CallAnnotation
)

// String returns the annotation keyword.
func (t AnnotationType) String() string {
	switch t {
	case ServiceAnnotation:
		return "service"
	case CallAnnotation:
		return "call"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts an annotation keyword to its type.
func ParseAnnotationType(keyword string) (AnnotationType, error) {
	switch keyword {
	case "service":
		return ServiceAnnotation, nil
	case "call":
		return CallAnnotation, nil
	default:
		return ServiceAnnotation, fmt.Errorf("unknown annotation type %q", keyword)
	}
}

// SourceLocation records where an annotation appeared.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// String returns a formatted file:line:column representation.
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// ParsedAnnotation is the result of parsing one annotation comment.
type ParsedAnnotation struct {
	Type AnnotationType

	// HTTPMethod and Path are set for call annotations only.
	HTTPMethod string
	Path       string

	Location SourceLocation
	Raw      string
}
