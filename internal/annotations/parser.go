package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Parser parses clientwire annotation comments using a participle grammar.
type Parser struct {
	grammar *participle.Parser[annotationGrammar]
}

// annotationGrammar is the root of a clientwire annotation comment:
//
//	//clientwire::service
//	//clientwire::call GET /users/{id}
type annotationGrammar struct {
	Kind string `parser:"Comment Prefix Separator @Ident"`
	Verb string `parser:"@Ident?"`
	Path string `parser:"@Path?"`
}

// NewParser creates an annotation parser.
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//`},
		{Name: "Prefix", Pattern: `clientwire`},
		{Name: "Separator", Pattern: `::`},
		{Name: "Path", Pattern: `/[^\s]*`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	grammar := participle.MustBuild[annotationGrammar](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &Parser{grammar: grammar}
}

// IsAnnotation reports whether a comment line carries the clientwire prefix.
// Non-annotation comments are ordinary documentation, not errors.
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(comment)
	text = strings.TrimPrefix(text, "//")
	return strings.HasPrefix(strings.TrimSpace(text), Prefix)
}

// Parse parses one annotation comment. The comment must carry the
// clientwire prefix; check IsAnnotation first for plain comments.
func (p *Parser) Parse(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	if !IsAnnotation(comment) {
		return nil, ParseError{
			Message:    "comment is not a clientwire annotation",
			Location:   location,
			Suggestion: "Use format: //clientwire::service or //clientwire::call METHOD /path",
		}
	}

	parsed, err := p.grammar.ParseString(location.File, strings.TrimSpace(comment))
	if err != nil {
		return nil, ParseError{
			Message:    err.Error(),
			Location:   location,
			Suggestion: "Use format: //clientwire::service or //clientwire::call METHOD /path",
		}
	}

	kind, err := ParseAnnotationType(parsed.Kind)
	if err != nil {
		return nil, ParseError{
			Message:    err.Error(),
			Location:   location,
			Suggestion: "Use one of: service, call",
		}
	}

	annotation := &ParsedAnnotation{
		Type:       kind,
		HTTPMethod: parsed.Verb,
		Path:       parsed.Path,
		Location:   location,
		Raw:        comment,
	}

	if err := validateSchema(annotation); err != nil {
		return nil, err
	}
	return annotation, nil
}
