// Package props provides property sources and ${...} placeholder expansion
// for configuration strings.
package props

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source supplies property values by key.
type Source interface {
	Lookup(key string) (string, bool)
}

// MapSource is an in-memory property source.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvSource resolves properties from the process environment.
type EnvSource struct{}

// Lookup implements Source.
func (EnvSource) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// LoadYAML loads a YAML file into a flat property source. Nested mappings
// flatten with dot-joined keys, so "scan: {package: x}" resolves as
// "scan.package".
func LoadYAML(path string) (Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading properties file: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parsing properties file %s: %w", path, err)
	}
	flat := MapSource{}
	flatten("", tree, flat)
	return flat, nil
}

func flatten(prefix string, tree map[string]any, into MapSource) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, into)
		default:
			into[full] = fmt.Sprintf("%v", v)
		}
	}
}

// LoadDotenv loads a dotenv file into a property source without touching the
// process environment.
func LoadDotenv(path string) (Source, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading dotenv file: %w", err)
	}
	return MapSource(values), nil
}

// Expand substitutes every ${key} and ${key:default} token in s using the
// first source that knows the key. Tokens no source can resolve and that
// carry no default are left untouched.
func Expand(s string, sources ...Source) string {
	var sb strings.Builder
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			sb.WriteString(s)
			return sb.String()
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			sb.WriteString(s)
			return sb.String()
		}
		end += start

		sb.WriteString(s[:start])
		token := s[start+2 : end]
		key, fallback, hasFallback := strings.Cut(token, ":")

		if value, ok := lookup(key, sources); ok {
			sb.WriteString(value)
		} else if hasFallback {
			sb.WriteString(fallback)
		} else {
			sb.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
}

// HasPlaceholder reports whether s contains an unexpanded ${...} token.
func HasPlaceholder(s string) bool {
	start := strings.Index(s, "${")
	return start != -1 && strings.Contains(s[start:], "}")
}

func lookup(key string, sources []Source) (string, bool) {
	for _, source := range sources {
		if source == nil {
			continue
		}
		if v, ok := source.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
