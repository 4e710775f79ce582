package clientwire

import (
	"github.com/clientwire/clientwire/pkg/clientwire/props"
)

// PlaceholderConfigurer is a PropertyPostProcessor that expands ${...}
// tokens in every definition's string property values against a list of
// property sources. Register one per configuration source (YAML file,
// dotenv file, in-memory map).
type PlaceholderConfigurer struct {
	Sources []props.Source
}

// NewPlaceholderConfigurer creates a configurer over the given sources.
func NewPlaceholderConfigurer(sources ...props.Source) *PlaceholderConfigurer {
	return &PlaceholderConfigurer{Sources: sources}
}

// PostProcessProperties implements PropertyPostProcessor. Only string-valued
// properties are rewritten; references and structured values pass through.
func (p *PlaceholderConfigurer) PostProcessProperties(r *Registry) error {
	for _, name := range r.DefinitionNames() {
		d, ok := r.Definition(name)
		if !ok {
			continue
		}
		for _, key := range d.PropertyNames() {
			value, _ := d.Property(key)
			if s, ok := value.(string); ok && props.HasPlaceholder(s) {
				d.SetProperty(key, props.Expand(s, p.Sources...))
			}
		}
	}
	return nil
}
