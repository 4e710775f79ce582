package clientwire

import "reflect"

// AutowireMode controls how a definition's unset dependencies are satisfied
// at resolution time.
type AutowireMode int

const (
	// AutowireNone leaves dependency selection entirely to explicit
	// property references.
	AutowireNone AutowireMode = iota

	// AutowireByType selects the single registered candidate assignable to
	// the dependency's type. Resolution fails if zero or more than one
	// candidate exists.
	AutowireByType
)

// FactoryObjectTypeAttribute is the definition attribute recording the true
// produced type of a factory-backed definition. Tooling that introspects
// produced types reads this attribute to recover the target interface
// instead of the factory's own type.
const FactoryObjectTypeAttribute = "factoryObjectType"

// Ref is a by-name reference to another definition. Storing a Ref as a
// property value defers resolution until the owning definition is built, so
// the referenced object does not need to exist at registration time.
type Ref struct {
	Name string
}

// Builder constructs the object described by a definition. It receives the
// owning registry so it can resolve the definition's own dependencies.
type Builder func(r *Registry, d *Definition) (any, error)

// FactoryObject is implemented by objects whose sole responsibility is
// producing another object. A definition whose builder returns a
// FactoryObject resolves to the factory's product, and type-based lookup
// matches against ObjectType rather than the factory type.
type FactoryObject interface {
	// Object returns the produced instance.
	Object() (any, error)

	// ObjectType returns the type of the produced instance.
	ObjectType() reflect.Type

	// Singleton reports whether the product is shared for the lifetime of
	// the registry.
	Singleton() bool
}

// Definition describes how to construct and wire a single managed object. It
// is the mutable registration record owned by a Registry: registration-phase
// code (the scan pass in particular) mutates it in place before any instance
// is built.
type Definition struct {
	// Name is the registry key for this definition.
	Name string

	// Type is the declared bean type. The scan pass rewrites this from the
	// discovered interface type to the client factory type.
	Type reflect.Type

	// ConstructorArgs are positional construction inputs. For factory-backed
	// definitions the first argument is the target interface's type token.
	ConstructorArgs []any

	// Autowire selects the dependency-resolution mode for properties that
	// have no explicit reference.
	Autowire AutowireMode

	// Lazy defers instantiation until first resolution instead of Start.
	Lazy bool

	// Build constructs the object. Definitions registered without a builder
	// can only be satisfied by a pre-registered instance.
	Build Builder

	properties map[string]any
	attributes map[string]any
}

// NewDefinition creates a definition for the given name and bean type.
func NewDefinition(name string, typ reflect.Type) *Definition {
	return &Definition{
		Name:       name,
		Type:       typ,
		properties: make(map[string]any),
		attributes: make(map[string]any),
	}
}

// AddConstructorArg appends a positional constructor argument.
func (d *Definition) AddConstructorArg(arg any) *Definition {
	d.ConstructorArgs = append(d.ConstructorArgs, arg)
	return d
}

// SetProperty binds a named property value. A Ref value defers to another
// definition by name.
func (d *Definition) SetProperty(key string, value any) *Definition {
	d.properties[key] = value
	return d
}

// Property returns a bound property value.
func (d *Definition) Property(key string) (any, bool) {
	v, ok := d.properties[key]
	return v, ok
}

// PropertyNames returns the names of all bound properties.
func (d *Definition) PropertyNames() []string {
	names := make([]string, 0, len(d.properties))
	for k := range d.properties {
		names = append(names, k)
	}
	return names
}

// SetAttribute stamps auxiliary metadata on the definition. Attributes never
// influence construction; they exist for introspection.
func (d *Definition) SetAttribute(key string, value any) *Definition {
	d.attributes[key] = value
	return d
}

// Attribute returns auxiliary metadata stamped on the definition.
func (d *Definition) Attribute(key string) (any, bool) {
	v, ok := d.attributes[key]
	return v, ok
}

// ProducedType returns the type this definition resolves to: the
// FactoryObjectTypeAttribute when present, the declared bean type otherwise.
func (d *Definition) ProducedType() reflect.Type {
	if v, ok := d.attributes[FactoryObjectTypeAttribute]; ok {
		if t, ok := v.(reflect.Type); ok {
			return t
		}
	}
	return d.Type
}

// TypeOf returns the reflect.Type token for T. For interface types this is
// the interface type itself, not a pointer to it.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
