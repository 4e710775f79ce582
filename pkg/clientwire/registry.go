package clientwire

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// PropertyPostProcessor rewrites definition property values before any
// instance is built. Placeholder substitution is the canonical
// implementation; the scan pass also runs every registered processor over
// its own configuration ahead of normal processing.
type PropertyPostProcessor interface {
	PostProcessProperties(r *Registry) error
}

// Registry is the bean-definition registry: a name-keyed set of definitions
// plus the singleton instances built from them. Registration happens
// single-threaded during startup; resolution may be triggered from any
// goroutine for lazy definitions, so the instance cache is mutex-guarded.
type Registry struct {
	mu             sync.Mutex
	definitions    map[string]*Definition
	order          []string
	instances      map[string]any
	postProcessors []PropertyPostProcessor
	logger         *log.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry's logger.
func WithLogger(logger *log.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		definitions: make(map[string]*Definition),
		instances:   make(map[string]any),
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *log.Logger {
	return r.logger
}

// Register adds a definition under its name. Registering a name twice is an
// error; callers that want skip-on-conflict semantics check Contains first.
func (r *Registry) Register(d *Definition) error {
	if d.Name == "" {
		return newError(CodeRegistration, "definition has no name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[d.Name]; exists {
		return newErrorf(CodeRegistration, "definition %q already registered", d.Name)
	}
	if _, exists := r.instances[d.Name]; exists {
		return newErrorf(CodeRegistration, "instance %q already registered", d.Name)
	}
	r.definitions[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// RegisterInstance adds a pre-built singleton under a name.
func (r *Registry) RegisterInstance(name string, instance any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[name]; exists {
		return newErrorf(CodeRegistration, "definition %q already registered", name)
	}
	if _, exists := r.instances[name]; exists {
		return newErrorf(CodeRegistration, "instance %q already registered", name)
	}
	r.instances[name] = instance
	r.order = append(r.order, name)
	return nil
}

// Contains reports whether a definition or instance exists under the name.
func (r *Registry) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, hasDef := r.definitions[name]
	_, hasInst := r.instances[name]
	return hasDef || hasInst
}

// Definition returns the registered definition for a name.
func (r *Registry) Definition(name string) (*Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.definitions[name]
	return d, ok
}

// DefinitionNames returns all registered names in registration order.
func (r *Registry) DefinitionNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// AddPropertyPostProcessor registers a property post-processor. Processors
// run in registration order.
func (r *Registry) AddPropertyPostProcessor(p PropertyPostProcessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postProcessors = append(r.postProcessors, p)
}

// PropertyPostProcessors returns the registered processors in order.
func (r *Registry) PropertyPostProcessors() []PropertyPostProcessor {
	r.mu.Lock()
	defer r.mu.Unlock()
	procs := make([]PropertyPostProcessor, len(r.postProcessors))
	copy(procs, r.postProcessors)
	return procs
}

// Resolve returns the singleton instance for a name, building it on first
// use. Definitions whose builder yields a FactoryObject resolve to the
// factory's product.
func (r *Registry) Resolve(name string) (any, error) {
	r.mu.Lock()
	if inst, ok := r.instances[name]; ok {
		r.mu.Unlock()
		return inst, nil
	}
	d, ok := r.definitions[name]
	r.mu.Unlock()
	if !ok {
		return nil, newErrorf(CodeDependency, "no definition registered for %q", name)
	}

	instance, err := r.build(d)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have built the same lazy definition first; the
	// first stored instance wins so singleton semantics hold.
	if existing, ok := r.instances[name]; ok {
		return existing, nil
	}
	r.instances[name] = instance
	return instance, nil
}

// ResolveType returns the single registered candidate assignable to t.
// Zero or multiple candidates is a dependency error, matching
// autowire-by-type semantics.
func (r *Registry) ResolveType(t reflect.Type) (any, error) {
	names := r.candidatesFor(t)
	switch len(names) {
	case 0:
		return nil, newErrorf(CodeDependency, "no candidate of type %s registered", t)
	case 1:
		return r.Resolve(names[0])
	default:
		sort.Strings(names)
		return nil, newErrorf(CodeDependency, "expected a single candidate of type %s, found %d: %v", t, len(names), names)
	}
}

// candidatesFor collects the names of definitions and instances whose
// produced type is assignable to t.
func (r *Registry) candidatesFor(t reflect.Type) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for name, inst := range r.instances {
		if instanceAssignable(inst, t) {
			names = append(names, name)
		}
	}
	for name, d := range r.definitions {
		if _, resolved := r.instances[name]; resolved {
			continue
		}
		if typeAssignable(d.ProducedType(), t) {
			names = append(names, name)
		}
	}
	return names
}

// Start eagerly builds every non-lazy definition, in registration order.
// A build failure aborts startup.
func (r *Registry) Start() error {
	for _, name := range r.DefinitionNames() {
		d, ok := r.Definition(name)
		if !ok || d.Lazy {
			continue
		}
		if _, err := r.Resolve(name); err != nil {
			return fmt.Errorf("starting %q: %w", name, err)
		}
	}
	return nil
}

// build runs a definition's builder and unwraps factory objects.
func (r *Registry) build(d *Definition) (any, error) {
	if d.Build == nil {
		return nil, newErrorf(CodeDependency, "definition %q has no builder", d.Name)
	}
	obj, err := d.Build(r, d)
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", d.Name, err)
	}
	if factory, ok := obj.(FactoryObject); ok {
		product, err := factory.Object()
		if err != nil {
			return nil, fmt.Errorf("producing %q: %w", d.Name, err)
		}
		return product, nil
	}
	return obj, nil
}

func instanceAssignable(instance any, t reflect.Type) bool {
	if instance == nil {
		return false
	}
	return typeAssignable(reflect.TypeOf(instance), t)
}

func typeAssignable(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from == to {
		return true
	}
	return from.AssignableTo(to)
}
