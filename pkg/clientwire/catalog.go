package clientwire

import (
	"reflect"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Binding records a discovered service interface and the constructor for its
// generated adapter. Generated code registers one binding per marked
// interface; hosts that skip code generation can register bindings
// explicitly.
type Binding struct {
	// Type is the interface's type token.
	Type reflect.Type

	// ImportPath is the package the interface was declared in.
	ImportPath string

	// Name is the interface identifier within its package.
	Name string

	// New constructs the adapter implementing Type on top of a transport
	// client.
	New func(Client) any
}

// Catalog is the registry of service bindings available to scan passes,
// keyed by interface type. Registration order is preserved so scans are
// deterministic.
type Catalog struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Binding
	order  []reflect.Type
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byType: make(map[reflect.Type]Binding),
	}
}

// Register adds a binding. A second binding for the same interface type is
// rejected; the first registration wins.
func (c *Catalog) Register(b Binding) error {
	if b.Type == nil {
		return newError(CodeRegistration, "binding has no type token")
	}
	if b.New == nil {
		return newErrorf(CodeRegistration, "binding %s has no constructor", b.Type)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byType[b.Type]; exists {
		return newErrorf(CodeRegistration, "binding for %s already registered", b.Type)
	}
	c.byType[b.Type] = b
	c.order = append(c.order, b.Type)
	return nil
}

// Lookup returns the binding for an interface type.
func (c *Catalog) Lookup(t reflect.Type) (Binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byType[t]
	return b, ok
}

// Bindings returns all bindings in registration order.
func (c *Catalog) Bindings() []Binding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Binding, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.byType[t])
	}
	return out
}

// Match returns the bindings whose import path falls under any of the given
// package patterns, in registration order. A pattern matches its own package
// exactly; a trailing "/..." matches the package and everything below it.
func (c *Catalog) Match(patterns []string) []Binding {
	var out []Binding
	for _, b := range c.Bindings() {
		for _, pattern := range patterns {
			if matchPackage(b.ImportPath, pattern) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// matchPackage reports whether importPath falls under pattern.
func matchPackage(importPath, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		return importPath == base || strings.HasPrefix(importPath, base+"/")
	}
	return importPath == pattern
}

// DefaultCatalog is the process-wide catalog populated by generated init
// functions.
var DefaultCatalog = NewCatalog()

// RegisterBinding adds a binding to the default catalog. Duplicate types are
// logged at warning level and skipped; the first registration wins. Generated
// code calls this from init, where returning an error has nowhere to go.
func RegisterBinding(b Binding) {
	if err := DefaultCatalog.Register(b); err != nil {
		log.Warn("skipping duplicate service binding", "type", b.Type, "err", err)
	}
}
