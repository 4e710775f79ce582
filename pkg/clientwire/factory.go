package clientwire

import (
	"reflect"
	"sync"
)

// clientFactory produces the client proxy for a single target interface. It
// is the bean type the scan pass swaps in for every discovered interface:
// the interface itself cannot be instantiated, so the definition is rewritten
// to build one of these instead.
//
// The factory declares its produced type as the target interface so
// type-based lookup and autowiring match against the interface, never the
// factory.
type clientFactory struct {
	target reflect.Type
	client Client

	once   sync.Once
	object any
	err    error
}

// clientFactoryType is the bean type stamped on rewritten definitions.
var clientFactoryType = reflect.TypeOf((*clientFactory)(nil))

func newClientFactory(target reflect.Type, client Client) *clientFactory {
	return &clientFactory{target: target, client: client}
}

// Object synthesizes the proxy on first call and returns the same instance
// afterwards. The transport client additionally memoizes per target type, so
// even two factories for the same interface share one proxy.
func (f *clientFactory) Object() (any, error) {
	f.once.Do(func() {
		f.object, f.err = f.client.Create(f.target)
	})
	return f.object, f.err
}

// ObjectType returns the target interface type.
func (f *clientFactory) ObjectType() reflect.Type {
	return f.target
}

// Singleton reports that the proxy is shared for the registry's lifetime.
func (f *clientFactory) Singleton() bool {
	return true
}
