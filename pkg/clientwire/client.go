package clientwire

import (
	"context"
	"fmt"
	"reflect"
)

// Call identifies one remote operation. The HTTP method and path template
// come straight from the source annotation; this package carries them to the
// transport client without interpreting them.
type Call struct {
	// Service is the target interface's identifier.
	Service string

	// Method is the invoked method's identifier.
	Method string

	// HTTPMethod is the annotated HTTP verb, empty when the method carries
	// no call annotation.
	HTTPMethod string

	// Path is the annotated path template, with {param} segments filled
	// from positional arguments. Empty when the method carries no call
	// annotation.
	Path string
}

// String returns the dotted operation name.
func (c Call) String() string {
	return fmt.Sprintf("%s.%s", c.Service, c.Method)
}

// Client is the transport collaborator. Create is the only operation the
// registration machinery uses; Invoke is what generated adapters delegate
// every interface method to.
type Client interface {
	// Create synthesizes the proxy implementing the target interface type,
	// caching per type so repeated calls return the same instance.
	Create(target reflect.Type) (any, error)

	// Invoke performs one remote call. args are the method's arguments in
	// declaration order, excluding any leading context. out, when non-nil,
	// receives the decoded response.
	Invoke(ctx context.Context, call Call, args []any, out any) error
}
