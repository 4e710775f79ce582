package clientwire

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientwire/clientwire/pkg/clientwire/props"
)

// userService mirrors a generated service interface for scan tests.
type userService interface {
	GetUser(ctx context.Context, id string) (string, error)
}

type userServiceStub struct{}

func (userServiceStub) GetUser(ctx context.Context, id string) (string, error) {
	return "user-" + id, nil
}

type orderService interface {
	GetOrder(ctx context.Context, id string) (string, error)
}

type orderServiceStub struct{}

func (orderServiceStub) GetOrder(ctx context.Context, id string) (string, error) {
	return "order-" + id, nil
}

// fakeClient satisfies Client for registration tests without any transport.
type fakeClient struct {
	catalog *Catalog
	created []reflect.Type
}

func newFakeClient(catalog *Catalog) *fakeClient {
	return &fakeClient{catalog: catalog}
}

func (f *fakeClient) Create(target reflect.Type) (any, error) {
	binding, ok := f.catalog.Lookup(target)
	if !ok {
		return nil, newErrorf(CodeTransport, "no binding for %s", target)
	}
	f.created = append(f.created, target)
	return binding.New(f), nil
}

func (f *fakeClient) Invoke(ctx context.Context, call Call, args []any, out any) error {
	return nil
}

func userCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(Binding{
		Type:       TypeOf[userService](),
		ImportPath: "example.com/app/internal/services",
		Name:       "UserService",
		New:        func(c Client) any { return userServiceStub{} },
	}))
	return catalog
}

func TestScanner_RegistersFactoryBackedDefinition(t *testing.T) {
	catalog := userCatalog(t)
	registry := NewRegistry()
	require.NoError(t, registry.RegisterInstance("httpClient", newFakeClient(catalog)))

	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/internal/services"},
	}, WithScannerCatalog(catalog))

	registered, err := scanner.Register()
	require.NoError(t, err)
	require.Len(t, registered, 1)

	d := registered[0]
	assert.Equal(t, "userService", d.Name)
	assert.Equal(t, clientFactoryType, d.Type)
	require.Len(t, d.ConstructorArgs, 1)
	assert.Equal(t, TypeOf[userService](), d.ConstructorArgs[0])

	// The produced type is the interface, not the factory
	assert.Equal(t, TypeOf[userService](), d.ProducedType())

	// Type-based lookup works against the interface
	resolved, err := registry.ResolveType(TypeOf[userService]())
	require.NoError(t, err)
	name, err := resolved.(userService).GetUser(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "user-7", name)
}

func TestScanner_MissingBasePackagesIsFatal(t *testing.T) {
	registry := NewRegistry()

	_, err := NewScanner(registry, ScanOptions{}).Register()
	require.Error(t, err)
	assert.True(t, errors.Is(err, &Error{Code: CodeConfiguration}))
}

func TestScanner_EmptyScanIsNotAnError(t *testing.T) {
	registry := NewRegistry()

	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/internal/nothing"},
	}, WithScannerCatalog(NewCatalog()))

	registered, err := scanner.Register()
	require.NoError(t, err)
	assert.Empty(t, registered)
	assert.Empty(t, registry.DefinitionNames())
}

func TestScanner_PackagePatterns(t *testing.T) {
	catalog := userCatalog(t)
	require.NoError(t, catalog.Register(Binding{
		Type:       TypeOf[orderService](),
		ImportPath: "example.com/other/orders",
		Name:       "OrderService",
		New:        func(c Client) any { return orderServiceStub{} },
	}))

	registry := NewRegistry()
	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/..."},
	}, WithScannerCatalog(catalog))

	registered, err := scanner.Register()
	require.NoError(t, err)
	require.Len(t, registered, 1)
	assert.Equal(t, "userService", registered[0].Name)
}

func TestScanner_BasePackageTypes(t *testing.T) {
	t.Run("type token scans its declaring package", func(t *testing.T) {
		catalog := userCatalog(t)
		require.NoError(t, catalog.Register(Binding{
			Type:       TypeOf[orderService](),
			ImportPath: "example.com/app/internal/services",
			Name:       "OrderService",
			New:        func(c Client) any { return orderServiceStub{} },
		}))

		registry := NewRegistry()
		require.NoError(t, registry.RegisterInstance("httpClient", newFakeClient(catalog)))

		scanner := NewScanner(registry, ScanOptions{
			BasePackageTypes: []reflect.Type{TypeOf[userService]()},
		}, WithScannerCatalog(catalog))

		// The whole package matches, not just the named type
		registered, err := scanner.Register()
		require.NoError(t, err)
		require.Len(t, registered, 2)
		assert.Equal(t, "userService", registered[0].Name)
		assert.Equal(t, "orderService", registered[1].Name)
	})

	t.Run("combines with base packages", func(t *testing.T) {
		catalog := userCatalog(t)
		require.NoError(t, catalog.Register(Binding{
			Type:       TypeOf[orderService](),
			ImportPath: "example.com/other/orders",
			Name:       "OrderService",
			New:        func(c Client) any { return orderServiceStub{} },
		}))

		registry := NewRegistry()
		scanner := NewScanner(registry, ScanOptions{
			BasePackages:     []string{"example.com/other/orders"},
			BasePackageTypes: []reflect.Type{TypeOf[userService]()},
		}, WithScannerCatalog(catalog))

		registered, err := scanner.Register()
		require.NoError(t, err)
		assert.Len(t, registered, 2)
	})

	t.Run("uncataloged type falls back to its own package path", func(t *testing.T) {
		catalog := NewCatalog()
		require.NoError(t, catalog.Register(Binding{
			Type:       TypeOf[userService](),
			ImportPath: TypeOf[greeter]().PkgPath(),
			Name:       "UserService",
			New:        func(c Client) any { return userServiceStub{} },
		}))

		registry := NewRegistry()
		scanner := NewScanner(registry, ScanOptions{
			BasePackageTypes: []reflect.Type{TypeOf[greeter]()},
		}, WithScannerCatalog(catalog))

		registered, err := scanner.Register()
		require.NoError(t, err)
		require.Len(t, registered, 1)
		assert.Equal(t, "userService", registered[0].Name)
	})

	t.Run("type without a package is a configuration error", func(t *testing.T) {
		anonymous := reflect.TypeOf((*interface{ Do() })(nil)).Elem()

		registry := NewRegistry()
		scanner := NewScanner(registry, ScanOptions{
			BasePackageTypes: []reflect.Type{anonymous},
		}, WithScannerCatalog(NewCatalog()))

		_, err := scanner.Register()
		require.Error(t, err)
		assert.True(t, errors.Is(err, &Error{Code: CodeConfiguration}))
	})
}

func TestScanner_DuplicateBeanNameSkipsNewRegistration(t *testing.T) {
	// Two different interfaces that derive the same bean name
	type UserService interface {
		Get(ctx context.Context) (string, error)
	}

	catalog := userCatalog(t)
	require.NoError(t, catalog.Register(Binding{
		Type:       TypeOf[UserService](),
		ImportPath: "example.com/app/internal/other",
		Name:       "UserService",
		New:        func(c Client) any { return nil },
	}))

	registry := NewRegistry()
	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/..."},
	}, WithScannerCatalog(catalog))

	registered, err := scanner.Register()
	require.NoError(t, err)

	// First registration wins, the collision is skipped
	require.Len(t, registered, 1)
	d, ok := registry.Definition("userService")
	require.True(t, ok)
	assert.Equal(t, TypeOf[userService](), d.ProducedType())
}

func TestScanner_ClientRefBindsNamedReference(t *testing.T) {
	catalog := userCatalog(t)
	registry := NewRegistry()

	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/internal/services"},
		ClientRef:    "backendClient",
	}, WithScannerCatalog(catalog))

	registered, err := scanner.Register()
	require.NoError(t, err)
	require.Len(t, registered, 1)

	d := registered[0]
	value, ok := d.Property(clientProperty)
	require.True(t, ok)
	assert.Equal(t, Ref{Name: "backendClient"}, value)
	assert.Equal(t, AutowireNone, d.Autowire)

	// The referenced client may be registered after the scan
	require.NoError(t, registry.RegisterInstance("backendClient", newFakeClient(catalog)))

	resolved, err := registry.Resolve("userService")
	require.NoError(t, err)
	_, ok = resolved.(userService)
	assert.True(t, ok)
}

func TestScanner_NoClientRefAutowiresByType(t *testing.T) {
	catalog := userCatalog(t)
	registry := NewRegistry()
	require.NoError(t, registry.RegisterInstance("onlyClient", newFakeClient(catalog)))

	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/internal/services"},
	}, WithScannerCatalog(catalog))

	registered, err := scanner.Register()
	require.NoError(t, err)
	require.Len(t, registered, 1)
	assert.Equal(t, AutowireByType, registered[0].Autowire)

	_, err = registry.Resolve("userService")
	require.NoError(t, err)
}

func TestScanner_AmbiguousClientFailsAtResolution(t *testing.T) {
	catalog := userCatalog(t)
	registry := NewRegistry()
	require.NoError(t, registry.RegisterInstance("clientA", newFakeClient(catalog)))
	require.NoError(t, registry.RegisterInstance("clientB", newFakeClient(catalog)))

	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/internal/services"},
	}, WithScannerCatalog(catalog))

	_, err := scanner.Register()
	require.NoError(t, err, "registration succeeds, ambiguity is deferred")

	_, err = registry.Resolve("userService")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &Error{Code: CodeDependency}))
}

func TestScanner_LazyDefersProxyConstruction(t *testing.T) {
	catalog := userCatalog(t)
	client := newFakeClient(catalog)
	registry := NewRegistry()
	require.NoError(t, registry.RegisterInstance("httpClient", client))

	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/internal/services"},
		Lazy:         "true",
	}, WithScannerCatalog(catalog))

	registered, err := scanner.Register()
	require.NoError(t, err)
	require.Len(t, registered, 1)
	assert.True(t, registered[0].Lazy)

	require.NoError(t, registry.Start())
	assert.Empty(t, client.created, "lazy proxy must not be built at startup")

	_, err = registry.Resolve("userService")
	require.NoError(t, err)
	assert.Equal(t, []reflect.Type{TypeOf[userService]()}, client.created)
}

func TestScanner_InvalidLazyFlag(t *testing.T) {
	registry := NewRegistry()
	scanner := NewScanner(registry, ScanOptions{
		BasePackages: []string{"example.com/app/..."},
		Lazy:         "maybe",
	}, WithScannerCatalog(NewCatalog()))

	_, err := scanner.Register()
	require.Error(t, err)
	assert.True(t, errors.Is(err, &Error{Code: CodeConfiguration}))
}

func TestScanner_PlaceholderResolution(t *testing.T) {
	catalog := userCatalog(t)

	t.Run("registered post-processors run first", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.RegisterInstance("backendClient", newFakeClient(catalog)))
		registry.AddPropertyPostProcessor(NewPlaceholderConfigurer(props.MapSource{
			"scan.package": "example.com/app/internal/services",
			"scan.client":  "backendClient",
			"scan.lazy":    "true",
		}))

		scanner := NewScanner(registry, ScanOptions{
			BasePackages:        []string{"${scan.package}"},
			ClientRef:           "${scan.client}",
			Lazy:                "${scan.lazy}",
			ResolvePlaceholders: true,
		}, WithScannerCatalog(catalog))

		registered, err := scanner.Register()
		require.NoError(t, err)
		require.Len(t, registered, 1)
		assert.Equal(t, "userService", registered[0].Name)
		assert.True(t, registered[0].Lazy)
		value, _ := registered[0].Property(clientProperty)
		assert.Equal(t, Ref{Name: "backendClient"}, value)
	})

	t.Run("environment is the fallback", func(t *testing.T) {
		t.Setenv("SCAN_PACKAGE", "example.com/app/internal/services")

		registry := NewRegistry()
		require.NoError(t, registry.RegisterInstance("httpClient", newFakeClient(catalog)))

		scanner := NewScanner(registry, ScanOptions{
			BasePackages:        []string{"${SCAN_PACKAGE}"},
			ResolvePlaceholders: true,
		}, WithScannerCatalog(catalog))

		registered, err := scanner.Register()
		require.NoError(t, err)
		require.Len(t, registered, 1)
	})

	t.Run("no processors and no env leaves values as-is", func(t *testing.T) {
		registry := NewRegistry()

		scanner := NewScanner(registry, ScanOptions{
			BasePackages:        []string{"${scan.unresolved}"},
			ResolvePlaceholders: true,
		}, WithScannerCatalog(catalog))

		registered, err := scanner.Register()
		require.NoError(t, err)
		assert.Empty(t, registered)
	})

	t.Run("comma separated package lists split after substitution", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.RegisterInstance("httpClient", newFakeClient(catalog)))
		registry.AddPropertyPostProcessor(NewPlaceholderConfigurer(props.MapSource{
			"scan.packages": "example.com/app/internal/services,example.com/other/...",
		}))

		scanner := NewScanner(registry, ScanOptions{
			BasePackages:        []string{"${scan.packages}"},
			ResolvePlaceholders: true,
		}, WithScannerCatalog(catalog))

		registered, err := scanner.Register()
		require.NoError(t, err)
		require.Len(t, registered, 1)
	})
}

func TestBeanName(t *testing.T) {
	tests := []struct {
		identifier string
		expected   string
	}{
		{"UserService", "userService"},
		{"API", "aPI"},
		{"orderService", "orderService"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, beanName(tt.identifier))
	}
}
