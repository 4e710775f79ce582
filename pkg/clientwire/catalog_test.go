package clientwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingService interface {
	Charge(amount int) error
}

type shippingService interface {
	Ship(order string) error
}

func testBinding(name, importPath string) Binding {
	switch name {
	case "BillingService":
		return Binding{
			Type:       TypeOf[billingService](),
			ImportPath: importPath,
			Name:       name,
			New:        func(c Client) any { return nil },
		}
	default:
		return Binding{
			Type:       TypeOf[shippingService](),
			ImportPath: importPath,
			Name:       name,
			New:        func(c Client) any { return nil },
		}
	}
}

func TestCatalog_RegisterAndLookup(t *testing.T) {
	catalog := NewCatalog()

	b := testBinding("BillingService", "example.com/app/billing")
	require.NoError(t, catalog.Register(b))

	found, ok := catalog.Lookup(TypeOf[billingService]())
	require.True(t, ok)
	assert.Equal(t, "BillingService", found.Name)

	_, ok = catalog.Lookup(TypeOf[shippingService]())
	assert.False(t, ok)
}

func TestCatalog_DuplicateTypeKeepsFirst(t *testing.T) {
	catalog := NewCatalog()

	first := testBinding("BillingService", "example.com/app/billing")
	require.NoError(t, catalog.Register(first))

	second := testBinding("BillingService", "example.com/app/other")
	err := catalog.Register(second)
	require.Error(t, err)

	found, ok := catalog.Lookup(TypeOf[billingService]())
	require.True(t, ok)
	assert.Equal(t, "example.com/app/billing", found.ImportPath)
}

func TestCatalog_RejectsIncompleteBindings(t *testing.T) {
	catalog := NewCatalog()

	err := catalog.Register(Binding{Name: "NoType", New: func(c Client) any { return nil }})
	require.Error(t, err)

	err = catalog.Register(Binding{Type: TypeOf[billingService](), Name: "NoConstructor"})
	require.Error(t, err)
}

func TestCatalog_BindingsPreserveRegistrationOrder(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testBinding("BillingService", "example.com/app/billing")))
	require.NoError(t, catalog.Register(testBinding("ShippingService", "example.com/app/shipping")))

	bindings := catalog.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "BillingService", bindings[0].Name)
	assert.Equal(t, "ShippingService", bindings[1].Name)
}

func TestCatalog_Match(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testBinding("BillingService", "example.com/app/billing")))
	require.NoError(t, catalog.Register(testBinding("ShippingService", "example.com/app/shipping/express")))

	tests := []struct {
		name     string
		patterns []string
		expected []string
	}{
		{"exact match", []string{"example.com/app/billing"}, []string{"BillingService"}},
		{"recursive pattern", []string{"example.com/app/..."}, []string{"BillingService", "ShippingService"}},
		{"recursive pattern matches base package", []string{"example.com/app/billing/..."}, []string{"BillingService"}},
		{"prefix without wildcard does not match children", []string{"example.com/app"}, nil},
		{"no match", []string{"example.com/elsewhere/..."}, nil},
		{"empty pattern", []string{""}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, b := range catalog.Match(tt.patterns) {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}
