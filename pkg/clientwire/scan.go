package clientwire

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/clientwire/clientwire/pkg/clientwire/props"
)

// scanOptionsName is the definition name the scanner registers its own
// configuration under when running placeholder pre-resolution.
const scanOptionsName = "clientwire.scanOptions"

// Property keys on the scanner's own configuration record and on rewritten
// service definitions.
const (
	basePackagesProperty = "basePackages"
	clientRefProperty    = "clientRef"
	lazyProperty         = "lazy"
	clientProperty       = "client"
)

// clientType is the dependency type autowired when no explicit client
// reference is configured.
var clientType = reflect.TypeOf((*Client)(nil)).Elem()

// ScanOptions configures one scan-and-register pass.
//
// BasePackages, ClientRef, and Lazy may contain ${...} placeholder tokens;
// set ResolvePlaceholders to substitute them before scanning. The scan runs
// earlier than ordinary property post-processing, so substitution for these
// values cannot be left to the registry's normal processors.
type ScanOptions struct {
	// BasePackages are the import-path patterns to scan. A trailing "/..."
	// matches a package and everything below it. At least one package or
	// package type must be configured.
	BasePackages []string `validate:"required_without=BasePackageTypes,omitempty,dive,required"`

	// BasePackageTypes are type tokens whose declaring packages become scan
	// roots, as an alternative to spelling import paths out. The package is
	// taken from the type's catalog binding when it has one, from the type
	// itself otherwise.
	BasePackageTypes []reflect.Type `validate:"required_without=BasePackages"`

	// ClientRef names the transport-client definition to bind to every
	// generated proxy. When empty, the client is autowired by type, which
	// requires exactly one Client in the registry at resolution time.
	ClientRef string

	// Lazy, parsed as a boolean after substitution, defers proxy
	// construction to first resolution instead of Start.
	Lazy string

	// ResolvePlaceholders enables placeholder substitution of these options
	// before the scan runs.
	ResolvePlaceholders bool
}

var validate = validator.New()

// Scanner walks the service-binding catalog and rewrites each discovered
// interface's registration into a factory-backed definition.
type Scanner struct {
	registry *Registry
	catalog  *Catalog
	logger   *log.Logger
	options  ScanOptions
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScannerCatalog sets the binding catalog to scan instead of the default.
func WithScannerCatalog(catalog *Catalog) ScannerOption {
	return func(s *Scanner) {
		s.catalog = catalog
	}
}

// WithScannerLogger sets the scanner's logger.
func WithScannerLogger(logger *log.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a scanner registering into the given registry.
func NewScanner(registry *Registry, options ScanOptions, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		registry: registry,
		catalog:  DefaultCatalog,
		logger:   registry.Logger(),
		options:  options,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register runs the pass: resolve placeholders if enabled, match catalog
// bindings against the base packages, and register one factory-backed
// definition per match. It returns the definitions it registered.
//
// A missing package list is a fatal configuration error. A scan that matches
// nothing logs a warning and succeeds. A bean-name collision logs a warning
// and keeps the existing registration.
func (s *Scanner) Register() ([]*Definition, error) {
	if err := validate.Struct(s.options); err != nil {
		return nil, wrapError(CodeConfiguration, "at least one base package or package type is required", err)
	}

	if s.options.ResolvePlaceholders {
		if err := s.resolvePlaceholders(); err != nil {
			return nil, err
		}
	}

	lazy := false
	if s.options.Lazy != "" {
		parsed, err := strconv.ParseBool(s.options.Lazy)
		if err != nil {
			return nil, wrapError(CodeConfiguration, "lazy flag is not a boolean", err)
		}
		lazy = parsed
	}

	roots, err := s.scanRoots()
	if err != nil {
		return nil, err
	}

	bindings := s.catalog.Match(roots)
	if len(bindings) == 0 {
		s.logger.Warn("no service interfaces found in configured packages, check your configuration",
			"packages", strings.Join(roots, ", "))
		return nil, nil
	}

	var registered []*Definition
	for _, binding := range bindings {
		name := beanName(binding.Name)
		if s.registry.Contains(name) {
			s.logger.Warn("skipping service proxy, name already registered",
				"name", name, "interface", binding.Type.String())
			continue
		}

		d := s.rewriteDefinition(name, binding, lazy)
		if err := s.registry.Register(d); err != nil {
			return registered, err
		}
		s.logger.Debug("registered service proxy factory",
			"name", name, "interface", binding.Type.String())
		registered = append(registered, d)
	}

	return registered, nil
}

// scanRoots expands the configured packages and package types into the
// pattern list handed to the catalog. A type token contributes its whole
// declaring package, so every binding in that package matches, not just the
// token's own.
func (s *Scanner) scanRoots() ([]string, error) {
	roots := append([]string(nil), s.options.BasePackages...)
	for _, t := range s.options.BasePackageTypes {
		if t == nil {
			return nil, newError(CodeConfiguration, "base package type is nil")
		}
		pkg := ""
		if binding, ok := s.catalog.Lookup(t); ok {
			pkg = binding.ImportPath
		}
		if pkg == "" {
			pkg = t.PkgPath()
		}
		if pkg == "" {
			return nil, newErrorf(CodeConfiguration, "cannot derive a package for base package type %s", t)
		}
		roots = append(roots, pkg)
	}
	return roots, nil
}

// rewriteDefinition builds the factory-backed definition for one binding.
// The declared bean type becomes the factory type, the interface's type
// token becomes a constructor argument, and the true produced type is
// stamped as an attribute so introspection recovers the interface.
func (s *Scanner) rewriteDefinition(name string, binding Binding, lazy bool) *Definition {
	d := NewDefinition(name, clientFactoryType)
	d.AddConstructorArg(binding.Type)
	d.SetAttribute(FactoryObjectTypeAttribute, binding.Type)
	d.Lazy = lazy

	if s.options.ClientRef != "" {
		// Bean name, not instance: the client does not need to exist yet.
		d.SetProperty(clientProperty, Ref{Name: s.options.ClientRef})
	} else {
		d.Autowire = AutowireByType
	}

	d.Build = func(r *Registry, d *Definition) (any, error) {
		client, err := s.resolveClient(r, d)
		if err != nil {
			return nil, err
		}
		return newClientFactory(binding.Type, client), nil
	}
	return d
}

// resolveClient finds the transport client for a rewritten definition:
// through the bound reference when present, otherwise by type.
func (s *Scanner) resolveClient(r *Registry, d *Definition) (Client, error) {
	if v, ok := d.Property(clientProperty); ok {
		ref, ok := v.(Ref)
		if !ok {
			return nil, newErrorf(CodeDependency, "definition %q has a non-reference client property", d.Name)
		}
		resolved, err := r.Resolve(ref.Name)
		if err != nil {
			return nil, err
		}
		client, ok := resolved.(Client)
		if !ok {
			return nil, newErrorf(CodeDependency, "definition %q references %q which is not a transport client", d.Name, ref.Name)
		}
		return client, nil
	}

	resolved, err := r.ResolveType(clientType)
	if err != nil {
		return nil, err
	}
	return resolved.(Client), nil
}

// resolvePlaceholders substitutes ${...} tokens in the scanner's own options.
//
// Scan passes run before the registry's ordinary property post-processing,
// so the registered processors have not seen these values yet. To reuse
// them anyway, the options are written into a throwaway single-definition
// registry, every registered processor runs over it, and the values are read
// back. Environment-variable substitution then runs as a fallback for
// anything still unresolved.
func (s *Scanner) resolvePlaceholders() error {
	processors := s.registry.PropertyPostProcessors()

	packages := strings.Join(s.options.BasePackages, ",")
	clientRef := s.options.ClientRef
	lazy := s.options.Lazy

	if len(processors) > 0 {
		throwaway := NewRegistry(WithLogger(s.logger))
		record := NewDefinition(scanOptionsName, reflect.TypeOf(ScanOptions{}))
		record.SetProperty(basePackagesProperty, packages)
		record.SetProperty(clientRefProperty, clientRef)
		record.SetProperty(lazyProperty, lazy)
		if err := throwaway.Register(record); err != nil {
			return err
		}

		for _, processor := range processors {
			if err := processor.PostProcessProperties(throwaway); err != nil {
				return wrapError(CodeConfiguration, "property post-processing of scan options failed", err)
			}
		}

		packages = stringProperty(record, basePackagesProperty, packages)
		clientRef = stringProperty(record, clientRefProperty, clientRef)
		lazy = stringProperty(record, lazyProperty, lazy)
	}

	env := props.EnvSource{}
	s.options.BasePackages = splitPackages(props.Expand(packages, env))
	s.options.ClientRef = props.Expand(clientRef, env)
	s.options.Lazy = props.Expand(lazy, env)
	return nil
}

func stringProperty(d *Definition, key, fallback string) string {
	if v, ok := d.Property(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// splitPackages tokenizes a package list on commas, semicolons, and
// whitespace.
func splitPackages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// beanName derives the registry name for a discovered interface: the
// identifier with its first rune lowered, so UserService registers as
// userService.
func beanName(identifier string) string {
	if identifier == "" {
		return identifier
	}
	r, size := utf8.DecodeRuneInString(identifier)
	return string(unicode.ToLower(r)) + identifier[size:]
}
