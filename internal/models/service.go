package models

// ServiceInterface describes one discovered service interface: a top-level
// exported interface carrying the service marker.
type ServiceInterface struct {
	// Name is the interface identifier.
	Name string

	// PackageName is the declaring package's name.
	PackageName string

	// ImportPath is the declaring package's import path, filled in by the
	// CLI once the module root is known.
	ImportPath string

	// FileName is the file the interface was declared in.
	FileName string

	// Line is the declaration line.
	Line int

	// Methods are the interface's declared methods, in source order.
	Methods []Method
}

// HasMethods reports whether the interface declares at least one method.
func (s ServiceInterface) HasMethods() bool {
	return len(s.Methods) > 0
}

// Method is one method signature on a service interface.
type Method struct {
	Name string

	// Params excludes a leading context.Context, which is tracked by
	// HasContext instead.
	Params []Param

	// Results excludes the trailing error. Empty means the method returns
	// only an error.
	Results []string

	// HasContext reports whether the first parameter is a context.Context.
	HasContext bool

	// Call carries the optional method-level HTTP metadata, nil when the
	// method has no call annotation.
	Call *CallSpec
}

// Param is one method parameter.
type Param struct {
	Name string
	Type string
}

// CallSpec is the passthrough HTTP metadata from a call annotation.
type CallSpec struct {
	HTTPMethod string
	Path       string
}
