package models

import "fmt"

// PackageMetadata holds everything discovered while scanning one package.
type PackageMetadata struct {
	// PackageName is the package identifier from the package clause.
	PackageName string

	// PackagePath is the filesystem path the package was scanned from.
	PackagePath string

	// ImportPath is the package's module-relative import path.
	ImportPath string

	// Services are the discovered service interfaces, ordered by file name
	// and declaration position.
	Services []ServiceInterface

	// Warnings are non-fatal findings: markers on concrete types, unexported
	// interfaces, duplicated names. They never abort a scan.
	Warnings []Warning
}

// HasServices reports whether the scan found at least one service interface.
func (m *PackageMetadata) HasServices() bool {
	return len(m.Services) > 0
}

// Warn records a non-fatal finding against a source position.
func (m *PackageMetadata) Warn(fileName string, line int, format string, args ...any) {
	m.Warnings = append(m.Warnings, Warning{
		Message:  fmt.Sprintf(format, args...),
		FileName: fileName,
		Line:     line,
	})
}

// Warning is a non-fatal scan finding.
type Warning struct {
	Message  string
	FileName string
	Line     int
}

// String formats the warning with its source position.
func (w Warning) String() string {
	if w.FileName == "" {
		return w.Message
	}
	if w.Line == 0 {
		return fmt.Sprintf("%s: %s", w.FileName, w.Message)
	}
	return fmt.Sprintf("%s:%d: %s", w.FileName, w.Line, w.Message)
}
