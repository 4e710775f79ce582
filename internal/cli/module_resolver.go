package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clientwire/clientwire/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{
		goMod: utils.NewGoModParser(utils.NewFileReader()),
	}
}

// ResolveModuleName resolves the module path for generated import paths.
// If customModule is provided, it is used verbatim; otherwise the nearest
// go.mod is consulted.
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	goModPath, err := r.goMod.FindGoModFile(currentDir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}

	return r.goMod.ParseModuleName(goModPath)
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(currentDir, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return moduleName, nil
	}
	return fmt.Sprintf("%s/%s", moduleName, importPath), nil
}
