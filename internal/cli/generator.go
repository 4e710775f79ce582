package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/clientwire/clientwire/internal/generator"
	"github.com/clientwire/clientwire/internal/models"
	"github.com/clientwire/clientwire/internal/parser"
	"github.com/clientwire/clientwire/internal/utils"
)

// Generator coordinates the CLI generation process: resolve the module path,
// find package directories, scan them for service interfaces, and write one
// adapter file per package that has any.
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	codeGenerator  *generator.Generator
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	customModule   string
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(verbose bool) *Generator {
	level := utils.DiagnosticInfo
	if verbose {
		level = utils.DiagnosticVerbose
	}
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser:         parser.NewParser(),
		codeGenerator:  generator.NewGenerator(),
		reporter:       NewDiagnosticReporter(verbose),
		diagnostics:    utils.NewDiagnosticSystem(level),
		summary:        GenerationSummary{GeneratedFiles: make([]string, 0)},
	}
}

// SetCustomModule sets a custom module path for import resolution
func (g *Generator) SetCustomModule(moduleName string) {
	g.customModule = moduleName
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Generate executes the generation process for the given directories
func (g *Generator) Generate(directories []string) error {
	return g.Run(Config{
		Directories: directories,
		ModuleName:  g.customModule,
		Verbose:     g.reporter.verbose,
	})
}

// Run executes the complete generation process
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	g.diagnostics.Verbose("Starting client generation at %s", startTime.Format("15:04:05"))

	moduleName, err := g.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: fmt.Sprintf("Failed to resolve module name: %v", err),
			Suggestions: []string{
				"Check your go.mod file exists and is valid",
				"Ensure you're running from the correct directory",
				"Try specifying --module flag explicitly",
			},
			Context: map[string]interface{}{
				"provided_module": config.ModuleName,
				"directories":     config.Directories,
			},
			Cause: err,
		}
	}
	g.diagnostics.Verbose("Resolved module name: %s", moduleName)

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: fmt.Sprintf("Failed to scan directories: %v", err),
			Suggestions: []string{
				"Check that the specified directories exist",
				"Ensure you have read permissions for the directories",
			},
			Context: map[string]interface{}{
				"directories": config.Directories,
			},
			Cause: err,
		}
	}

	if len(packageDirs) == 0 {
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: "No Go packages found in specified directories",
			Suggestions: []string{
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use './...' pattern",
			},
			Context: map[string]interface{}{
				"directories": config.Directories,
			},
		}
	}

	g.diagnostics.PhaseHeader("Scanning")
	g.summary.PackagesProcessed = len(packageDirs)

	for _, packageDir := range packageDirs {
		metadata, err := g.parser.ParseDirectory(packageDir)
		if err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeAnnotationSyntax,
				Message: fmt.Sprintf("Failed to parse package %s: %v", packageDir, err),
				Suggestions: []string{
					"Check for syntax errors in Go files",
					"Verify annotation syntax is correct",
				},
				Context: map[string]interface{}{
					"package_directory": packageDir,
				},
				Cause: err,
			}
		}

		for _, warning := range metadata.Warnings {
			g.reporter.ReportWarning(warning.String())
		}
		g.summary.WarningsReported += len(metadata.Warnings)

		if !metadata.HasServices() {
			g.diagnostics.Verbose("No service interfaces in %s", packageDir)
			continue
		}

		metadata.ImportPath, err = g.moduleResolver.BuildPackagePath(moduleName, packageDir)
		if err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				Message: fmt.Sprintf("Failed to build import path for %s: %v", packageDir, err),
				Context: map[string]interface{}{
					"package_directory": packageDir,
					"module_name":       moduleName,
				},
				Cause: err,
			}
		}

		for _, service := range metadata.Services {
			g.diagnostics.PhaseItem(fmt.Sprintf("Found service %s (%s)", service.Name, service.FileName))
			if !service.HasMethods() {
				g.diagnostics.Verbose("Service %s declares no methods, its adapter will be empty", service.Name)
			}
		}
		g.summary.ServicesFound += len(metadata.Services)

		file, err := g.codeGenerator.GenerateClients(metadata)
		if err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeGeneration,
				Message: fmt.Sprintf("Failed to generate clients for package %s: %v", metadata.PackageName, err),
				Suggestions: []string{
					"Check that all annotated methods return error as their last result",
					"Verify that referenced types exist in the package",
				},
				Context: map[string]interface{}{
					"package_name": metadata.PackageName,
					"package_path": packageDir,
				},
				Cause: err,
			}
		}
		if file == nil {
			continue
		}

		g.diagnostics.PhaseProgress(fmt.Sprintf("Writing %s", file.FilePath))
		if err := os.WriteFile(file.FilePath, []byte(file.Content), 0o644); err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				Message: fmt.Sprintf("Failed to write client file for package %s: %v", metadata.PackageName, err),
				Suggestions: []string{
					"Check write permissions for the target directory",
				},
				Context: map[string]interface{}{
					"package_name": metadata.PackageName,
					"file_path":    file.FilePath,
				},
				Cause: err,
			}
		}

		g.summary.ClientsGenerated++
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	}

	if config.Verbose {
		g.diagnostics.Verbose("Generation completed in %v", time.Since(startTime))
	}
	return nil
}

// ReportSuccess reports successful generation using the diagnostic reporter
func (g *Generator) ReportSuccess() {
	g.reporter.ReportSuccess(g.summary)
}
