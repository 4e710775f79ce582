package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/clientwire/clientwire/internal/models"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
	}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprint(os.Stderr, "! ")
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(os.Stderr, "\nERROR: Client Generation Failed\n")
	fmt.Fprintf(os.Stderr, "===============================\n\n")

	var genErr *models.GeneratorError
	if errors.As(err, &genErr) {
		r.reportGeneratorError(genErr)
	} else {
		r.reportBasicError(err)
	}

	fmt.Fprintf(os.Stderr, "\n")
}

// reportGeneratorError reports a GeneratorError with full context and suggestions
func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	r.printErrorHeader(genErr)

	fmt.Fprintf(os.Stderr, "Message: %s\n\n", genErr.Message)

	if r.verbose && genErr.Cause != nil {
		fmt.Fprintf(os.Stderr, "Underlying cause: %s\n\n", genErr.Cause.Error())
	}

	if genErr.File != "" {
		if genErr.Line > 0 {
			fmt.Fprintf(os.Stderr, "Location: %s:%d\n\n", genErr.File, genErr.Line)
		} else {
			fmt.Fprintf(os.Stderr, "File: %s\n\n", genErr.File)
		}
	}

	if len(genErr.Context) > 0 {
		r.printContext(genErr.Context)
	}

	if len(genErr.Suggestions) > 0 {
		r.printSuggestions(genErr.Suggestions)
	}

	r.printAdditionalHelp(genErr.Type)
}

// reportBasicError reports a basic error without rich context
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(os.Stderr, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())
	if strings.Contains(errorMsg, "annotation") {
		fmt.Fprintf(os.Stderr, "This appears to be an annotation-related issue.\n")
		fmt.Fprintf(os.Stderr, "Common solutions:\n")
		fmt.Fprintf(os.Stderr, "  - Check your //clientwire:: annotation syntax\n")
		fmt.Fprintf(os.Stderr, "  - Use //clientwire::service on interfaces and //clientwire::call on methods\n\n")
	} else if strings.Contains(errorMsg, "module") {
		fmt.Fprintf(os.Stderr, "This appears to be a module-related issue.\n")
		fmt.Fprintf(os.Stderr, "Common solutions:\n")
		fmt.Fprintf(os.Stderr, "  - Check your go.mod file\n")
		fmt.Fprintf(os.Stderr, "  - Try specifying --module flag explicitly\n\n")
	}
}

// printErrorHeader prints a formatted error header based on error type
func (r *DiagnosticReporter) printErrorHeader(genErr *models.GeneratorError) {
	var errorTypeStr string
	switch genErr.Type {
	case models.ErrorTypeAnnotationSyntax:
		errorTypeStr = "Annotation Syntax Error"
	case models.ErrorTypeValidation:
		errorTypeStr = "Validation Error"
	case models.ErrorTypeGeneration:
		errorTypeStr = "Code Generation Error"
	case models.ErrorTypeFileSystem:
		errorTypeStr = "File System Error"
	default:
		errorTypeStr = "Unknown Error"
	}

	fmt.Fprintf(os.Stderr, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(os.Stderr, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(os.Stderr, "Context:\n")
	for key, value := range context {
		fmt.Fprintf(os.Stderr, "   %s: %v\n", formatContextKey(key), value)
	}
	fmt.Fprintf(os.Stderr, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(os.Stderr, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(os.Stderr, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(os.Stderr, "\n")
}

// printAdditionalHelp prints additional help based on error type
func (r *DiagnosticReporter) printAdditionalHelp(errorType models.ErrorType) {
	if errorType == models.ErrorTypeAnnotationSyntax {
		fmt.Fprintf(os.Stderr, "Annotation Syntax Help:\n")
		fmt.Fprintf(os.Stderr, "  - Annotations must start with //clientwire::\n")
		fmt.Fprintf(os.Stderr, "  - The service marker takes no parameters\n")
		fmt.Fprintf(os.Stderr, "  - Call annotations use: //clientwire::call METHOD /path\n\n")
	}

	fmt.Fprintf(os.Stderr, "For more help:\n")
	fmt.Fprintf(os.Stderr, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(os.Stderr, "  - Check the clientwire documentation\n")
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Printf("\nClient Generation Completed Successfully!\n")
	fmt.Printf("=========================================\n\n")

	if summary.PackagesProcessed > 0 {
		fmt.Printf("Processed %d packages\n", summary.PackagesProcessed)
	}
	if summary.ServicesFound > 0 {
		fmt.Printf("Found %d service interfaces\n", summary.ServicesFound)
	}
	if summary.ClientsGenerated > 0 {
		fmt.Printf("Generated %d client files\n", summary.ClientsGenerated)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Printf("\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Printf("  - %s\n", file)
		}
	}

	fmt.Printf("\nYour service clients are ready to use!\n")
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	ServicesFound     int
	ClientsGenerated  int
	WarningsReported  int
	GeneratedFiles    []string
}
