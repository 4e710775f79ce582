package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clientwire/clientwire/internal/cli"
	"github.com/clientwire/clientwire/internal/utils"
)

func main() {
	var (
		moduleFlag  = flag.String("module", "", "Custom module path for imports (defaults to go.mod module)")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flag.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flag.Bool("clean", false, "Delete all autogen_clients.go files from the specified directories")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "clientwire Client Generator\n")
		fmt.Fprintf(os.Stderr, "Recursively scans directories for interfaces with clientwire:: annotations and generates HTTP client adapters.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(os.Stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                                  # Scan everything recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s ./internal/services                    # Scan a specific directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --module github.com/myorg/myapp ./...  # Specify custom module path\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...                          # Delete all generated files\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var diagnostics *utils.DiagnosticSystem
	if *quietFlag {
		diagnostics = utils.NewQuietDiagnostics()
	} else if *verboseFlag {
		diagnostics = utils.NewVerboseDiagnostics()
	} else {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	diagnostics.Header("Client Generator")

	if *cleanFlag {
		cleaner := cli.NewCleaner()
		removed, err := cleaner.CleanGeneratedFiles(args)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			os.Exit(1)
		}
		for _, file := range removed {
			diagnostics.PhaseProgress(fmt.Sprintf("Removed %s", file))
		}
		diagnostics.Success("All autogen_clients.go files have been removed")
		return
	}

	generator := cli.NewGenerator(*verboseFlag)
	if *moduleFlag != "" {
		generator.SetCustomModule(*moduleFlag)
		diagnostics.Verbose("Using custom module: %s", *moduleFlag)
	}

	if err := generator.Generate(args); err != nil {
		reporter := cli.NewDiagnosticReporter(*verboseFlag)
		reporter.ReportError(err)
		os.Exit(1)
	}

	summary := generator.GetSummary()
	diagnostics.Summary("Generation Complete!", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Services found":     summary.ServicesFound,
		"Clients generated":  summary.ClientsGenerated,
		"Warnings":           summary.WarningsReported,
	})
	diagnostics.GenerationComplete()
}
