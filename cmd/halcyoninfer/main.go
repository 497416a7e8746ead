// Command halcyoninfer drives the type-inference pass over the built-in
// scenario fixtures (internal/scenarios), for ad-hoc inspection and as a
// smoke test independent of `go test`. It is deliberately thin: no lexer,
// parser, or backend live in this repository, so every fixture
// this command can run is pre-built Go-code AST rather than parsed source.
package main

import (
	"fmt"
	"os"

	"github.com/halcyonlang/halcyon/internal/diagnostics"
	"github.com/halcyonlang/halcyon/internal/infer"
	"github.com/halcyonlang/halcyon/internal/scenarios"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		runList()
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: %s run <scenario>\n", os.Args[0])
			os.Exit(1)
		}
		runScenario(os.Args[2])
	case "-help", "--help", "help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <list|run> [scenario]\n", os.Args[0])
}

func runList() {
	path, err := scenarios.FindCatalog(".")
	if err == nil && path != "" {
		if cat, err := scenarios.LoadCatalog(path); err == nil {
			for _, entry := range cat.Scenarios {
				fmt.Printf("%-32s %s\n", entry.Name, entry.Description)
			}
			return
		}
	}
	// Catalog not found on disk (e.g. run from outside the module root):
	// fall back to the registry's own descriptions.
	for _, s := range scenarios.All() {
		fmt.Printf("%-32s %s\n", s.Name, s.Description)
	}
}

func runScenario(name string) {
	scenario, ok := scenarios.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", name)
		os.Exit(1)
	}

	program := scenario.Build()
	mod, err := infer.Run(program)
	if err != nil {
		fault, ok := err.(*diagnostics.Fault)
		if !ok {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		diagnostics.Report(os.Stderr, fault)
		os.Exit(1)
	}

	fmt.Printf("run %s: ok (%s)\n", mod.RunID, scenario.Description)
}
