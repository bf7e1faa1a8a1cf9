// kdk-build is the CLI driver for the Kestrel resource compiler back end.
package main

import (
	"fmt"
	"os"

	"github.com/Thunderforge/kestrel-development-kit/cmd/kdk-build/commands"
	"github.com/Thunderforge/kestrel-development-kit/pkg/version"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "build":
		exitCode = commands.RunBuild(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Printf("kdk-build version 0.1.0 (schema format %s)\n", version.Current)
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`kdk-build - Kestrel resource compiler

Usage:
  kdk-build <command> [options]

Commands:
  build      Assemble declared resources into a binary container
  show       Display the records of an assembled container

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  kdk-build build --config kdk.toml
  kdk-build build --config kdk.toml --verbose
  kdk-build show build/resources.kdat

For command-specific help, run:
  kdk-build <command> --help`)
}
