package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Thunderforge/kestrel-development-kit/pkg/assembler"
	"github.com/Thunderforge/kestrel-development-kit/pkg/diag"
	"github.com/Thunderforge/kestrel-development-kit/pkg/log"
	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
	"github.com/Thunderforge/kestrel-development-kit/pkg/schema"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// BuildOptions configures the build command.
type BuildOptions struct {
	Config  string
	Verbose bool
}

// projectConfig is the kdk.toml key mapping for a build.
type projectConfig struct {
	Output       string   `toml:"output"`
	LogFile      string   `toml:"log_file"`
	SchemaTables []string `toml:"schema_tables"`
	Manifests    []string `toml:"manifests"`
}

// RunBuild runs the build command.
func RunBuild(args []string, stdout, stderr io.Writer) int {
	opts, err := parseBuildArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printBuildUsage(stderr)
		return exitCommandError
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	if !opts.Verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	var cfg projectConfig
	if _, err := toml.DecodeFile(opts.Config, &cfg); err != nil {
		logger.Error().Err(err).Str("config", opts.Config).Msg("cannot load project config")
		return exitCommandError
	}
	if cfg.Output == "" {
		logger.Error().Str("config", opts.Config).Msg("project config missing 'output'")
		return exitCommandError
	}

	tables := make(map[string]*schema.Table)
	for _, path := range cfg.SchemaTables {
		table, err := schema.LoadTable(path)
		if err != nil {
			logger.Error().Err(err).Msg("cannot load schema table")
			return exitCommandError
		}
		if _, ok := tables[table.Type]; ok {
			logger.Error().Str("type", table.Type).Msg("duplicate schema table for resource type")
			return exitCommandError
		}
		tables[table.Type] = table
		logger.Debug().Str("type", table.Type).Int("fields", len(table.Fields)).Msg("schema table loaded")
	}

	eventLog, closeLog, err := openEventLog(cfg.LogFile)
	if err != nil {
		logger.Error().Err(err).Msg("cannot open event log")
		return exitCommandError
	}
	defer closeLog()

	runID := uuid.NewString()
	registry := resource.NewRegistry()
	hasErrors := false

	for _, path := range cfg.Manifests {
		resources, err := resource.LoadManifest(path)
		if err != nil {
			logger.Error().Err(err).Msg("cannot load resource manifest")
			return exitCommandError
		}

		for _, res := range resources {
			table, ok := tables[res.Type()]
			if !ok {
				fmt.Fprintf(stdout, "%s #%d: FAILED (no schema table for type %q)\n", res.Type(), res.ID(), res.Type())
				hasErrors = true
				continue
			}

			collector := diag.NewCollector()
			a := assembler.New(res,
				assembler.WithReporter(collector),
				assembler.WithLogger(eventLog),
				assembler.WithRunID(runID),
			)
			blob, err := a.Assemble(table.Fields)
			if err != nil {
				logger.Error().Err(err).
					Str("type", res.Type()).Int64("id", res.ID()).
					Msg("fatal schema defect")
				return exitCommandError
			}

			printDiagnostics(stdout, res, collector, opts.Verbose)
			if collector.HasErrors() {
				hasErrors = true
				continue
			}

			data := append([]byte(nil), blob.Bytes()...)
			if err := registry.Add(res, data); err != nil {
				dup := diag.Diagnostic{
					Severity: diag.SeverityError,
					Kind:     diag.KindDuplicateResource,
					Context:  fmt.Sprintf("%s #%d", res.Type(), res.ID()),
					Message:  err.Error(),
				}
				fmt.Fprintf(stdout, "  %s\n", dup)
				hasErrors = true
			}
		}
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		logger.Error().Err(err).Msg("cannot create output container")
		return exitCommandError
	}
	defer out.Close()
	if err := resource.WriteContainer(out, registry); err != nil {
		logger.Error().Err(err).Msg("cannot write output container")
		return exitCommandError
	}

	logger.Info().
		Str("output", cfg.Output).
		Int("records", registry.Len()).
		Str("run_id", runID).
		Msg("build finished")

	if hasErrors {
		return exitValidation
	}
	return exitSuccess
}

// openEventLog returns the configured event sink, NoopLogger when no log
// file is set.
func openEventLog(path string) (log.Logger, func(), error) {
	if path == "" {
		return log.NoopLogger{}, func() {}, nil
	}
	fl, err := log.NewFileLogger(path)
	if err != nil {
		return nil, nil, err
	}
	return fl, func() { _ = fl.Close() }, nil
}

func printDiagnostics(w io.Writer, res *resource.Resource, c *diag.Collector, verbose bool) {
	errs := c.Errors()
	warns := c.Warnings()

	switch {
	case len(errs) == 0 && len(warns) == 0:
		if verbose {
			fmt.Fprintf(w, "%s #%d: OK\n", res.Type(), res.ID())
		}
		return
	case len(errs) == 0:
		fmt.Fprintf(w, "%s #%d: OK (with %d warnings)\n", res.Type(), res.ID(), len(warns))
	default:
		fmt.Fprintf(w, "%s #%d: FAILED (%d errors, %d warnings)\n", res.Type(), res.ID(), len(errs), len(warns))
	}

	for _, d := range errs {
		fmt.Fprintf(w, "  %s\n", d)
	}
	if verbose || len(errs) > 0 {
		for _, d := range warns {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

func parseBuildArgs(args []string) (BuildOptions, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	opts := BuildOptions{}

	fs.StringVar(&opts.Config, "config", "kdk.toml", "Project configuration file")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Show per-resource status and warnings")
	fs.BoolVar(&opts.Verbose, "v", false, "Show per-resource status and warnings (shorthand)")

	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: kdk-build build [options]

Options:
  --config <file>  Project configuration (default kdk.toml)
  -v, --verbose    Show per-resource status and warnings

The project configuration is TOML:

  output = "build/resources.kdat"
  log_file = "build/build.kdl-log"   # optional CBOR event log
  schema_tables = ["schemas/ship.yaml"]
  manifests = ["resources/ships.yaml"]`)
}
