package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	Container string
	Hex       bool
}

// RunShow lists the records of an assembled container.
func RunShow(args []string, stdout, stderr io.Writer) int {
	opts, err := parseShowArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printShowUsage(stderr)
		return exitCommandError
	}

	f, err := os.Open(opts.Container)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer f.Close()

	reg, err := resource.ReadContainer(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: cannot read container: %v\n", err)
		return exitCommandError
	}

	entries := reg.All()
	fmt.Fprintf(stdout, "%s: %d records\n", opts.Container, len(entries))
	for _, entry := range entries {
		fmt.Fprintf(stdout, "  %-4s #%-6d %-24q %d bytes\n",
			entry.Resource.Type(), entry.Resource.ID(), entry.Resource.Name(), len(entry.Data))
		if opts.Hex {
			writeHexDump(stdout, entry.Data)
		}
	}
	return exitSuccess
}

// writeHexDump prints data 16 bytes per row, offset-prefixed.
func writeHexDump(w io.Writer, data []byte) {
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(w, "    %08x ", off)
		for i := off; i < end; i++ {
			fmt.Fprintf(w, " %02x", data[i])
		}
		fmt.Fprintln(w)
	}
}

func parseShowArgs(args []string) (ShowOptions, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	opts := ShowOptions{}

	fs.BoolVar(&opts.Hex, "hex", false, "Dump record data as hex")

	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		return opts, fmt.Errorf("show expects exactly one container file")
	}
	opts.Container = fs.Arg(0)
	return opts, nil
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: kdk-build show [options] <container>

Options:
  --hex  Dump record data as hex`)
}
