// Command unhalo makes the near-white halo around an icon's edges transparent.
//
// Usage:
//
//	unhalo [-v] <input.png> [output.png] [threshold]
//
// When output.png is omitted the input file is overwritten.
// The threshold defaults to 240.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/unhalo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("unhalo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log decoding details and per-rule counts to stderr")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: unhalo [-v] <input.png> [output.png] [threshold]")
		fmt.Fprintln(fs.Output(), "Example: unhalo build/icon.png build/icon_fixed.png 240")
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *verbose {
		unhalo.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer unhalo.SetLogger(nil)
	}

	input, dst, opts, err := parseArgs(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return 1
	}

	stats, err := unhalo.ProcessFile(input, dst, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	output := input
	if len(fs.Args()) > 1 {
		output = fs.Arg(1)
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "Done: made %d pixels transparent.\n", stats.Total())
	p.Fprintf(stdout, "Saved to: %s\n", output)
	return 0
}

// parseArgs maps the positional arguments to ProcessFile parameters.
func parseArgs(args []string) (string, unhalo.Destination, []unhalo.Option, error) {
	switch {
	case len(args) == 0:
		return "", unhalo.Destination{}, nil, fmt.Errorf("%w: missing input path", unhalo.ErrUsage)
	case len(args) > 3:
		return "", unhalo.Destination{}, nil, fmt.Errorf("%w: too many arguments", unhalo.ErrUsage)
	}

	input := args[0]
	dst := unhalo.Overwrite()
	if len(args) > 1 {
		dst = unhalo.ToPath(args[1])
	}

	var opts []unhalo.Option
	if len(args) > 2 {
		t, err := strconv.Atoi(strings.TrimSpace(args[2]))
		if err != nil {
			return "", unhalo.Destination{}, nil, fmt.Errorf("%w: invalid threshold %q", unhalo.ErrUsage, args[2])
		}
		opts = append(opts, unhalo.WithThreshold(t))
	}
	return input, dst, opts, nil
}
