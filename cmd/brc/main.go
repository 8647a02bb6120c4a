// Command brc aggregates "<key>;<value>" measurement files.
//
// Usage:
//
//	brc run [flags] <input>          aggregate a file and write key,min,max,mean lines
//	brc merge [flags] <snapshot>...  merge saved snapshots
//	brc gen [flags]                  write a synthetic measurements file
//
// Run "brc <command> -h" for the flags of a command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
)

const usage = `usage: brc <command> [flags] [args]

commands:
  run     aggregate a measurements file
  merge   merge snapshots written by "run -snapshot"
  gen     generate a measurements file
`

type command func(ctx context.Context, args []string, stdout, stderr io.Writer) error

var commands = map[string]command{
	"run":   runCmd,
	"merge": mergeCmd,
	"gen":   genCmd,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches to a subcommand and maps its error to an exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		if args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
			fmt.Fprint(stdout, usage)
			return 0
		}
		fmt.Fprintf(stderr, "brc: unknown command %q\n\n%s", args[0], usage)

		return 2
	}

	if err := cmd(ctx, args[1:], stdout, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "brc %s: %v\n", args[0], err)

		return 1
	}

	return 0
}

// errUsage reports a command line error that the flag set already printed.
var errUsage = errors.New("usage error")

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newFlagSet(name, args string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("brc "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: brc %s [flags] %s\n\nflags:\n", name, args)
		fs.PrintDefaults()
	}

	return fs
}

// parse parses args and turns flag errors into errUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return errUsage
	}

	return nil
}

func usageError(fs *flag.FlagSet, format string, a ...any) error {
	fmt.Fprintf(fs.Output(), "brc: "+format+"\n", a...)
	fs.Usage()

	return errUsage
}
