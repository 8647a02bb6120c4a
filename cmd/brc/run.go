package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/arloliu/brc"
	"github.com/arloliu/brc/engine"
	"github.com/arloliu/brc/format"
	"github.com/arloliu/brc/internal/pool"
	"github.com/arloliu/brc/output"
	"github.com/arloliu/brc/partition"
	"github.com/arloliu/brc/reduce"
	"github.com/arloliu/brc/snapshot"
	"github.com/arloliu/brc/source"
)

func runCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("run", "<input>", stderr)
	out := fs.String("o", "output.csv", "output file; .zst, .s2 or .lz4 compresses it")
	partitions := fs.Int("p", runtime.NumCPU(), "number of partitions scanned in parallel")
	fanIn := fs.Int("fanin", reduce.DefaultFanIn, "tables merged per goroutine")
	hint := fs.Int64("hint", 0, "expected line count, used for sizing and a mismatch warning")
	delim := fs.String("delim", ";", "single byte separating key and value")
	skip := fs.Bool("skip-malformed", false, "skip malformed lines instead of failing")
	sorted := fs.Bool("sort", false, "sort output lines by key")
	useMmap := fs.Bool("mmap", false, "memory-map the input instead of reading it")
	bufSize := fs.Int("buffer", pool.ReadBufferDefaultSize, "read buffer size per partition in bytes")
	snapPath := fs.String("snapshot", "", "also save the result as a snapshot at this path")
	snapComp := fs.String("snapshot-compression", "zstd", "snapshot compression: none, zstd, s2 or lz4")
	verbose := fs.Bool("v", false, "log per-partition progress")

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError(fs, "run needs exactly one input file")
	}
	if len(*delim) != 1 {
		return usageError(fs, "-delim must be a single byte, got %q", *delim)
	}

	policy := partition.PolicyFail
	if *skip {
		policy = partition.PolicySkip
	}
	mode := source.ModeFile
	if *useMmap {
		mode = source.ModeMmap
	}

	opts := []brc.Option{
		brc.WithEngineOptions(
			engine.WithPartitions(*partitions),
			engine.WithFanIn(*fanIn),
			engine.WithLineCountHint(*hint),
			engine.WithDelimiter((*delim)[0]),
			engine.WithMalformedPolicy(policy),
			engine.WithReadBufferSize(*bufSize),
			engine.WithLogger(newLogger(stderr, *verbose)),
		),
		brc.WithSourceOptions(source.WithMode(mode)),
		brc.WithOutputOptions(output.WithSorted(*sorted)),
	}
	if *snapPath != "" {
		ct, err := format.ParseCompression(*snapComp)
		if err != nil {
			return err
		}
		opts = append(opts, brc.WithSnapshot(*snapPath, snapshot.WithCompression(ct)))
	}

	start := time.Now()
	res, err := brc.Run(ctx, fs.Arg(0), *out, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d lines, %d keys", res.Lines, res.Table.Len())
	if res.Rejected > 0 {
		fmt.Fprintf(stdout, ", %d rejected", res.Rejected)
	}
	fmt.Fprintf(stdout, " -> %s\n", *out)
	fmt.Fprintf(stderr, "Elapsed: %.2fs\n", time.Since(start).Seconds())

	return nil
}
