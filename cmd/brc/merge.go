package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/brc"
	"github.com/arloliu/brc/output"
	"github.com/arloliu/brc/reduce"
)

func mergeCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("merge", "<snapshot>...", stderr)
	out := fs.String("o", "output.csv", "output file; .zst, .s2 or .lz4 compresses it")
	fanIn := fs.Int("fanin", reduce.DefaultFanIn, "tables merged per goroutine")
	sorted := fs.Bool("sort", false, "sort output lines by key")

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usageError(fs, "merge needs at least one snapshot")
	}

	start := time.Now()
	merged, err := brc.MergeSnapshots(ctx, fs.Args(), *fanIn)
	if err != nil {
		return err
	}
	if err := output.WriteFile(*out, merged, output.WithSorted(*sorted)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d snapshots, %d keys, %d measurements -> %s\n", fs.NArg(), merged.Len(), merged.Count(), *out)
	fmt.Fprintf(stderr, "Elapsed: %.2fs\n", time.Since(start).Seconds())

	return nil
}
