package main

import (
	"context"
	"fmt"
	"io"

	"github.com/arloliu/brc/compress"
	"github.com/arloliu/brc/format"
	"github.com/arloliu/brc/internal/atomicfile"
	"github.com/arloliu/brc/internal/gen"
)

func genCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("gen", "", stderr)
	out := fs.String("o", "measurements.txt", "output file; .zst, .s2 or .lz4 compresses it")
	lines := fs.Int64("lines", 1_000_000, "number of lines")
	stations := fs.Int("stations", 413, "number of distinct stations")
	seed := fs.Uint64("seed", 42, "random seed")

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usageError(fs, "gen takes no arguments")
	}
	if *lines < 0 || *stations < 1 {
		return usageError(fs, "-lines must not be negative and -stations must be positive")
	}

	cfg := gen.Config{Lines: *lines, Stations: *stations, Seed: *seed}
	err := atomicfile.Write(*out, func(w io.Writer) error {
		cw, err := compress.NewWriter(format.CompressionFromPath(*out), w)
		if err != nil {
			return err
		}
		if err := gen.Write(cw, cfg); err != nil {
			cw.Close()
			return err
		}

		return cw.Close()
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d lines, %d stations -> %s\n", *lines, *stations, *out)

	return nil
}
