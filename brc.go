// Package brc computes per-key minimum, maximum and mean over large
// "<key>;<value>" text files.
//
// The input is split into byte ranges without a pre-pass, every range is
// scanned by its own goroutine into a private table, and the tables are
// combined by a parallel merge tree. A line belongs to the range holding its
// first byte, so no line is lost or counted twice whatever the partition
// count.
//
// # Basic Usage
//
// Aggregate a file and write "key,min,max,mean" lines:
//
//	res, err := brc.Run(ctx, "measurements.txt", "result.csv",
//	    brc.WithEngineOptions(engine.WithPartitions(16)),
//	    brc.WithOutputOptions(output.WithSorted(true)),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Lines, res.Elapsed)
//
// Aggregate without writing, then inspect the table:
//
//	res, err := brc.Aggregate(ctx, "measurements.txt.zst")
//	st, ok := res.Table.Get("Hamburg")
//
// Save a run as a snapshot and merge snapshots from several runs later:
//
//	_, err := brc.Run(ctx, "day1.txt", "day1.csv", brc.WithSnapshot("day1.brcs"))
//	merged, err := brc.MergeSnapshots(ctx, []string{"day1.brcs", "day2.brcs"}, 4)
//
// # Package Structure
//
// This package wraps the sub-packages for the common cases. The engine,
// source, output and snapshot packages can be used directly for finer
// control.
package brc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/brc/engine"
	"github.com/arloliu/brc/internal/options"
	"github.com/arloliu/brc/output"
	"github.com/arloliu/brc/reduce"
	"github.com/arloliu/brc/snapshot"
	"github.com/arloliu/brc/source"
	"github.com/arloliu/brc/table"
)

// Config collects the options of every stage of a run.
type Config struct {
	Engine       []engine.Option
	Source       []source.OpenOption
	Output       []output.Option
	SnapshotPath string
	Snapshot     []snapshot.Option
}

// Option configures Run and Aggregate.
type Option = options.Option[*Config]

// WithEngineOptions passes options to engine.New.
func WithEngineOptions(opts ...engine.Option) Option {
	return options.NoError(func(c *Config) {
		c.Engine = append(c.Engine, opts...)
	})
}

// WithSourceOptions passes options to source.Open.
func WithSourceOptions(opts ...source.OpenOption) Option {
	return options.NoError(func(c *Config) {
		c.Source = append(c.Source, opts...)
	})
}

// WithOutputOptions passes options to output.WriteFile.
func WithOutputOptions(opts ...output.Option) Option {
	return options.NoError(func(c *Config) {
		c.Output = append(c.Output, opts...)
	})
}

// WithSnapshot makes Run also save the final table as a snapshot at path.
func WithSnapshot(path string, opts ...snapshot.Option) Option {
	return options.New(func(c *Config) error {
		if path == "" {
			return fmt.Errorf("snapshot path must not be empty")
		}
		c.SnapshotPath = path
		c.Snapshot = append(c.Snapshot, opts...)

		return nil
	})
}

// Aggregate opens inputPath and runs the engine over it.
//
// Parameters:
//   - ctx: Cancels the run
//   - inputPath: Plain or compressed (.zst, .s2, .sz, .lz4) measurement file
//   - opts: WithEngineOptions, WithSourceOptions
//
// Returns:
//   - *engine.Result: Final table and run statistics
//   - error: Option, I/O or parse error; no result is returned on error
func Aggregate(ctx context.Context, inputPath string, opts ...Option) (*engine.Result, error) {
	cfg := &Config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return aggregate(ctx, inputPath, cfg)
}

func aggregate(ctx context.Context, inputPath string, cfg *Config) (*engine.Result, error) {
	src, err := source.Open(inputPath, cfg.Source...)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	eng, err := engine.New(src, cfg.Engine...)
	if err != nil {
		return nil, err
	}

	return eng.Run(ctx)
}

// Run aggregates inputPath and writes the result to outputPath.
//
// The output file is written only when the whole run succeeded; on any error
// no output file is created and an existing one is left unchanged. When
// WithSnapshot is given the snapshot is written before the output.
func Run(ctx context.Context, inputPath, outputPath string, opts ...Option) (*engine.Result, error) {
	cfg := &Config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	res, err := aggregate(ctx, inputPath, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SnapshotPath != "" {
		if err := snapshot.WriteFile(cfg.SnapshotPath, res.Table, cfg.Snapshot...); err != nil {
			return nil, err
		}
	}
	if err := output.WriteFile(outputPath, res.Table, cfg.Output...); err != nil {
		return nil, err
	}

	return res, nil
}

// MergeSnapshots reads the snapshots at paths concurrently and combines
// them with the merge tree.
func MergeSnapshots(ctx context.Context, paths []string, fanIn int) (*table.Table, error) {
	tables := make([]*table.Table, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := snapshot.ReadFile(path)
			if err != nil {
				return err
			}
			tables[i] = t

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce.Tree(ctx, tables, fanIn)
}
