// Package engine runs the partition, scan and merge pipeline over a Source.
//
// A run plans P byte ranges over the input, scans each range in its own
// goroutine into a private table, hands the tables back over a channel and
// combines them with a parallel merge tree:
//
//	src, err := source.Open("measurements.txt")
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
//	eng, err := engine.New(src, engine.WithPartitions(16))
//	if err != nil {
//		return err
//	}
//	res, err := eng.Run(ctx)
//
// The first scan error cancels the remaining scans and is returned; no
// partial table is produced.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/brc/internal/options"
	"github.com/arloliu/brc/partition"
	"github.com/arloliu/brc/reduce"
	"github.com/arloliu/brc/source"
	"github.com/arloliu/brc/table"
)

// Result is the outcome of a successful run.
type Result struct {
	Table      *table.Table
	Lines      int64 // accepted lines
	Rejected   int64 // malformed lines skipped under PolicySkip
	Partitions int
	Elapsed    time.Duration
}

// Engine aggregates one input. It can be run more than once.
type Engine struct {
	src     source.Source
	cfg     Config
	scanner *partition.Scanner
}

// New validates opts and creates an engine over src.
//
// Parameters:
//   - src: Input; the engine opens one handle per partition and does not close src
//   - opts: Run configuration, see DefaultConfig for the defaults
//
// Returns:
//   - *Engine: The configured engine
//   - error: The first invalid option
func New(src source.Source, opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Engine{
		src: src,
		cfg: cfg,
		scanner: partition.NewScanner(partition.Config{
			Delimiter:     cfg.Delimiter,
			Policy:        cfg.Policy,
			BufferSize:    cfg.ReadBufferSize,
			TableCapacity: cfg.tableCapacity(),
		}),
	}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run aggregates the whole input.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := e.cfg.Logger.With(slog.String("input", e.src.Name()))

	ranges, err := partition.Plan(e.src.Size(), e.cfg.Partitions)
	if err != nil {
		return nil, err
	}

	results, err := e.scan(ctx, ranges, log)
	if err != nil {
		return nil, err
	}
	scanned := time.Since(start)

	res := &Result{Partitions: len(ranges)}
	tables := make([]*table.Table, len(ranges))
	for _, r := range results {
		tables[r.Index] = r.Table
		res.Lines += r.Lines
		res.Rejected += r.Rejected
	}

	res.Table, err = reduce.Tree(ctx, tables, e.cfg.FanIn)
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)

	if hint := e.cfg.LineCountHint; hint > 0 && hint != res.Lines+res.Rejected {
		log.Warn("line count differs from hint",
			slog.Int64("hint", hint),
			slog.Int64("lines", res.Lines+res.Rejected))
	}

	log.Info("aggregation finished",
		slog.Duration("elapsed", res.Elapsed),
		slog.Duration("scan", scanned),
		slog.Int("partitions", res.Partitions),
		slog.Int64("lines", res.Lines),
		slog.Int64("rejected", res.Rejected),
		slog.Int("keys", res.Table.Len()))

	return res, nil
}

// scan runs one goroutine per range. Finished partitions are handed over on
// a channel buffered for every range, so senders never block.
func (e *Engine) scan(ctx context.Context, ranges []partition.Range, log *slog.Logger) ([]*partition.Result, error) {
	out := make(chan *partition.Result, len(ranges))
	g, gctx := errgroup.WithContext(ctx)

	for _, rng := range ranges {
		g.Go(func() error {
			res, err := e.scanRange(gctx, rng)
			if err != nil {
				return err
			}
			log.Debug("partition scanned",
				slog.Int("partition", rng.Index),
				slog.Int64("start", rng.Start),
				slog.Int64("end", rng.End),
				slog.Int64("lines", res.Lines),
				slog.Int("keys", res.Table.Len()))
			out <- res

			return nil
		})
	}

	err := g.Wait()
	close(out)
	if err != nil {
		return nil, err
	}

	results := make([]*partition.Result, 0, len(ranges))
	for res := range out {
		results = append(results, res)
	}

	return results, nil
}

func (e *Engine) scanRange(ctx context.Context, rng partition.Range) (*partition.Result, error) {
	if rng.Empty() {
		return &partition.Result{Index: rng.Index, Table: table.New(1)}, nil
	}

	h, err := e.src.Open()
	if err != nil {
		return nil, fmt.Errorf("partition %d: %w", rng.Index, err)
	}
	defer h.Close()

	return e.scanner.Scan(ctx, h, rng)
}
