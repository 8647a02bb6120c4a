// Package reduce combines per-partition tables with a parallel merge tree.
//
// At each level the tables are split into groups of fan-in consecutive
// tables, every group is merged by its own goroutine, and the merged tables
// form the next level. The tree ends when a single table remains. With 16
// partitions and a fan-in of 4 that is two levels: 4 merges of 4, then one
// merge of the 4 results.
package reduce

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/table"
)

// DefaultFanIn is the number of tables merged by one goroutine.
const DefaultFanIn = 4

// Tree merges tables into one table.
//
// Tables are consumed: the result reuses one of the inputs, and the others
// must not be used after Tree returns. Nil tables are ignored. Zero tables
// produce an empty table.
//
// Parameters:
//   - ctx: Checked before every level; cancellation aborts the merge
//   - tables: Per-partition tables, each owned by the caller
//   - fanIn: Group size per merge goroutine, at least 2
//
// Returns:
//   - *table.Table: The combined table
//   - error: errs.ErrInvalidFanIn, or the context error
func Tree(ctx context.Context, tables []*table.Table, fanIn int) (*table.Table, error) {
	if fanIn < 2 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidFanIn, fanIn)
	}

	level := make([]*table.Table, 0, len(tables))
	for _, t := range tables {
		if t != nil {
			level = append(level, t)
		}
	}

	switch len(level) {
	case 0:
		return table.New(0), nil
	case 1:
		return level[0], nil
	}

	for len(level) > 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := make([]*table.Table, Groups(len(level), fanIn))
		g, gctx := errgroup.WithContext(ctx)
		for i := range next {
			group := level[i*fanIn : min((i+1)*fanIn, len(level))]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				next[i] = table.MergeAll(group...)

				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		level = next
	}

	return level[0], nil
}

// Groups returns the number of merge groups for n tables at the given fan-in.
func Groups(n, fanIn int) int {
	return (n + fanIn - 1) / fanIn
}

// Depth returns the number of levels Tree needs for n tables.
func Depth(n, fanIn int) int {
	depth := 0
	for n > 1 {
		n = Groups(n, fanIn)
		depth++
	}

	return depth
}
