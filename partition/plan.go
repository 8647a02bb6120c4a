package partition

import (
	"fmt"

	"github.com/arloliu/brc/errs"
)

// Range is the byte range [Start, End) assigned to one partition.
//
// A partition owns every line whose first byte lies inside its range. The
// last owned line may extend past End and is read to completion.
type Range struct {
	Index int
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

// Empty reports whether no line can start inside the range.
func (r Range) Empty() bool {
	return r.Start >= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("#%d[%d,%d)", r.Index, r.Start, r.End)
}

// Plan splits an input of size bytes into p contiguous ranges covering [0, size).
//
// Range i starts at (size/p)*i and ends where range i+1 starts; the last
// range ends at size. No bytes are read: aligning to line boundaries is left
// to the scanner. When size < p the leading ranges are empty.
//
// Returns errs.ErrInvalidPartitionCount if p < 1.
func Plan(size int64, p int) ([]Range, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidPartitionCount, p)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative input size %d", errs.ErrIO, size)
	}

	step := size / int64(p)
	ranges := make([]Range, p)
	for i := range ranges {
		ranges[i] = Range{Index: i, Start: step * int64(i), End: step * int64(i+1)}
	}
	ranges[p-1].End = size

	return ranges, nil
}
