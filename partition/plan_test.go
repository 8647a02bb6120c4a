package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/brc/errs"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name string
		size int64
		p    int
		want []Range
	}{
		{name: "single", size: 100, p: 1, want: []Range{{0, 0, 100}}},
		{name: "even", size: 100, p: 4, want: []Range{{0, 0, 25}, {1, 25, 50}, {2, 50, 75}, {3, 75, 100}}},
		{name: "remainder goes last", size: 10, p: 3, want: []Range{{0, 0, 3}, {1, 3, 6}, {2, 6, 10}}},
		{name: "more partitions than bytes", size: 2, p: 4, want: []Range{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 2}}},
		{name: "empty input", size: 0, p: 3, want: []Range{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.size, tt.p)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_Covers(t *testing.T) {
	for _, size := range []int64{0, 1, 7, 1000, 1 << 33} {
		for p := 1; p <= 17; p++ {
			ranges, err := Plan(size, p)
			require.NoError(t, err)
			require.Len(t, ranges, p)

			var total int64
			require.Equal(t, int64(0), ranges[0].Start)
			for i, r := range ranges {
				require.Equal(t, i, r.Index)
				require.LessOrEqual(t, r.Start, r.End)
				if i > 0 {
					require.Equal(t, ranges[i-1].End, r.Start)
				}
				total += r.Len()
			}
			require.Equal(t, size, ranges[p-1].End)
			require.Equal(t, size, total)
		}
	}
}

func TestPlan_Invalid(t *testing.T) {
	_, err := Plan(100, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPartitionCount)

	_, err = Plan(100, -2)
	require.ErrorIs(t, err, errs.ErrInvalidPartitionCount)

	_, err = Plan(-1, 2)
	require.ErrorIs(t, err, errs.ErrIO)
}

func TestRange(t *testing.T) {
	r := Range{Index: 2, Start: 10, End: 30}
	require.Equal(t, int64(20), r.Len())
	require.False(t, r.Empty())
	require.Equal(t, "#2[10,30)", r.String())
	require.True(t, Range{Start: 5, End: 5}.Empty())
}
