package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type scanConfig struct {
	partitions int
	delimiter  byte
	sorted     bool
}

var errTooFew = errors.New("too few partitions")

func withPartitions(n int) Option[*scanConfig] {
	return New(func(c *scanConfig) error {
		if n < 1 {
			return errTooFew
		}
		c.partitions = n

		return nil
	})
}

func withDelimiter(b byte) Option[*scanConfig] {
	return NoError(func(c *scanConfig) {
		c.delimiter = b
	})
}

func withSorted(v bool) Option[*scanConfig] {
	return NoError(func(c *scanConfig) {
		c.sorted = v
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &scanConfig{}
		err := Apply(cfg, withPartitions(4), withDelimiter(','), withSorted(true), withPartitions(8))
		require.NoError(t, err)
		require.Equal(t, 8, cfg.partitions)
		require.Equal(t, byte(','), cfg.delimiter)
		require.True(t, cfg.sorted)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &scanConfig{}
		err := Apply(cfg, withPartitions(2), withPartitions(0), withSorted(true))
		require.ErrorIs(t, err, errTooFew)
		require.Equal(t, 2, cfg.partitions)
		require.False(t, cfg.sorted)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &scanConfig{partitions: 3}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 3, cfg.partitions)
	})

	t.Run("nil option is skipped", func(t *testing.T) {
		cfg := &scanConfig{}
		require.NoError(t, Apply(cfg, nil, withSorted(true)))
		require.True(t, cfg.sorted)
	})
}

func TestFunc_Apply(t *testing.T) {
	var n int
	opt := NoError(func(p *int) { *p = 42 })
	require.NoError(t, opt.apply(&n))
	require.Equal(t, 42, n)

	failing := New(func(p *int) error { return errTooFew })
	require.ErrorIs(t, failing.apply(&n), errTooFew)
}
