// Package output renders an aggregation table as text.
//
// Each key is written on its own line as
//
//	<key>,<min>,<max>,<mean>
//
// where min and max are printed with the precision of the observed values
// (at least one fractional digit) and the mean with exactly one digit after
// the decimal point. Lines
// follow the table iteration order unless WithSorted(true) is given.
package output

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/format"
	"github.com/arloliu/brc/internal/options"
	"github.com/arloliu/brc/internal/pool"
	"github.com/arloliu/brc/table"
)

// Separator joins the fields of an output line.
const Separator = ','

// Config holds output settings.
type Config struct {
	Sorted      bool
	Compression format.CompressionType
	autoDetect  bool
}

// Option configures Write and WriteFile.
type Option = options.Option[*Config]

// WithSorted orders lines by raw key bytes when sorted is true.
func WithSorted(sorted bool) Option {
	return options.NoError(func(c *Config) {
		c.Sorted = sorted
	})
}

// WithCompression sets the stream compression of WriteFile, overriding the
// choice made from the file extension. Write ignores it.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint8(ct))
		}
		c.Compression = ct
		c.autoDetect = false

		return nil
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{Compression: format.CompressionNone, autoDetect: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Write renders t to w, one line per key.
//
// Lines are assembled in a pooled buffer and flushed to w in chunks.
// Errors from w are wrapped with errs.ErrIO.
func Write(w io.Writer, t *table.Table, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	return write(w, t, cfg)
}

func write(w io.Writer, t *table.Table, cfg *Config) error {
	bb := pool.GetOutputBuffer()
	defer pool.PutOutputBuffer(bb)

	emit := func(key string, s table.Stats) error {
		bb.B = AppendLine(bb.B, key, s)
		if bb.Len() < pool.OutputBufferDefaultSize {
			return nil
		}
		if _, err := bb.WriteTo(w); err != nil {
			return fmt.Errorf("%w: write output: %w", errs.ErrIO, err)
		}
		bb.Reset()

		return nil
	}

	if cfg.Sorted {
		for _, key := range t.SortedKeys() {
			s, _ := t.Get(key)
			if err := emit(key, s); err != nil {
				return err
			}
		}
	} else {
		for key, s := range t.All() {
			if err := emit(key, s); err != nil {
				return err
			}
		}
	}

	if bb.Len() > 0 {
		if _, err := bb.WriteTo(w); err != nil {
			return fmt.Errorf("%w: write output: %w", errs.ErrIO, err)
		}
	}

	return nil
}

// AppendLine appends "key,min,max,mean\n" for s to dst. min and max keep
// the precision of the observed values; the mean is rounded to one decimal.
func AppendLine(dst []byte, key string, s table.Stats) []byte {
	dst = append(dst, key...)
	dst = append(dst, Separator)
	dst = AppendObserved(dst, s.Min)
	dst = append(dst, Separator)
	dst = AppendObserved(dst, s.Max)
	dst = append(dst, Separator)
	dst = AppendValue(dst, s.Mean())

	return append(dst, '\n')
}

// AppendObserved appends v with the fewest digits that read back as v,
// keeping at least one fractional digit. "-0" is printed as "0.0".
func AppendObserved(dst []byte, v float64) []byte {
	n := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', -1, 64)
	if bytes.IndexByte(dst[n:], '.') < 0 {
		dst = append(dst, ".0"...)
	}
	if string(dst[n:]) == "-0.0" {
		dst = append(dst[:n], "0.0"...)
	}

	return dst
}

// AppendValue appends v rounded to one decimal. Values that round to zero
// are printed as "0.0", never "-0.0".
func AppendValue(dst []byte, v float64) []byte {
	n := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', 1, 64)
	if string(dst[n:]) == "-0.0" {
		dst = append(dst[:n], "0.0"...)
	}

	return dst
}
