package engine

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/internal/options"
	"github.com/arloliu/brc/internal/pool"
	"github.com/arloliu/brc/partition"
	"github.com/arloliu/brc/reduce"
)

// MaxReadBufferSize bounds the per-partition read window.
const MaxReadBufferSize = 256 * 1024 * 1024

// maxHintedCapacity caps the table size derived from the line count hint.
const maxHintedCapacity = 1 << 14

// Config holds the parameters of one aggregation run.
type Config struct {
	// Partitions is the number of byte ranges scanned in parallel.
	Partitions int
	// LineCountHint is the expected number of lines, or 0 when unknown.
	// It sizes the partition tables and is compared with the observed count.
	LineCountHint int64
	// FanIn is the number of tables merged per goroutine in the reduce tree.
	FanIn int
	// Delimiter separates key and measurement.
	Delimiter byte
	// Policy handles malformed lines.
	Policy partition.Policy
	// ReadBufferSize is the read window of each partition scanner.
	ReadBufferSize int
	// Logger receives run statistics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when no option is given:
// one partition per CPU, fan-in 4, ';' delimiter and PolicyFail.
func DefaultConfig() Config {
	return Config{
		Partitions:     runtime.NumCPU(),
		FanIn:          reduce.DefaultFanIn,
		Delimiter:      partition.DefaultDelimiter,
		Policy:         partition.PolicyFail,
		ReadBufferSize: pool.ReadBufferDefaultSize,
		Logger:         slog.New(slog.DiscardHandler),
	}
}

// tableCapacity sizes each partition table. Without a hint the table default
// is used; with one, small inputs get small tables.
func (c *Config) tableCapacity() int {
	if c.LineCountHint <= 0 {
		return 0
	}
	perPartition := c.LineCountHint/int64(c.Partitions) + 1

	return int(min(perPartition, maxHintedCapacity))
}

// Option configures an Engine.
type Option = options.Option[*Config]

// WithPartitions sets the number of partitions scanned in parallel. n must be at least 1.
func WithPartitions(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidPartitionCount, n)
		}
		c.Partitions = n

		return nil
	})
}

// WithLineCountHint declares the expected number of lines. The hint never
// limits how many lines are read.
func WithLineCountHint(n int64) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidLineCountHint, n)
		}
		c.LineCountHint = n

		return nil
	})
}

// WithFanIn sets how many tables one merge goroutine combines. n must be at least 2.
func WithFanIn(n int) Option {
	return options.New(func(c *Config) error {
		if n < 2 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidFanIn, n)
		}
		c.FanIn = n

		return nil
	})
}

// WithDelimiter sets the byte separating key and measurement.
func WithDelimiter(d byte) Option {
	return options.New(func(c *Config) error {
		if d == '\n' || d == '\r' || d == 0 {
			return fmt.Errorf("%w: %q", errs.ErrInvalidDelimiter, d)
		}
		c.Delimiter = d

		return nil
	})
}

// WithMalformedPolicy selects whether malformed lines abort the run or are skipped.
func WithMalformedPolicy(p partition.Policy) Option {
	return options.New(func(c *Config) error {
		switch p {
		case partition.PolicyFail, partition.PolicySkip:
			c.Policy = p
			return nil
		default:
			return fmt.Errorf("%w: %d", errs.ErrInvalidPolicy, p)
		}
	})
}

// WithReadBufferSize sets the read window of each scanner in bytes.
func WithReadBufferSize(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 || n > MaxReadBufferSize {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBufferSize, n)
		}
		c.ReadBufferSize = n

		return nil
	})
}

// WithLogger sets the logger for run statistics.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		c.Logger = l
	})
}
