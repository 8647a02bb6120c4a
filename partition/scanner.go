package partition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/internal/pool"
	"github.com/arloliu/brc/table"
)

// Policy selects what a scanner does with a malformed line.
type Policy uint8

const (
	// PolicyFail aborts the scan on the first malformed line.
	PolicyFail Policy = iota
	// PolicySkip drops malformed lines and counts them in Result.Rejected.
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicySkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Config holds the per-scan parameters.
type Config struct {
	// Delimiter separates key and measurement. Zero selects DefaultDelimiter.
	Delimiter byte
	// Policy handles malformed lines.
	Policy Policy
	// BufferSize is the read window in bytes. Zero selects pool.ReadBufferDefaultSize.
	// Lines longer than the window grow it.
	BufferSize int
	// TableCapacity pre-sizes the partition table.
	TableCapacity int
}

// Result is the outcome of scanning one partition.
type Result struct {
	Index    int
	Table    *table.Table
	Lines    int64 // accepted lines
	Rejected int64 // malformed lines dropped under PolicySkip
	Bytes    int64 // bytes of the owned lines, terminators included
}

// Scanner builds the aggregation table of one partition.
// A Scanner holds no mutable state and may be shared between goroutines.
type Scanner struct {
	cfg Config
}

// NewScanner creates a scanner, filling in defaults for zero fields of cfg.
func NewScanner(cfg Config) *Scanner {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = DefaultDelimiter
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = pool.ReadBufferDefaultSize
	}

	return &Scanner{cfg: cfg}
}

// Config returns the effective configuration.
func (s *Scanner) Config() Config {
	return s.cfg
}

// Scan reads the lines owned by rng from r and aggregates them.
//
// r must be an independent handle over the whole input; Scan seeks it. When
// rng.Start > 0 the scan starts one byte early and discards everything up to
// and including the first '\n': that is the tail of a line owned by the
// previous partition, or just the terminator preceding rng.Start when the
// range begins exactly on a line start. Lines are then consumed while their
// first byte lies before rng.End.
//
// Blank lines are ignored and a trailing '\r' is stripped. Failures to seek
// or read wrap errs.ErrIO; parse failures under PolicyFail wrap the parse
// error together with the byte offset of the line.
func (s *Scanner) Scan(ctx context.Context, r io.ReadSeeker, rng Range) (*Result, error) {
	res := &Result{Index: rng.Index, Table: table.New(s.cfg.TableCapacity)}
	if rng.Empty() {
		return res, nil
	}

	off := rng.Start
	skipping := false
	if rng.Start > 0 {
		off--
		skipping = true
	}
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: partition %d: seek to %d: %w", errs.ErrIO, rng.Index, off, err)
	}

	bb := pool.GetReadBuffer()
	defer func() { pool.PutReadBuffer(bb) }()
	buf := bb.Window(s.cfg.BufferSize)

	carry := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := io.ReadFull(r, buf[carry:])
		eof := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !eof {
			return nil, fmt.Errorf("%w: partition %d: read at %d: %w", errs.ErrIO, rng.Index, off+int64(carry), err)
		}
		data := buf[:carry+n]

		i := 0
		if skipping {
			nl := bytes.IndexByte(data, '\n')
			if nl < 0 {
				if eof {
					return res, nil
				}
				off += int64(len(data))
				carry = 0

				continue
			}
			i = nl + 1
			skipping = false
		}

		for {
			lineOff := off + int64(i)
			if lineOff >= rng.End {
				return res, nil
			}

			nl := bytes.IndexByte(data[i:], '\n')
			if nl < 0 {
				if eof {
					if i < len(data) {
						if err := s.consume(res, data[i:], lineOff); err != nil {
							return nil, err
						}
						res.Bytes += int64(len(data) - i)
					}

					return res, nil
				}

				break
			}

			if err := s.consume(res, data[i:i+nl], lineOff); err != nil {
				return nil, err
			}
			res.Bytes += int64(nl + 1)
			i += nl + 1
		}

		rest := len(data) - i
		if rest == len(buf) {
			grown := make([]byte, 2*len(buf))
			copy(grown, data)
			bb.B = grown
			buf = grown
		} else {
			copy(buf, data[i:])
		}
		carry = rest
		off += int64(i)
	}
}

func (s *Scanner) consume(res *Result, line []byte, lineOff int64) error {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	if len(line) == 0 {
		return nil
	}

	key, v, err := ParseLine(line, s.cfg.Delimiter)
	if err != nil {
		if s.cfg.Policy == PolicySkip {
			res.Rejected++
			return nil
		}

		return fmt.Errorf("partition %d: line at offset %d: %w", res.Index, lineOff, err)
	}

	res.Table.Add(key, v)
	res.Lines++

	return nil
}
