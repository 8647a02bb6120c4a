// Package snapshot saves aggregation tables in a compact binary form so that
// runs over different inputs can be merged later without rescanning.
//
// A snapshot is a 16-byte Header followed by the payload. The payload holds
// one record per key, in byte order of the keys:
//
//	uvarint  key length
//	bytes    key
//	float64  min
//	float64  max
//	float64  sum
//	uvarint  count
//
// Floats are stored as IEEE-754 bits in the byte order named by the header.
// The payload is compressed with the block codec named by the header
// (zstd by default) and protected by a CRC-32 of the stored bytes.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/arloliu/brc/compress"
	"github.com/arloliu/brc/endian"
	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/format"
	"github.com/arloliu/brc/internal/options"
	"github.com/arloliu/brc/internal/pool"
	"github.com/arloliu/brc/table"
)

// MaxKeyLength is the longest key a snapshot accepts.
const MaxKeyLength = 64 * 1024

// MaxPayloadSize bounds the uncompressed payload of one snapshot.
const MaxPayloadSize = math.MaxUint32

var (
	errBadKeyLength = errors.New("bad key length")
	errTruncated    = errors.New("truncated record")
	errBadCount     = errors.New("bad count")
)

// minRecordSize is the size of a record with an empty key and a one byte count.
const minRecordSize = 1 + 3*8 + 1

// Config holds encoding settings.
type Config struct {
	compression format.CompressionType
	bigEndian   bool
}

// Option configures Encode and WriteFile.
type Option = options.Option[*Config]

// WithCompression selects the payload codec. The default is zstd.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint8(ct))
		}
		c.compression = ct

		return nil
	})
}

// WithLittleEndian writes fixed-width fields little-endian. It is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.bigEndian = false
	})
}

// WithBigEndian writes fixed-width fields big-endian.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.bigEndian = true
	})
}

// Encode serializes t.
//
// Records are written in key order, so equal tables encode to equal bytes.
//
// Parameters:
//   - t: Table to encode; it is only read
//   - opts: WithCompression, WithLittleEndian, WithBigEndian
//
// Returns:
//   - []byte: Header followed by the compressed payload
//   - error: errs.ErrKeyTooLong, errs.ErrInvalidSnapshot when the payload is too large, or a codec error
func Encode(t *table.Table, opts ...Option) ([]byte, error) {
	cfg := &Config{compression: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	hdr := newHeader(cfg.compression, cfg.bigEndian)
	engine := hdr.Engine()

	bb := pool.GetOutputBuffer()
	defer pool.PutOutputBuffer(bb)

	keys := t.SortedKeys()
	if uint64(len(keys)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d entries", errs.ErrInvalidSnapshot, len(keys))
	}
	for _, key := range keys {
		if len(key) > MaxKeyLength {
			return nil, fmt.Errorf("%w: %d bytes, max %d", errs.ErrKeyTooLong, len(key), MaxKeyLength)
		}
		s, _ := t.Get(key)
		bb.B = appendRecord(bb.B, engine, key, s)
	}
	if uint64(bb.Len()) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload of %d bytes", errs.ErrInvalidSnapshot, bb.Len())
	}

	codec, err := compress.CreateCodec(cfg.compression, "snapshot payload")
	if err != nil {
		return nil, err
	}
	stored, err := codec.Compress(bb.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress snapshot payload: %w", err)
	}

	hdr.EntryCount = uint32(len(keys)) //nolint:gosec
	hdr.RawSize = uint32(bb.Len())     //nolint:gosec
	hdr.Checksum = crc32.ChecksumIEEE(stored)

	out := make([]byte, 0, HeaderSize+len(stored))
	out = hdr.appendTo(out)

	return append(out, stored...), nil
}

func appendRecord(b []byte, engine endian.EndianEngine, key string, s table.Stats) []byte {
	b = binary.AppendUvarint(b, uint64(len(key)))
	b = append(b, key...)
	b = engine.AppendUint64(b, math.Float64bits(s.Min))
	b = engine.AppendUint64(b, math.Float64bits(s.Max))
	b = engine.AppendUint64(b, math.Float64bits(s.Sum))

	return binary.AppendUvarint(b, uint64(s.Count)) //nolint:gosec
}

// Decode parses a snapshot produced by Encode.
//
// Returns errs.ErrSnapshotChecksum when the stored payload was altered, and
// errs.ErrInvalidSnapshot for any structural problem: bad header, payload of
// the wrong size, truncated or trailing records, duplicate keys, or stats
// that no sequence of measurements can produce.
func Decode(data []byte) (*table.Table, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	stored := data[HeaderSize:]
	if sum := crc32.ChecksumIEEE(stored); sum != hdr.Checksum {
		return nil, fmt.Errorf("%w: stored 0x%08x, computed 0x%08x", errs.ErrSnapshotChecksum, hdr.Checksum, sum)
	}
	if uint64(hdr.EntryCount)*minRecordSize > uint64(hdr.RawSize) {
		return nil, fmt.Errorf("%w: %d entries cannot fit %d bytes", errs.ErrInvalidSnapshot, hdr.EntryCount, hdr.RawSize)
	}

	codec, err := compress.CreateCodec(hdr.Compression, "snapshot payload")
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress payload: %w", errs.ErrInvalidSnapshot, err)
	}
	if len(payload) != int(hdr.RawSize) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", errs.ErrInvalidSnapshot, len(payload), hdr.RawSize)
	}

	t := table.New(int(hdr.EntryCount))
	engine := hdr.Engine()
	for i := range hdr.EntryCount {
		var key string
		var s table.Stats
		key, s, payload, err = readRecord(payload, engine)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", errs.ErrInvalidSnapshot, i, err)
		}
		if _, dup := t.Get(key); dup {
			return nil, fmt.Errorf("%w: record %d: duplicate key %q", errs.ErrInvalidSnapshot, i, key)
		}
		t.AddStats(key, s)
	}
	if len(payload) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidSnapshot, len(payload))
	}

	return t, nil
}

func readRecord(b []byte, engine endian.EndianEngine) (string, table.Stats, []byte, error) {
	keyLen, n := binary.Uvarint(b)
	if n <= 0 || keyLen > MaxKeyLength {
		return "", table.Stats{}, nil, errBadKeyLength
	}
	b = b[n:]
	if uint64(len(b)) < keyLen+3*8 {
		return "", table.Stats{}, nil, errTruncated
	}

	key := string(b[:keyLen])
	b = b[keyLen:]

	s := table.Stats{
		Min: math.Float64frombits(engine.Uint64(b[0:8])),
		Max: math.Float64frombits(engine.Uint64(b[8:16])),
		Sum: math.Float64frombits(engine.Uint64(b[16:24])),
	}
	b = b[24:]

	count, n := binary.Uvarint(b)
	if n <= 0 || count == 0 || count > math.MaxInt64 {
		return "", table.Stats{}, nil, errBadCount
	}
	s.Count = int64(count)
	b = b[n:]

	if !(s.Min <= s.Max) || math.IsNaN(s.Sum) {
		return "", table.Stats{}, nil, fmt.Errorf("inconsistent stats for %q", key)
	}

	return key, s, b, nil
}
