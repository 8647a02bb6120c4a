package snapshot

import (
	"fmt"

	"github.com/arloliu/brc/endian"
	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/format"
)

const (
	// HeaderSize is the fixed size of the snapshot header in bytes.
	HeaderSize = 16

	// MagicV1 identifies version 1 snapshots (bits 4-15 of Options).
	MagicV1 = 0xBC10

	EndiannessMask  = 0x0002 // bit 1: 0 little-endian, 1 big-endian
	ReservedMask    = 0x000D // bits 0, 2, 3: must be zero
	MagicNumberMask = 0xFFF0
)

// Header is the fixed-size section at the start of a snapshot.
//
//	offset  size  field
//	0       2     Options (always little-endian)
//	2       1     Compression
//	3       1     reserved, zero
//	4       4     EntryCount
//	8       4     RawSize, payload size before compression
//	12      4     Checksum, CRC-32 (IEEE) of the stored payload
type Header struct {
	Options     uint16
	Compression format.CompressionType
	EntryCount  uint32
	RawSize     uint32
	Checksum    uint32
}

func newHeader(ct format.CompressionType, bigEndian bool) Header {
	h := Header{Options: MagicV1, Compression: ct}
	if bigEndian {
		h.Options |= EndiannessMask
	}

	return h
}

// IsBigEndian reports whether the fixed-width fields after Options are big-endian.
func (h Header) IsBigEndian() bool {
	return h.Options&EndiannessMask != 0
}

// Engine returns the byte order of the header fields and the payload.
func (h Header) Engine() endian.EndianEngine {
	return endian.ForBigEndian(h.IsBigEndian())
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	return h.appendTo(make([]byte, 0, HeaderSize))
}

func (h Header) appendTo(b []byte) []byte {
	engine := h.Engine()

	b = endian.GetLittleEndianEngine().AppendUint16(b, h.Options)
	b = append(b, uint8(h.Compression), 0)
	b = engine.AppendUint32(b, h.EntryCount)
	b = engine.AppendUint32(b, h.RawSize)

	return engine.AppendUint32(b, h.Checksum)
}

// ParseHeader parses and validates the header at the start of data.
//
// Returns errs.ErrInvalidSnapshot when data is shorter than HeaderSize, the
// magic number does not match, reserved bits are set or the compression type
// is unknown.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", errs.ErrInvalidSnapshot, len(data))
	}

	h := Header{Options: endian.GetLittleEndianEngine().Uint16(data[0:2])}
	if h.Options&MagicNumberMask != MagicV1 {
		return Header{}, fmt.Errorf("%w: bad magic 0x%04x", errs.ErrInvalidSnapshot, h.Options&MagicNumberMask)
	}
	if h.Options&ReservedMask != 0 || data[3] != 0 {
		return Header{}, fmt.Errorf("%w: reserved bits set", errs.ErrInvalidSnapshot)
	}

	h.Compression = format.CompressionType(data[2])
	if !h.Compression.Valid() {
		return Header{}, fmt.Errorf("%w: %w: %d", errs.ErrInvalidSnapshot, errs.ErrUnsupportedCompression, data[2])
	}

	engine := h.Engine()
	h.EntryCount = engine.Uint32(data[4:8])
	h.RawSize = engine.Uint32(data[8:12])
	h.Checksum = engine.Uint32(data[12:16])

	return h, nil
}
