package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/format"
)

// NewReader wraps r with a decoder for the framed stream format of ct.
// Closing the returned reader releases decoder resources but does not close r.
//
// Parameters:
//   - ct: Stream compression of r
//   - r: Compressed source
//
// Returns:
//   - io.ReadCloser: Decompressed view of r
//   - error: errs.ErrUnsupportedCompression for an unknown type, or a decoder setup error
func NewReader(ct format.CompressionType, r io.Reader) (io.ReadCloser, error) {
	switch ct {
	case format.CompressionNone:
		return io.NopCloser(r), nil
	case format.CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}

		return zstdReadCloser{dec}, nil
	case format.CompressionS2:
		return io.NopCloser(s2.NewReader(r)), nil
	case format.CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint8(ct))
	}
}

// NewWriter wraps w with an encoder for the framed stream format of ct.
// Close must be called to flush the final frame; it does not close w.
func NewWriter(ct format.CompressionType, w io.Writer) (io.WriteCloser, error) {
	switch ct {
	case format.CompressionNone:
		return nopWriteCloser{w}, nil
	case format.CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}

		return enc, nil
	case format.CompressionS2:
		return s2.NewWriter(w), nil
	case format.CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint8(ct))
	}
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
