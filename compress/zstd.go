package compress

// ZstdCompressor is the Zstandard block codec.
//
// The implementation is chosen at build time: the pure Go
// klauspost/compress/zstd encoder by default, gozstd when built with cgo
// and the gozstd tag. Both produce standard zstd frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd block codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
