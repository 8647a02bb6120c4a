// Package compress provides the compression algorithms used for table
// snapshots, compressed input files and compressed output files.
//
// Two shapes are offered for every algorithm:
//
//   - Block codecs (Codec, GetCodec, CreateCodec) compress a complete
//     in-memory payload. Snapshots use them for their entry section.
//   - Streams (NewReader, NewWriter) speak the framed formats produced by
//     the zstd, s2 and lz4 command line tools, so a measurements file
//     compressed with any of them can be read, and output can be written
//     in the same formats.
//
// # Supported Algorithms
//
//   - None: bytes pass through unchanged
//   - Zstd: best ratio, github.com/klauspost/compress/zstd (pure Go) or,
//     with cgo and the gozstd build tag, github.com/valyala/gozstd for blocks
//   - S2: fast, github.com/klauspost/compress/s2
//   - LZ4: fastest decompression, github.com/pierrec/lz4/v4
//
// Block and stream encodings of the same algorithm are not interchangeable:
// a block produced by S2Compressor is not an s2 stream.
//
// # Thread Safety
//
// Codecs are stateless values backed by pools and may be shared between
// goroutines. Stream readers and writers belong to a single goroutine.
package compress
