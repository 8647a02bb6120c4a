package source

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/brc/compress"
	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/format"
	"github.com/arloliu/brc/internal/options"
)

type openConfig struct {
	mode        Mode
	compression format.CompressionType
	autoDetect  bool
}

// OpenOption configures Open.
type OpenOption = options.Option[*openConfig]

// WithMode selects how an uncompressed file is read. The default is ModeFile.
func WithMode(m Mode) OpenOption {
	return options.New(func(c *openConfig) error {
		if m != ModeFile && m != ModeMmap {
			return fmt.Errorf("%w: %d", errs.ErrInvalidInputMode, m)
		}
		c.mode = m

		return nil
	})
}

// WithCompression overrides the compression detected from the file extension.
// format.CompressionNone forces the file to be read as plain text.
func WithCompression(ct format.CompressionType) OpenOption {
	return options.New(func(c *openConfig) error {
		if !ct.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint8(ct))
		}
		c.compression = ct
		c.autoDetect = false

		return nil
	})
}

// Open returns a Source for the file at path.
//
// Files ending in .zst, .zstd, .s2, .sz or .lz4 are compressed streams and
// cannot be split by byte offset, so they are decompressed into memory and
// served by a Memory source. Other files are read according to the mode.
//
// Parameters:
//   - path: Input file
//   - opts: WithMode, WithCompression
//
// Returns:
//   - Source: Seekable view of the decompressed input; the caller must Close it
//   - error: errs.ErrIO wrapping the underlying failure, or an option error
func Open(path string, opts ...OpenOption) (Source, error) {
	cfg := &openConfig{mode: ModeFile, autoDetect: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.autoDetect {
		cfg.compression = format.CompressionFromPath(path)
	}

	var (
		src Source
		err error
	)
	switch {
	case cfg.compression != format.CompressionNone:
		src, err = openCompressed(path, cfg.compression)
	case cfg.mode == ModeMmap:
		src, err = OpenMmap(path)
	default:
		src, err = OpenFile(path)
	}
	if err != nil {
		return nil, err
	}

	return src, nil
}

func openCompressed(path string, ct format.CompressionType) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	defer f.Close()

	r, err := compress.NewReader(ct, bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ioError(path, fmt.Errorf("decompress %s: %w", ct, err))
	}

	return NewMemory(path, data), nil
}

func ioError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrIO, path, err)
}
