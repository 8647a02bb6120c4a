package output

import (
	"io"

	"github.com/arloliu/brc/compress"
	"github.com/arloliu/brc/format"
	"github.com/arloliu/brc/internal/atomicfile"
	"github.com/arloliu/brc/table"
)

// WriteFile renders t into the file at path.
//
// The output is written to a temporary file in the same directory and
// renamed over path only after everything was written and synced, so a
// failed call leaves no partial file behind. Paths ending in .zst, .s2, .sz
// or .lz4 are written as compressed streams unless WithCompression says
// otherwise.
//
// Parameters:
//   - path: Destination file, replaced if it exists
//   - t: Table to render
//   - opts: WithSorted, WithCompression
//
// Returns:
//   - error: errs.ErrIO wrapping the failure, or an option error
func WriteFile(path string, t *table.Table, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	if cfg.autoDetect {
		cfg.Compression = format.CompressionFromPath(path)
	}

	return atomicfile.Write(path, func(w io.Writer) error {
		cw, err := compress.NewWriter(cfg.Compression, w)
		if err != nil {
			return err
		}
		if err := write(cw, t, cfg); err != nil {
			cw.Close()
			return err
		}

		return cw.Close()
	})
}
