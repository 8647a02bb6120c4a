package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/internal/atomicfile"
	"github.com/arloliu/brc/table"
)

// Extension is the conventional file extension for snapshots.
const Extension = ".brcs"

// WriteFile encodes t and writes it atomically to path.
func WriteFile(path string, t *table.Table, opts ...Option) error {
	data, err := Encode(t, opts...)
	if err != nil {
		return err
	}

	return atomicfile.Write(path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: write snapshot: %w", errs.ErrIO, err)
		}

		return nil
	})
}

// ReadFile reads and decodes the snapshot at path.
func ReadFile(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrIO, path, err)
	}

	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}
