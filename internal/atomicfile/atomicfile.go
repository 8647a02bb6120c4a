// Package atomicfile writes files through a temporary file and a rename, so
// readers never observe a partially written file.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arloliu/brc/errs"
)

// Perm is the mode of files created by Write.
const Perm = 0o644

// Write runs fill against a buffered temporary file in the directory of path
// and renames the file to path once fill succeeded and the data is synced.
// When fill or any later step fails the temporary file is removed and path
// is left untouched.
func Write(path string, fill func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", errs.ErrIO, path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fill(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush %s: %w", errs.ErrIO, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", errs.ErrIO, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrIO, path, err)
	}
	if err = os.Chmod(tmp.Name(), Perm); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", errs.ErrIO, path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", errs.ErrIO, path, err)
	}

	return nil
}
