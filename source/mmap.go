package source

import (
	"io"

	"golang.org/x/exp/mmap"
)

// Mmap is a Source backed by a read-only memory mapping.
type Mmap struct {
	path string
	r    *mmap.ReaderAt
}

var _ Source = (*Mmap)(nil)

// OpenMmap maps path into memory. Close unmaps it.
func OpenMmap(path string) (*Mmap, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, ioError(path, err)
	}

	return &Mmap{path: path, r: r}, nil
}

func (m *Mmap) Name() string { return m.path }

func (m *Mmap) Size() int64 { return int64(m.r.Len()) }

func (m *Mmap) Open() (io.ReadSeekCloser, error) {
	return readSeekNopCloser{io.NewSectionReader(m.r, 0, m.Size())}, nil
}

func (m *Mmap) Close() error {
	if err := m.r.Close(); err != nil {
		return ioError(m.path, err)
	}

	return nil
}
