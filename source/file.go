package source

import (
	"fmt"
	"io"
	"os"
)

// File is a Source that opens an independent *os.File per handle.
type File struct {
	path string
	size int64
}

var _ Source = (*File)(nil)

// OpenFile stats path and returns a File source for it.
func OpenFile(path string) (*File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	if fi.IsDir() {
		return nil, ioError(path, fmt.Errorf("is a directory"))
	}

	return &File{path: path, size: fi.Size()}, nil
}

func (f *File) Name() string { return f.path }

func (f *File) Size() int64 { return f.size }

// Open opens a new handle and hints the kernel that it will be read sequentially.
func (f *File) Open() (io.ReadSeekCloser, error) {
	fd, err := os.Open(f.path)
	if err != nil {
		return nil, ioError(f.path, err)
	}
	_ = adviseSequential(fd)

	return fd, nil
}

func (f *File) Close() error { return nil }
