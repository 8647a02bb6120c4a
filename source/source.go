// Package source provides seekable views of the input file.
//
// Every scan partition opens its own handle through Source.Open, so handles
// are never shared between goroutines. Three implementations exist:
//
//   - ModeFile: each handle is an independent *os.File.
//   - ModeMmap: the file is mapped once and each handle is an io.SectionReader
//     over the mapping.
//   - Memory: the input is already in memory, e.g. after decompressing a
//     .zst, .s2 or .lz4 file.
//
// Open picks the implementation from the path and options:
//
//	src, err := source.Open("measurements.txt", source.WithMode(source.ModeMmap))
//	if err != nil {
//		return err
//	}
//	defer src.Close()
package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/brc/errs"
)

// Source is a fixed-size input that can be opened many times concurrently.
type Source interface {
	// Name identifies the input in logs and errors.
	Name() string
	// Size returns the input size in bytes.
	Size() int64
	// Open returns a new handle positioned at offset 0. The caller closes it.
	Open() (io.ReadSeekCloser, error)
	// Close releases resources shared by all handles. Handles must be closed first.
	Close() error
}

// Mode selects how a file on disk is read.
type Mode uint8

const (
	// ModeFile reads through one os.File per handle.
	ModeFile Mode = iota
	// ModeMmap maps the file into memory once.
	ModeMmap
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeMmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// ParseMode converts "file" or "mmap" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "file":
		return ModeFile, nil
	case "mmap":
		return ModeMmap, nil
	default:
		return ModeFile, fmt.Errorf("%w: unknown input mode %q", errs.ErrInvalidInputMode, name)
	}
}

// Memory is a Source over a byte slice.
type Memory struct {
	name string
	data []byte
}

var _ Source = (*Memory)(nil)

// NewMemory creates a Source over data. data must not be modified while
// handles are open.
func NewMemory(name string, data []byte) *Memory {
	return &Memory{name: name, data: data}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Size() int64 { return int64(len(m.data)) }

func (m *Memory) Open() (io.ReadSeekCloser, error) {
	return readSeekNopCloser{bytes.NewReader(m.data)}, nil
}

func (m *Memory) Close() error { return nil }

type readSeekNopCloser struct {
	io.ReadSeeker
}

func (readSeekNopCloser) Close() error { return nil }
