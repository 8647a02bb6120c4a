package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/brc/compress"
	"github.com/arloliu/brc/errs"
	"github.com/arloliu/brc/format"
)

var sample = []byte("Paris;10.0\nLondon;5.0\nParis;20.0\nLondon;-5.0\n")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func writeCompressed(t *testing.T, name string, ct format.CompressionType, data []byte) string {
	t.Helper()

	var buf bytes.Buffer
	w, err := compress.NewWriter(ct, &buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return writeFile(t, name, buf.Bytes())
}

func readAt(t *testing.T, src Source, off int64) []byte {
	t.Helper()

	h, err := src.Open()
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Seek(off, io.SeekStart)
	require.NoError(t, err)
	got, err := io.ReadAll(h)
	require.NoError(t, err)

	return got
}

func TestOpen_Modes(t *testing.T) {
	path := writeFile(t, "measurements.txt", sample)

	tests := []struct {
		name string
		opts []OpenOption
		want any
	}{
		{name: "default", want: &File{}},
		{name: "file", opts: []OpenOption{WithMode(ModeFile)}, want: &File{}},
		{name: "mmap", opts: []OpenOption{WithMode(ModeMmap)}, want: &Mmap{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(path, tt.opts...)
			require.NoError(t, err)
			defer src.Close()

			require.IsType(t, tt.want, src)
			require.Equal(t, path, src.Name())
			require.Equal(t, int64(len(sample)), src.Size())
			require.Equal(t, sample, readAt(t, src, 0))
			require.Equal(t, sample[11:], readAt(t, src, 11))
		})
	}
}

func TestOpen_IndependentHandles(t *testing.T) {
	path := writeFile(t, "measurements.txt", sample)

	for _, mode := range []Mode{ModeFile, ModeMmap} {
		t.Run(mode.String(), func(t *testing.T) {
			src, err := Open(path, WithMode(mode))
			require.NoError(t, err)
			defer src.Close()

			a, err := src.Open()
			require.NoError(t, err)
			defer a.Close()
			b, err := src.Open()
			require.NoError(t, err)
			defer b.Close()

			_, err = a.Seek(22, io.SeekStart)
			require.NoError(t, err)

			buf := make([]byte, 5)
			_, err = io.ReadFull(b, buf)
			require.NoError(t, err)
			require.Equal(t, "Paris", string(buf))

			_, err = io.ReadFull(a, buf)
			require.NoError(t, err)
			require.Equal(t, "Paris", string(buf))
		})
	}
}

func TestOpen_Compressed(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			path := writeCompressed(t, "measurements.txt"+ct.Extension(), ct, sample)

			src, err := Open(path)
			require.NoError(t, err)
			defer src.Close()

			require.IsType(t, &Memory{}, src)
			require.Equal(t, int64(len(sample)), src.Size())
			require.Equal(t, sample, readAt(t, src, 0))
		})
	}
}

func TestOpen_CompressionOverride(t *testing.T) {
	path := writeCompressed(t, "measurements.bin", format.CompressionZstd, sample)

	src, err := Open(path, WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	require.Equal(t, sample, readAt(t, src, 0))
	require.NoError(t, src.Close())

	// forcing plain text reads the compressed bytes as they are
	raw := writeFile(t, "plain.zst", sample)
	src, err = Open(raw, WithCompression(format.CompressionNone))
	require.NoError(t, err)
	require.IsType(t, &File{}, src)
	require.NoError(t, src.Close())
}

func TestOpen_CorruptCompressed(t *testing.T) {
	path := writeFile(t, "broken.zst", []byte("not a zstd stream at all"))
	_, err := Open(path)
	require.ErrorIs(t, err, errs.ErrIO)
}

func TestOpen_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")

	_, err := Open(missing)
	require.ErrorIs(t, err, errs.ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(missing, WithMode(ModeMmap))
	require.ErrorIs(t, err, errs.ErrIO)

	_, err = Open(missing + ".zst")
	require.ErrorIs(t, err, errs.ErrIO)

	_, err = Open(t.TempDir())
	require.ErrorIs(t, err, errs.ErrIO)

	_, err = Open(missing, WithMode(Mode(7)))
	require.ErrorIs(t, err, errs.ErrInvalidInputMode)

	_, err = Open(missing, WithCompression(format.CompressionType(0x40)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestOpen_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)

	for _, mode := range []Mode{ModeFile, ModeMmap} {
		src, err := Open(path, WithMode(mode))
		require.NoError(t, err)
		require.Equal(t, int64(0), src.Size())
		require.Empty(t, readAt(t, src, 0))
		require.NoError(t, src.Close())
	}
}

func TestMemory(t *testing.T) {
	src := NewMemory("inline", sample)
	require.Equal(t, "inline", src.Name())
	require.Equal(t, int64(len(sample)), src.Size())
	require.Equal(t, sample[22:], readAt(t, src, 22))
	require.NoError(t, src.Close())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("mmap")
	require.NoError(t, err)
	require.Equal(t, ModeMmap, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeFile, m)

	_, err = ParseMode("direct")
	require.ErrorIs(t, err, errs.ErrInvalidInputMode)

	require.Equal(t, "unknown", Mode(5).String())
}
