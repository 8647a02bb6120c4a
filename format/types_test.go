package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/brc/errs"
)

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Unknown", CompressionType(0).String())
	require.False(t, CompressionType(9).Valid())
}

func TestCompressionFromPath(t *testing.T) {
	tests := []struct {
		path string
		want CompressionType
	}{
		{"measurements.txt", CompressionNone},
		{"measurements", CompressionNone},
		{"data/measurements.txt.zst", CompressionZstd},
		{"out.ZSTD", CompressionZstd},
		{"out.csv.s2", CompressionS2},
		{"out.sz", CompressionS2},
		{"m.lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := CompressionFromPath(tt.path)
			require.Equal(t, tt.want, got)
			if got != CompressionNone {
				require.Equal(t, got, CompressionFromPath("x"+got.Extension()))
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"":     CompressionNone,
		"none": CompressionNone,
		"ZSTD": CompressionZstd,
		"s2":   CompressionS2,
		"lz4":  CompressionLZ4,
	} {
		got, err := ParseCompression(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := ParseCompression("gzip")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}
