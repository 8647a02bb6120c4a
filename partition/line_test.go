package partition

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/brc/errs"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim byte
		key   string
		value float64
		err   error
	}{
		{name: "basic", line: "Paris;10.0", delim: ';', key: "Paris", value: 10.0},
		{name: "negative", line: "Oslo;-5.5", delim: ';', key: "Oslo", value: -5.5},
		{name: "integer", line: "Rome;21", delim: ';', key: "Rome", value: 21},
		{name: "explicit plus", line: "Lima;+3.25", delim: ';', key: "Lima", value: 3.25},
		{name: "splits at first delimiter", line: "a;b;1.0", delim: ';', err: errs.ErrInvalidMeasurement},
		{name: "empty key", line: ";7.1", delim: ';', key: "", value: 7.1},
		{name: "utf8 key", line: "São Paulo;25.1", delim: ';', key: "São Paulo", value: 25.1},
		{name: "custom delimiter", line: "Kyiv,0.4", delim: ',', key: "Kyiv", value: 0.4},
		{name: "exponent falls back", line: "x;1e2", delim: ';', key: "x", value: 100},
		{name: "negative exponent", line: "x;-25E-1", delim: ';', key: "x", value: -2.5},
		{name: "hex float", line: "x;0x1p4", delim: ';', err: errs.ErrInvalidMeasurement},
		{name: "underscore digits", line: "x;1_000", delim: ';', err: errs.ErrInvalidMeasurement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, v, err := ParseLine([]byte(tt.line), tt.delim)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.key, string(key))
			require.Equal(t, tt.value, v)
		})
	}
}

func TestParseLine_NoDelimiter(t *testing.T) {
	_, _, err := ParseLine([]byte("Paris 10.0"), ';')
	require.ErrorIs(t, err, errs.ErrNoDelimiter)
}

func TestParseLine_KeyAliasesLine(t *testing.T) {
	line := []byte("Paris;10.0")
	key, _, err := ParseLine(line, ';')
	require.NoError(t, err)
	require.Same(t, &line[0], &key[0])
}

func TestParseMeasurement_Invalid(t *testing.T) {
	inputs := []string{
		"", "-", "+", ".", "abc", "1.2.3", "NaN", "Inf", "-Inf", "1e400", " 1.0", "1,5",
		"0x1p4", "0X1P-2", "0x10", "1_000", "1_0.5", "0b101", "infinity",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseMeasurement([]byte(in))
			require.ErrorIs(t, err, errs.ErrInvalidMeasurement)
		})
	}
}

func TestParseMeasurement_MatchesStrconv(t *testing.T) {
	inputs := []string{
		"0", "0.0", "-0.0", "99.9", "-99.9", "12.3", "0.1", "-0.1",
		"1.", ".5", "123456789012345", "1234567890.12345", "12345678901234567890",
		"3.14159265358979", "-273.15",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := ParseMeasurement([]byte(in))
			require.NoError(t, err)

			want, err := strconv.ParseFloat(in, 64)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func BenchmarkParseLine(b *testing.B) {
	line := []byte("Bridgetown;-12.3")
	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := ParseLine(line, ';'); err != nil {
			b.Fatal(err)
		}
	}
}
