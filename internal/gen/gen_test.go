package gen

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Config{Lines: 1000, Stations: 20, Seed: 7}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1000)

	seen := map[string]bool{}
	for _, line := range lines {
		key, val, ok := strings.Cut(line, ";")
		require.True(t, ok, line)
		seen[key] = true

		v, err := strconv.ParseFloat(val, 64)
		require.NoError(t, err, line)
		require.GreaterOrEqual(t, v, -99.9)
		require.LessOrEqual(t, v, 99.9)
	}
	require.LessOrEqual(t, len(seen), 20)
}

func TestWrite_Deterministic(t *testing.T) {
	var a, b, c bytes.Buffer
	require.NoError(t, Write(&a, Config{Lines: 200, Stations: 5, Seed: 1}))
	require.NoError(t, Write(&b, Config{Lines: 200, Stations: 5, Seed: 1}))
	require.NoError(t, Write(&c, Config{Lines: 200, Stations: 5, Seed: 2}))

	require.Equal(t, a.String(), b.String())
	require.NotEqual(t, a.String(), c.String())
}

func TestWrite_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Config{Lines: 3, Stations: 1, Delimiter: '|'}))
	require.Equal(t, 3, strings.Count(buf.String(), "|"))
}

func TestWrite_Invalid(t *testing.T) {
	require.Error(t, Write(&bytes.Buffer{}, Config{Lines: 1}))
	require.Error(t, Write(&bytes.Buffer{}, Config{Lines: -1, Stations: 1}))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Config{Stations: 3}))
	require.Empty(t, buf.String())
}

func TestStations_Unique(t *testing.T) {
	st := Stations(Config{Stations: 500, Seed: 3})
	names := map[string]bool{}
	for _, s := range st {
		require.False(t, names[s.Name], s.Name)
		names[s.Name] = true
	}
}
