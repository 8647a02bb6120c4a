// Package gen writes synthetic measurement files for benchmarks and tests.
package gen

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
)

// Config controls the generated data.
type Config struct {
	Lines     int64  // number of lines to write
	Stations  int    // number of distinct keys
	Seed      uint64 // random seed; equal seeds give equal files
	Delimiter byte   // key/value separator, ';' when zero
}

// Station is one generated key with the mean its measurements are drawn around.
type Station struct {
	Name string
	Mean float64
}

// Stations returns the stations for cfg. Names are unique.
func Stations(cfg Config) []Station {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	out := make([]Station, cfg.Stations)
	for i := range out {
		out[i] = Station{
			Name: fmt.Sprintf("%s-%d", prefixes[i%len(prefixes)], i),
			Mean: math.Round((rng.Float64()*60-20)*10) / 10,
		}
	}

	return out
}

var prefixes = []string{
	"Abha", "Bulawayo", "Cracow", "Dodoma", "Hamburg", "Kyiv", "Palembang",
	"St. John's", "São Paulo", "Ürümqi", "Zürich",
}

// Write writes cfg.Lines lines of "<station><delim><value>\n" to w.
//
// Values are drawn from a normal distribution around each station's mean,
// clamped to [-99.9, 99.9] and printed with one decimal.
func Write(w io.Writer, cfg Config) error {
	if cfg.Stations < 1 {
		return fmt.Errorf("stations must be positive, got %d", cfg.Stations)
	}
	if cfg.Lines < 0 {
		return fmt.Errorf("lines must not be negative, got %d", cfg.Lines)
	}
	delim := cfg.Delimiter
	if delim == 0 {
		delim = ';'
	}

	stations := Stations(cfg)
	rng := rand.New(rand.NewPCG(cfg.Seed+1, cfg.Seed))
	bw := bufio.NewWriterSize(w, 1<<20)

	line := make([]byte, 0, 128)
	for range cfg.Lines {
		st := &stations[rng.IntN(len(stations))]
		v := math.Round((st.Mean+rng.NormFloat64()*10)*10) / 10
		v = max(-99.9, min(99.9, v))

		line = append(line[:0], st.Name...)
		line = append(line, delim)
		line = strconv.AppendFloat(line, v, 'f', 1, 64)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}

	return bw.Flush()
}
