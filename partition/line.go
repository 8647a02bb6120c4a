package partition

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"github.com/arloliu/brc/errs"
)

// DefaultDelimiter separates the key from the measurement on each line.
const DefaultDelimiter = ';'

// maxFastDigits keeps the fast path mantissa below 2^53 so that the single
// division by an exact power of ten rounds the same way strconv does.
const maxFastDigits = 15

var pow10 = [...]float64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15}

// ParseLine splits line at the first delim byte and parses the remainder as
// a decimal measurement.
//
// The returned key aliases line. It returns errs.ErrNoDelimiter when line
// has no delimiter, and errs.ErrInvalidMeasurement when the value is empty,
// not a decimal number, or not finite.
func ParseLine(line []byte, delim byte) ([]byte, float64, error) {
	sep := bytes.IndexByte(line, delim)
	if sep < 0 {
		return nil, 0, errs.ErrNoDelimiter
	}

	v, err := ParseMeasurement(line[sep+1:])
	if err != nil {
		return nil, 0, err
	}

	return line[:sep], v, nil
}

// ParseMeasurement parses a decimal measurement such as "-12.3".
//
// Plain [-+]digits[.digits] values are parsed without allocation. Other
// decimal forms, including exponents, go through strconv.ParseFloat. Hex
// floats, underscores, infinities and NaN are rejected.
func ParseMeasurement(b []byte) (float64, error) {
	if v, ok := parseFast(b); ok {
		return v, nil
	}

	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidMeasurement)
	}

	if !decimalText(b) {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidMeasurement, b)
	}

	v, err := strconv.ParseFloat(unsafe.String(unsafe.SliceData(b), len(b)), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidMeasurement, b)
	}

	return v, nil
}

func parseFast(b []byte) (float64, bool) {
	i := 0
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}

	var mant uint64
	digits, frac := 0, 0
	seenDot := false
	for ; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= '0' && c <= '9':
			mant = mant*10 + uint64(c-'0')
			digits++
			if seenDot {
				frac++
			}
		case c == '.' && !seenDot:
			seenDot = true
		default:
			return 0, false
		}
	}

	if digits == 0 || digits > maxFastDigits || (seenDot && frac == 0) {
		return 0, false
	}

	v := float64(mant) / pow10[frac]
	if neg {
		v = -v
	}

	return v, true
}

// decimalText reports whether b only holds bytes of a decimal float literal.
func decimalText(b []byte) bool {
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}

	return true
}
