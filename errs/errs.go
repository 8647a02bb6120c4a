// Package errs defines the sentinel errors shared by the brc packages.
//
// Errors are returned wrapped with additional context using fmt.Errorf and
// the %w verb, so callers should match them with errors.Is:
//
//	res, err := eng.Run(ctx)
//	if errors.Is(err, errs.ErrNoDelimiter) {
//	    // input contains a line without a delimiter
//	}
package errs

import "errors"

// Input and I/O errors.
var (
	// ErrIO wraps any failure to open, seek or read the input, or to write output.
	ErrIO = errors.New("i/o failure")
	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)

// Line parsing errors.
var (
	// ErrNoDelimiter is returned when a line does not contain the delimiter byte.
	ErrNoDelimiter = errors.New("line has no delimiter")
	// ErrInvalidMeasurement is returned when the value segment is not a decimal number.
	ErrInvalidMeasurement = errors.New("invalid measurement")
)

// Configuration errors.
var (
	ErrInvalidPartitionCount = errors.New("partition count must be at least 1")
	ErrInvalidFanIn          = errors.New("merge fan-in must be at least 2")
	ErrInvalidLineCountHint  = errors.New("line count hint must not be negative")
	ErrInvalidBufferSize     = errors.New("invalid read buffer size")
	ErrInvalidDelimiter      = errors.New("delimiter must not be a line terminator")
	ErrInvalidPolicy         = errors.New("invalid malformed line policy")
	ErrInvalidInputMode      = errors.New("invalid input mode")
)

// Snapshot errors.
var (
	// ErrInvalidSnapshot is returned when snapshot data is truncated or malformed.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrSnapshotChecksum is returned when the snapshot payload fails CRC validation.
	ErrSnapshotChecksum = errors.New("snapshot checksum mismatch")
	// ErrKeyTooLong is returned when a key does not fit the snapshot key length prefix.
	ErrKeyTooLong = errors.New("key too long")
)
