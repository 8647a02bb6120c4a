// Package endian selects the byte order used by snapshot files.
//
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so one
// value can both decode fixed-width fields and append them to a buffer:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, math.Float64bits(v))
//
// Snapshots default to little-endian. The byte order is recorded in the
// snapshot header, so a reader never needs to know it in advance.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine reads and appends fixed-width integers in one byte order.
// binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEngine returns the engine matching the byte order of the host.
func GetNativeEngine() EndianEngine {
	var probe uint16 = 0x0100
	if (*[2]byte)(unsafe.Pointer(&probe))[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// ForBigEndian returns the big-endian engine when big is true and the
// little-endian engine otherwise. It maps a header flag bit to an engine.
func ForBigEndian(big bool) EndianEngine {
	if big {
		return binary.BigEndian
	}

	return binary.LittleEndian
}
