package endian

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestGetNativeEngine(t *testing.T) {
	var probe uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&probe))[0]

	switch first {
	case 0x01:
		require.Equal(t, binary.BigEndian, GetNativeEngine())
	case 0x02:
		require.Equal(t, binary.LittleEndian, GetNativeEngine())
	default:
		require.Failf(t, "unexpected byte value", "got: %v", first)
	}
}

func TestEngines(t *testing.T) {
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
	require.Equal(t, binary.BigEndian, GetBigEndianEngine())

	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))

	require.Equal(t, GetBigEndianEngine(), ForBigEndian(true))
	require.Equal(t, GetLittleEndianEngine(), ForBigEndian(false))
}

func TestEngine_Float64RoundTrip(t *testing.T) {
	values := []float64{0, -0.0, 1.5, -99.9, math.MaxFloat64, math.SmallestNonzeroFloat64}

	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		var buf []byte
		for _, v := range values {
			buf = engine.AppendUint64(buf, math.Float64bits(v))
		}
		require.Len(t, buf, 8*len(values))

		for i, v := range values {
			got := math.Float64frombits(engine.Uint64(buf[i*8:]))
			require.Equal(t, math.Float64bits(v), math.Float64bits(got))
		}
	}
}

func TestEngine_ByteLayout(t *testing.T) {
	le := GetLittleEndianEngine().AppendUint32(nil, 0x01020304)
	be := GetBigEndianEngine().AppendUint32(nil, 0x01020304)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be)
}
