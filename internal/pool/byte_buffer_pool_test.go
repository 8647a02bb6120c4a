package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorWriter struct {
	err error
}

func (w *errorWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	n, err := bb.Write([]byte("Paris"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	bb.MustWrite([]byte(","))
	bb.MustWriteString("10.0")
	assert.Equal(t, []byte("Paris,10.0"), bb.Bytes())

	capBefore := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, capBefore, bb.Cap(), "Reset should keep capacity")
}

func TestByteBuffer_WriteTo(t *testing.T) {
	t.Run("copies content", func(t *testing.T) {
		bb := NewByteBuffer(16)
		bb.MustWriteString("London,5.5,5.5,5.5\n")

		var out bytes.Buffer
		n, err := bb.WriteTo(&out)
		require.NoError(t, err)
		assert.Equal(t, int64(19), n)
		assert.Equal(t, "London,5.5,5.5,5.5\n", out.String())
	})

	t.Run("propagates writer error", func(t *testing.T) {
		bb := NewByteBuffer(16)
		bb.MustWriteString("x")

		n, err := bb.WriteTo(&errorWriter{err: io.ErrShortWrite})
		require.ErrorIs(t, err, io.ErrShortWrite)
		assert.Equal(t, int64(0), n)
	})
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("no-op with enough capacity", func(t *testing.T) {
		bb := NewByteBuffer(smallGrowStep)
		bb.Grow(100)
		assert.Equal(t, smallGrowStep, bb.Cap())
	})

	t.Run("small buffer grows by step", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.MustWriteString("12345678")
		bb.Grow(1)
		assert.GreaterOrEqual(t, bb.Cap(), 8+smallGrowStep)
		assert.Equal(t, []byte("12345678"), bb.Bytes())
	})

	t.Run("large request is honoured", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.Grow(10 * smallGrowStep)
		assert.GreaterOrEqual(t, bb.Cap(), 10*smallGrowStep)
		assert.Equal(t, 0, bb.Len())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * smallGrowStep
		bb := &ByteBuffer{B: make([]byte, size)}
		bb.Grow(1)
		assert.GreaterOrEqual(t, bb.Cap(), size+size/4)
	})
}

func TestByteBuffer_Window(t *testing.T) {
	bb := NewByteBuffer(16)

	w := bb.Window(8)
	assert.Len(t, w, 8)
	assert.Equal(t, 16, bb.Cap(), "window within capacity must not reallocate")

	w = bb.Window(64)
	assert.Len(t, w, 64)
	assert.GreaterOrEqual(t, bb.Cap(), 64)
}

func TestByteBufferPool(t *testing.T) {
	t.Run("fresh buffers have default capacity", func(t *testing.T) {
		p := NewByteBufferPool(4096, 0)
		bb := p.Get()
		require.NotNil(t, bb)
		assert.GreaterOrEqual(t, bb.Cap(), 4096)
		p.Put(bb)
	})

	t.Run("put resets buffer", func(t *testing.T) {
		p := NewByteBufferPool(64, 1024)
		bb := p.Get()
		bb.MustWriteString("data")
		p.Put(bb)
		assert.Equal(t, 0, bb.Len())
	})

	t.Run("oversized buffer is dropped", func(t *testing.T) {
		p := NewByteBufferPool(64, 128)
		bb := p.Get()
		bb.Grow(4096)
		p.Put(bb)
		assert.Greater(t, bb.Cap(), 128)
		assert.NotPanics(t, func() { p.Put(nil) })
	})
}

func TestSharedPools(t *testing.T) {
	rb := GetReadBuffer()
	require.NotNil(t, rb)
	assert.GreaterOrEqual(t, rb.Cap(), ReadBufferDefaultSize)
	PutReadBuffer(rb)

	ob := GetOutputBuffer()
	require.NotNil(t, ob)
	assert.GreaterOrEqual(t, ob.Cap(), OutputBufferDefaultSize)
	PutOutputBuffer(ob)
}

func TestSharedPools_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				bb := GetOutputBuffer()
				bb.MustWriteString("key")
				assert.Equal(t, 3, bb.Len())
				PutOutputBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
