package pool

import (
	"io"
	"sync"
)

// Default sizes of the shared pools.
const (
	ReadBufferDefaultSize    = 1024 * 1024     // 1MiB, one partition read window
	ReadBufferMaxThreshold   = 1024 * 1024 * 8 // 8MiB
	OutputBufferDefaultSize  = 1024 * 64       // 64KiB
	OutputBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB

	smallGrowStep = 1024 * 16
)

// ByteBuffer is a growable byte slice that can be recycled through a ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates an empty ByteBuffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the buffered bytes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// MustWriteString appends s to the buffer.
func (bb *ByteBuffer) MustWriteString(s string) {
	bb.B = append(bb.B, s...)
}

// Write implements io.Writer. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Grow makes room for at least n more bytes without changing the length.
//
// Small buffers grow in 16KiB steps, larger ones by a quarter of their
// capacity, and never by less than n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := smallGrowStep
	if cap(bb.B) > 4*smallGrowStep {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	buf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(buf, bb.B)
	bb.B = buf
}

// Window returns the buffer resized to exactly n bytes, growing it when needed.
// The content of the returned bytes is unspecified.
func (bb *ByteBuffer) Window(n int) []byte {
	if cap(bb.B) < n {
		bb.B = make([]byte, n)
		return bb.B
	}
	bb.B = bb.B[:n]

	return bb.B
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool.
//
// Buffers whose capacity grew above maxThreshold are dropped on Put instead
// of being retained. A zero maxThreshold keeps every buffer.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose fresh buffers have defaultSize capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. Put(nil) is a no-op.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var (
	readPool   = NewByteBufferPool(ReadBufferDefaultSize, ReadBufferMaxThreshold)
	outputPool = NewByteBufferPool(OutputBufferDefaultSize, OutputBufferMaxThreshold)
)

// GetReadBuffer returns a buffer for partition reads.
func GetReadBuffer() *ByteBuffer {
	return readPool.Get()
}

// PutReadBuffer recycles a buffer obtained from GetReadBuffer.
func PutReadBuffer(bb *ByteBuffer) {
	readPool.Put(bb)
}

// GetOutputBuffer returns a buffer for formatted output and snapshots.
func GetOutputBuffer() *ByteBuffer {
	return outputPool.Get()
}

// PutOutputBuffer recycles a buffer obtained from GetOutputBuffer.
func PutOutputBuffer(bb *ByteBuffer) {
	outputPool.Put(bb)
}
