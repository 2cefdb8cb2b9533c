// Package pool recycles the scratch buffers used to serialize decoded
// snapshots.
package pool

import (
	"encoding/binary"
	"math"
	"sync"
)

// Snapshot buffer sizing. A typical UV or MS matrix serializes to a few
// hundred KiB; buffers that grew past the threshold are dropped instead of
// being pooled.
const (
	SnapshotBufferDefaultSize  = 64 * 1024
	SnapshotBufferMaxThreshold = 16 * 1024 * 1024
)

// ByteBuffer is an append-only little-endian writer over a reusable slice.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Grow ensures room for n more bytes.
//
// Small buffers grow by SnapshotBufferDefaultSize, larger ones by 25% of
// their capacity, and never by less than n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := SnapshotBufferDefaultSize
	if cap(bb.B) > 4*SnapshotBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	growBy = max(growBy, n)

	buf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(buf, bb.B)
	bb.B = buf
}

// Write appends data. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// PutUint16 appends v little-endian.
func (bb *ByteBuffer) PutUint16(v uint16) {
	bb.B = binary.LittleEndian.AppendUint16(bb.B, v)
}

// PutUint32 appends v little-endian.
func (bb *ByteBuffer) PutUint32(v uint32) {
	bb.B = binary.LittleEndian.AppendUint32(bb.B, v)
}

// PutFloat64 appends the IEEE 754 bits of v little-endian.
func (bb *ByteBuffer) PutFloat64(v float64) {
	bb.B = binary.LittleEndian.AppendUint64(bb.B, math.Float64bits(v))
}

// PutFloat64s appends every value of vs.
func (bb *ByteBuffer) PutFloat64s(vs []float64) {
	bb.Grow(8 * len(vs))
	for _, v := range vs {
		bb.PutFloat64(v)
	}
}

// PutString appends a uint16 length prefix and the bytes of s, cutting s
// at 65535 bytes.
func (bb *ByteBuffer) PutString(s string) {
	s = s[:min(len(s), math.MaxUint16)]
	bb.PutUint16(uint16(len(s)))
	bb.B = append(bb.B, s...)
}

// ByteBufferPool is a pool of ByteBuffers backed by sync.Pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with the given initial
// capacity. Buffers larger than maxThreshold are not returned to the pool;
// zero disables the limit.
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

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var snapshotPool = NewByteBufferPool(SnapshotBufferDefaultSize, SnapshotBufferMaxThreshold)

// GetSnapshotBuffer retrieves a buffer from the shared snapshot pool.
func GetSnapshotBuffer() *ByteBuffer {
	return snapshotPool.Get()
}

// PutSnapshotBuffer returns a buffer to the shared snapshot pool.
func PutSnapshotBuffer(bb *ByteBuffer) {
	snapshotPool.Put(bb)
}
