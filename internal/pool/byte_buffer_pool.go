package pool

import "sync"

const (
	// DecompressBufferDefaultSize is the initial capacity of buffers
	// handed out for unwrapping compressed recording containers.
	DecompressBufferDefaultSize = 1024 * 1024 // 1MiB

	// DecompressBufferMaxThreshold caps the capacity of buffers returned
	// to the pool; anything larger is dropped for the GC to reclaim.
	DecompressBufferMaxThreshold = 1024 * 1024 * 32 // 32MiB
)

// ByteBuffer is a growable byte slice that can serve as an io.Writer
// target for streaming decompression.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset resets the buffer to be empty, but retains the allocated memory
// for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Write appends data to the buffer, growing it as needed. It implements
// io.Writer and never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// CopyBytes returns a right-sized copy of the buffer contents, suitable
// for handing to a caller after the buffer goes back to the pool.
func (bb *ByteBuffer) CopyBytes() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

var decompressBufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(DecompressBufferDefaultSize)
	},
}

// GetDecompressBuffer retrieves an empty ByteBuffer from the pool.
func GetDecompressBuffer() *ByteBuffer {
	bb, _ := decompressBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutDecompressBuffer returns a ByteBuffer to the pool. Oversized
// buffers are dropped to keep the pool footprint bounded.
func PutDecompressBuffer(bb *ByteBuffer) {
	if bb == nil || bb.Cap() > DecompressBufferMaxThreshold {
		return
	}
	decompressBufferPool.Put(bb)
}
