package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/chongzai/jfr/internal/pool"
)

// lz4ReaderPool pools lz4 frame readers for reuse.
var lz4ReaderPool = sync.Pool{
	New: func() any {
		return lz4.NewReader(nil)
	},
}

// LZ4Decompressor unwraps LZ4 frame containers.
type LZ4Decompressor struct{}

var _ Decompressor = (*LZ4Decompressor)(nil)

// NewLZ4Decompressor creates a new LZ4 frame decompressor.
func NewLZ4Decompressor() LZ4Decompressor {
	return LZ4Decompressor{}
}

// Decompress decompresses a complete LZ4 frame stream.
func (LZ4Decompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	lr, _ := lz4ReaderPool.Get().(*lz4.Reader)
	defer lz4ReaderPool.Put(lr)

	lr.Reset(bytes.NewReader(data))

	buf := pool.GetDecompressBuffer()
	defer pool.PutDecompressBuffer(buf)

	if _, err := io.Copy(buf, lr); err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	return buf.CopyBytes(), nil
}
