package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/chongzai/jfr/internal/pool"
)

// gzipReaderPool pools gzip readers for reuse; Reset rebinds a reader
// to a new source without reallocating its window.
var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// GzipDecompressor unwraps gzip containers, the most common wrapping
// for recordings shipped off-host.
type GzipDecompressor struct{}

var _ Decompressor = (*GzipDecompressor)(nil)

// NewGzipDecompressor creates a new gzip decompressor.
func NewGzipDecompressor() GzipDecompressor {
	return GzipDecompressor{}
}

// Decompress decompresses a complete gzip stream.
func (GzipDecompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	gr, _ := gzipReaderPool.Get().(*gzip.Reader)
	defer gzipReaderPool.Put(gr)

	if err := gr.Reset(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	buf := pool.GetDecompressBuffer()
	defer pool.PutDecompressBuffer(buf)

	if _, err := io.Copy(buf, gr); err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return buf.CopyBytes(), nil
}
