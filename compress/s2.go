package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/s2"

	"github.com/chongzai/jfr/internal/pool"
)

// s2ReaderPool pools s2 stream readers for reuse.
var s2ReaderPool = sync.Pool{
	New: func() any {
		return s2.NewReader(nil)
	},
}

// S2Decompressor unwraps S2/Snappy framed containers.
type S2Decompressor struct{}

var _ Decompressor = (*S2Decompressor)(nil)

// NewS2Decompressor creates a new S2 stream decompressor.
func NewS2Decompressor() S2Decompressor {
	return S2Decompressor{}
}

// Decompress decompresses a complete S2 framed stream.
func (S2Decompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	sr, _ := s2ReaderPool.Get().(*s2.Reader)
	defer s2ReaderPool.Put(sr)

	sr.Reset(bytes.NewReader(data))

	buf := pool.GetDecompressBuffer()
	defer pool.PutDecompressBuffer(buf)

	if _, err := io.Copy(buf, sr); err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return buf.CopyBytes(), nil
}
