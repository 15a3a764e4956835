// Package compress detects and unwraps compressed recording containers.
//
// async-profiler writes plain JFR, but recordings are routinely shipped
// and stored gzip- or zstd-compressed. The reader sniffs the leading
// magic bytes and, when a known container is found, decompresses the
// whole stream into memory before chunk indexing; the JFR layer never
// sees the container.
package compress

import (
	"bytes"
	"fmt"

	"github.com/chongzai/jfr/format"
)

// Decompressor unwraps one container format.
//
// Memory management:
//   - The returned slice is newly allocated and owned by the caller.
//   - The input slice is not modified.
//   - Internal buffers and decoder state may be reused across calls.
type Decompressor interface {
	// Decompress decompresses the complete input stream and returns the
	// original bytes. It returns an error if the data is corrupted or
	// was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	// S2 streams start with "S2sTwO"; the S2 reader also accepts Snappy
	// framed streams, which start with "sNaPpY".
	s2Magic     = []byte{0xff, 0x06, 0x00, 0x00, 0x53, 0x32, 0x73, 0x54, 0x77, 0x4f}
	snappyMagic = []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}
)

// Detect sniffs the leading magic bytes of data and reports which
// container it is wrapped in, or CompressionNone for a plain recording.
// The JFR chunk magic "FLR\x00" collides with none of the containers.
func Detect(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return format.CompressionGzip
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4
	case bytes.HasPrefix(data, s2Magic), bytes.HasPrefix(data, snappyMagic):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

var builtinDecompressors = map[format.CompressionType]Decompressor{
	format.CompressionGzip: NewGzipDecompressor(),
	format.CompressionZstd: NewZstdDecompressor(),
	format.CompressionLZ4:  NewLZ4Decompressor(),
	format.CompressionS2:   NewS2Decompressor(),
}

// GetDecompressor retrieves the built-in Decompressor for the specified
// container type.
func GetDecompressor(compressionType format.CompressionType) (Decompressor, error) {
	if d, ok := builtinDecompressors[compressionType]; ok {
		return d, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// Decompress unwraps data using the built-in Decompressor for the
// specified container type.
func Decompress(compressionType format.CompressionType, data []byte) ([]byte, error) {
	d, err := GetDecompressor(compressionType)
	if err != nil {
		return nil, err
	}

	return d.Decompress(data)
}
