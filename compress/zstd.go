package compress

// ZstdDecompressor unwraps Zstandard frame containers.
//
// Two implementations exist behind build tags: cgo builds bind the
// Zstandard C library through gozstd, pure-Go builds use
// klauspost/compress/zstd. Both decode the same frames.
type ZstdDecompressor struct{}

var _ Decompressor = (*ZstdDecompressor)(nil)

// NewZstdDecompressor creates a new Zstd decompressor.
func NewZstdDecompressor() ZstdDecompressor {
	return ZstdDecompressor{}
}
