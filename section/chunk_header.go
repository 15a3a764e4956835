// Package section parses the fixed-layout sections of a JFR chunk.
package section

import (
	"fmt"

	"github.com/chongzai/jfr/endian"
	"github.com/chongzai/jfr/errs"
	"github.com/chongzai/jfr/format"
)

// ChunkHeader is the 68-byte fixed header at the start of every chunk.
// All fields are big-endian on the wire.
//
// The constant pool and metadata locations are stored as 8-byte fields
// whose meaningful part is the low 4 bytes, so the offsets are decoded
// as 32-bit values at +20 and +28 respectively.
type ChunkHeader struct {
	// Version packs the major version in the high 16 bits and the
	// minor in the low 16 bits.
	Version uint32

	// ChunkLength is the total chunk length in bytes, header included.
	ChunkLength int64

	// ConstantPoolOffset is the offset of the first constant pool block
	// within the chunk.
	ConstantPoolOffset uint32

	// MetadataOffset is the offset of the metadata record within the chunk.
	MetadataOffset uint32

	StartNanos    int64
	DurationNanos int64
	StartTicks    int64
	TicksPerSec   int64
}

// Major returns the major format version.
func (h ChunkHeader) Major() int {
	return int(h.Version >> 16)
}

// Minor returns the minor format version.
func (h ChunkHeader) Minor() int {
	return int(h.Version & 0xffff)
}

// EndNanos returns the wall-clock end of the chunk.
func (h ChunkHeader) EndNanos() int64 {
	return h.StartNanos + h.DurationNanos
}

// ParseChunkHeader parses and validates a chunk header from the start
// of data.
//
// Returns:
//   - errs.ErrNotJFR when the first 4 bytes are present and are not "FLR\x00"
//   - errs.ErrUnexpectedEOF when fewer than 68 bytes remain
//   - errs.ErrUnsupportedVersion (wrapped with major.minor) when the
//     version is outside the supported major version 2 range
func ParseChunkHeader(data []byte) (ChunkHeader, error) {
	engine := endian.GetBigEndianEngine()

	if len(data) >= 4 && engine.Uint32(data[0:4]) != format.Magic {
		return ChunkHeader{}, errs.ErrNotJFR
	}

	if len(data) < format.ChunkHeaderSize {
		return ChunkHeader{}, fmt.Errorf("%w: chunk header needs %d bytes, have %d",
			errs.ErrUnexpectedEOF, format.ChunkHeaderSize, len(data))
	}

	h := ChunkHeader{Version: engine.Uint32(data[4:8])}
	if h.Version < format.VersionMin || h.Version > format.VersionMax {
		return ChunkHeader{}, fmt.Errorf("%w: %d.%d", errs.ErrUnsupportedVersion, h.Major(), h.Minor())
	}

	h.ChunkLength = int64(engine.Uint64(data[format.ChunkSizeOffset : format.ChunkSizeOffset+8]))
	h.ConstantPoolOffset = engine.Uint32(data[format.ConstantPoolOffset : format.ConstantPoolOffset+4])
	h.MetadataOffset = engine.Uint32(data[format.MetadataOffset : format.MetadataOffset+4])
	h.StartNanos = int64(engine.Uint64(data[format.StartNanosOffset : format.StartNanosOffset+8]))
	h.DurationNanos = int64(engine.Uint64(data[format.DurationNanosOffset : format.DurationNanosOffset+8]))
	h.StartTicks = int64(engine.Uint64(data[format.StartTicksOffset : format.StartTicksOffset+8]))
	h.TicksPerSec = int64(engine.Uint64(data[format.TicksPerSecOffset : format.TicksPerSecOffset+8]))

	return h, nil
}
