// Package format declares the wire-format constants of the JFR chunk
// container as written by async-profiler: chunk header geometry, string
// encoding tags, the well-known type names dispatched by the constant
// pool reader, and the outer container compressions the reader can
// transparently unwrap.
package format

// CompressionType identifies the outer container a recording file is
// wrapped in. Plain recordings are CompressionNone; the others are
// detected by magic-byte sniffing at open time.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota // CompressionNone represents a plain recording.
	CompressionGzip                        // CompressionGzip represents a gzip container.
	CompressionZstd                        // CompressionZstd represents a Zstandard frame.
	CompressionLZ4                         // CompressionLZ4 represents an LZ4 frame.
	CompressionS2                          // CompressionS2 represents an S2/Snappy framed stream.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	case CompressionS2:
		return "S2"
	default:
		return "Unknown"
	}
}

// Chunk header geometry. All header scalars are big-endian; everything
// past the header uses LEB128-style compact encoding instead.
const (
	// Magic is the chunk magic "FLR\x00".
	Magic uint32 = 0x464c5200

	// ChunkHeaderSize is the fixed size of a chunk header in bytes.
	ChunkHeaderSize = 68

	// VersionMin and VersionMax bound the accepted format versions.
	// The high 16 bits carry the major version, the low 16 bits the
	// minor; only major version 2 is supported.
	VersionMin uint32 = 0x20000
	VersionMax uint32 = 0x2ffff

	// Byte offsets of the header fields within a chunk.
	ChunkSizeOffset     = 8
	ConstantPoolOffset  = 20
	MetadataOffset      = 28
	StartNanosOffset    = 32
	DurationNanosOffset = 40
	StartTicksOffset    = 48
	TicksPerSecOffset   = 56
)

// String encoding tags. Every string on the wire starts with one of
// these; any other leading byte is a format violation.
const (
	StringNull      = 0 // absent value
	StringEmpty     = 1 // ""
	StringUTF8      = 3 // varint byte count + UTF-8 bytes
	StringCharArray = 4 // varint count + one varint per UTF-16 code unit
	StringLatin1    = 5 // varint byte count + ISO-8859-1 bytes
)

// Well-known constant pool types with hand-written decoders. Anything
// else in a pool is decoded generically from its declared field schema.
const (
	TypeChunkHeader = "jdk.types.ChunkHeader"
	TypeThread      = "java.lang.Thread"
	TypeClass       = "java.lang.Class"
	TypeSymbol      = "jdk.types.Symbol"
	TypeMethod      = "jdk.types.Method"
	TypeStackTrace  = "jdk.types.StackTrace"
	TypeFrameType   = "jdk.types.FrameType"
	TypeThreadState = "jdk.types.ThreadState"
	TypeString      = "java.lang.String"
)

// Event type names recognized by the event stream reader.
const (
	EventExecutionSample       = "jdk.ExecutionSample"
	EventNativeMethodSample    = "jdk.NativeMethodSample"
	EventAllocationInNewTLAB   = "jdk.ObjectAllocationInNewTLAB"
	EventAllocationOutsideTLAB = "jdk.ObjectAllocationOutsideTLAB"
	EventJavaMonitorEnter      = "jdk.JavaMonitorEnter"
	EventThreadPark            = "jdk.ThreadPark"
)
