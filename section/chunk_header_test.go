package section

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chongzai/jfr/errs"
	"github.com/chongzai/jfr/format"
)

func buildHeader(magic, version uint32) []byte {
	h := make([]byte, format.ChunkHeaderSize)
	binary.BigEndian.PutUint32(h[0:4], magic)
	binary.BigEndian.PutUint32(h[4:8], version)
	binary.BigEndian.PutUint64(h[8:16], 4096)
	binary.BigEndian.PutUint32(h[20:24], 2048)
	binary.BigEndian.PutUint32(h[28:32], 1024)
	binary.BigEndian.PutUint64(h[32:40], 1_000_000)
	binary.BigEndian.PutUint64(h[40:48], 500)
	binary.BigEndian.PutUint64(h[48:56], 99)
	binary.BigEndian.PutUint64(h[56:64], 1_000_000_000)

	return h
}

func TestParseChunkHeader(t *testing.T) {
	h, err := ParseChunkHeader(buildHeader(format.Magic, 0x20001))
	require.NoError(t, err)

	require.Equal(t, 2, h.Major())
	require.Equal(t, 1, h.Minor())
	require.Equal(t, int64(4096), h.ChunkLength)
	require.Equal(t, uint32(2048), h.ConstantPoolOffset)
	require.Equal(t, uint32(1024), h.MetadataOffset)
	require.Equal(t, int64(1_000_000), h.StartNanos)
	require.Equal(t, int64(500), h.DurationNanos)
	require.Equal(t, int64(1_000_500), h.EndNanos())
	require.Equal(t, int64(99), h.StartTicks)
	require.Equal(t, int64(1_000_000_000), h.TicksPerSec)
}

func TestParseChunkHeader_Short(t *testing.T) {
	_, err := ParseChunkHeader(buildHeader(format.Magic, 0x20000)[:40])
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestParseChunkHeader_BadMagic(t *testing.T) {
	_, err := ParseChunkHeader(buildHeader(0x464c5201, 0x20000))
	require.ErrorIs(t, err, errs.ErrNotJFR)
}

func TestParseChunkHeader_VersionRange(t *testing.T) {
	for _, version := range []uint32{0x1ffff, 0x30000} {
		_, err := ParseChunkHeader(buildHeader(format.Magic, version))
		require.ErrorIs(t, err, errs.ErrUnsupportedVersion, "version 0x%x", version)
	}

	for _, version := range []uint32{0x20000, 0x2ffff} {
		_, err := ParseChunkHeader(buildHeader(format.Magic, version))
		require.NoError(t, err, "version 0x%x", version)
	}
}
