// Package endian provides byte order utilities for decoding the fixed
// scalars of the JFR chunk header.
//
// The chunk header stores its scalars big-endian; everything after the
// header uses compact variable-length encoding and never touches this
// package. The EndianEngine interface is satisfied by binary.BigEndian
// and binary.LittleEndian from the standard library, keeping section
// parsers decoupled from a concrete byte order.
package endian

import "encoding/binary"

// EndianEngine is the byte order used to decode fixed-width scalars.
type EndianEngine interface {
	binary.ByteOrder
}

// GetBigEndianEngine returns the engine for big-endian data, the byte
// order of every fixed-width field in a JFR chunk header.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the engine for little-endian data.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
