// Package encoding implements the primitive codecs of the JFR wire
// format: LEB128-style variable-length integers and longs, the
// five-variant string encoding, and length-prefixed byte sequences,
// all decoded through a shared positioned cursor.
package encoding

import (
	"fmt"
	"unicode/utf16"

	"github.com/chongzai/jfr/endian"
	"github.com/chongzai/jfr/errs"
	"github.com/chongzai/jfr/format"
)

// Cursor is a positioned view over a complete recording image.
//
// All primitive reads advance the position. The limit narrows the view
// to the current chunk body; reads never cross it. Absolute accessors
// (Uint32At, Uint64At) address the whole image regardless of the limit,
// which is how chunk headers are revisited during traversal.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	data  []byte
	pos   int
	limit int

	engine endian.EndianEngine
}

// NewCursor creates a cursor over data with the limit at the end of the image.
func NewCursor(data []byte) *Cursor {
	return &Cursor{
		data:   data,
		limit:  len(data),
		engine: endian.GetBigEndianEngine(),
	}
}

// Pos returns the current position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Limit returns the current upper bound for relative reads.
func (c *Cursor) Limit() int {
	return c.limit
}

// Len returns the total length of the underlying image.
func (c *Cursor) Len() int {
	return len(c.data)
}

// HasRemaining reports whether relative reads can proceed.
func (c *Cursor) HasRemaining() bool {
	return c.pos < c.limit
}

// SetPosition moves the cursor. The new position may not exceed the
// current limit; widen the limit first when jumping forward across a
// chunk boundary.
func (c *Cursor) SetPosition(pos int) error {
	if pos < 0 || pos > c.limit {
		return fmt.Errorf("%w: position %d outside window [0, %d]", errs.ErrUnexpectedEOF, pos, c.limit)
	}
	c.pos = pos

	return nil
}

// SetLimit narrows or widens the window for relative reads.
func (c *Cursor) SetLimit(limit int) error {
	if limit < 0 || limit > len(c.data) {
		return fmt.Errorf("%w: limit %d outside image of %d bytes", errs.ErrUnexpectedEOF, limit, len(c.data))
	}
	c.limit = limit

	return nil
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.pos+n > c.limit {
		return fmt.Errorf("%w: cannot skip %d bytes at %d", errs.ErrUnexpectedEOF, n, c.pos)
	}
	c.pos += n

	return nil
}

// Byte reads a single byte.
func (c *Cursor) Byte() (byte, error) {
	if c.pos >= c.limit {
		return 0, fmt.Errorf("%w: read at %d, limit %d", errs.ErrUnexpectedEOF, c.pos, c.limit)
	}
	b := c.data[c.pos]
	c.pos++

	return b, nil
}

// Uint32At reads a big-endian uint32 at an absolute offset, ignoring
// the position and limit.
func (c *Cursor) Uint32At(off int) (uint32, error) {
	if off < 0 || off+4 > len(c.data) {
		return 0, fmt.Errorf("%w: 4 bytes at offset %d", errs.ErrUnexpectedEOF, off)
	}

	return c.engine.Uint32(c.data[off : off+4]), nil
}

// Uint64At reads a big-endian uint64 at an absolute offset, ignoring
// the position and limit.
func (c *Cursor) Uint64At(off int) (uint64, error) {
	if off < 0 || off+8 > len(c.data) {
		return 0, fmt.Errorf("%w: 8 bytes at offset %d", errs.ErrUnexpectedEOF, off)
	}

	return c.engine.Uint64(c.data[off : off+8]), nil
}

// Varint decodes a little-endian LEB128 integer into 32 bits.
//
// Bytes are consumed until one with the top bit clear; payload bits
// beyond 32 are silently truncated (the shift pushes them out), which
// matches the reference reader. Callers use varints only for sizes,
// type ids, counts and small scalars.
func (c *Cursor) Varint() (int32, error) {
	var result int32
	for shift := 0; ; shift += 7 {
		b, err := c.Byte()
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
	}
}

// Varlong decodes a little-endian LEB128 long into 64 bits.
//
// Unlike Varint, the encoding has a hard 9-byte terminator: when the
// first eight bytes all carry the continuation bit, the ninth byte is
// taken as a full eight bits and placed unshifted into bits 56-63.
func (c *Cursor) Varlong() (int64, error) {
	var result int64
	for shift := 0; shift < 56; shift += 7 {
		b, err := c.Byte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
	}

	b, err := c.Byte()
	if err != nil {
		return 0, err
	}

	return result | int64(b)<<56, nil
}

// String decodes one wire string. ok is false when the value is the
// null variant (tag 0); the null/empty distinction is semantically
// significant for thread names.
func (c *Cursor) String() (s string, ok bool, err error) {
	tag, err := c.Byte()
	if err != nil {
		return "", false, err
	}

	switch tag {
	case format.StringNull:
		return "", false, nil
	case format.StringEmpty:
		return "", true, nil
	case format.StringUTF8:
		b, err := c.Bytes()
		if err != nil {
			return "", false, err
		}

		return string(b), true, nil
	case format.StringCharArray:
		n, err := c.Varint()
		if err != nil {
			return "", false, err
		}
		if n < 0 {
			return "", false, fmt.Errorf("%w: negative char count %d", errs.ErrInvalidFormat, n)
		}
		units := make([]uint16, n)
		for i := range units {
			v, err := c.Varint()
			if err != nil {
				return "", false, err
			}
			units[i] = uint16(v)
		}

		return string(utf16.Decode(units)), true, nil
	case format.StringLatin1:
		b, err := c.Bytes()
		if err != nil {
			return "", false, err
		}
		runes := make([]rune, len(b))
		for i, v := range b {
			runes[i] = rune(v)
		}

		return string(runes), true, nil
	default:
		return "", false, fmt.Errorf("%w: invalid string encoding %d", errs.ErrInvalidFormat, tag)
	}
}

// Bytes reads a varint byte count followed by that many raw bytes.
// The returned slice is a copy and does not alias the image.
func (c *Cursor) Bytes() ([]byte, error) {
	n, err := c.Varint()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative byte count %d", errs.ErrInvalidFormat, n)
	}
	if c.pos+int(n) > c.limit {
		return nil, fmt.Errorf("%w: %d bytes at %d, limit %d", errs.ErrUnexpectedEOF, n, c.pos, c.limit)
	}

	b := make([]byte, n)
	copy(b, c.data[c.pos:c.pos+int(n)])
	c.pos += int(n)

	return b, nil
}
