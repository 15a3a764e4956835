// Package errs defines the sentinel errors returned by the JFR reader.
//
// Callers match them with errors.Is; the reader wraps them with
// additional context (offending version numbers, offsets, tag values)
// at the point of failure.
package errs

import "errors"

var (
	// ErrNotJFR indicates the input does not start with the JFR chunk magic.
	ErrNotJFR = errors.New("not a JFR recording")

	// ErrUnsupportedVersion indicates a chunk declares a format version
	// outside the supported major version 2 range.
	ErrUnsupportedVersion = errors.New("unsupported JFR version")

	// ErrInvalidFormat indicates a structural violation of the wire format:
	// a bad string encoding tag, a symbol entry that is not UTF-8 encoded,
	// an unknown constant pool type, or a corrupt record size. Structural
	// failures are fatal to the whole read; a bad varint desynchronizes
	// the cursor and there is no in-stream recovery.
	ErrInvalidFormat = errors.New("invalid JFR format")

	// ErrUnexpectedEOF indicates a read ran past the end of the recording
	// image or the current chunk window.
	ErrUnexpectedEOF = errors.New("unexpected end of recording")
)
