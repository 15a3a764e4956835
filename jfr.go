// Package jfr reads Java Flight Recorder recordings produced by
// async-profiler.
//
// A recording is a concatenation of self-describing chunks, each with
// its own type schema, constant pool and event body. Opening a
// recording indexes every chunk up front; afterwards the reader yields
// a typed stream of profiling events — CPU execution samples, object
// allocation samples and contended-lock samples — with all references
// resolvable through the reader's lookup dictionaries.
//
// # Basic Usage
//
// Reading every event from a recording:
//
//	r, err := jfr.Open("profile.jfr")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	events, err := r.ReadAllEvents() // sorted by time
//
// Pulling one kind of event at a time:
//
//	for {
//	    ev, ok, err := parser.ReadEventOf[parser.ExecutionSample](r)
//	    if err != nil || !ok {
//	        break
//	    }
//	    // ev.TID, ev.StackTraceID, ev.ThreadState ...
//	}
//
// Resolving ids into names:
//
//	res, _ := jfr.NewResolver(r)
//	frames, _ := res.StackFrames(int64(ev.StackTraceID))
//
// Compressed recordings (gzip, zstd, lz4, s2) are detected by their
// magic bytes and unwrapped transparently; plain files are read through
// a read-only memory mapping.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the parser
// package, which holds the reader, the event types and the lookup
// dictionaries. The encoding, section, format and compress packages
// implement the wire primitives underneath.
package jfr

import "github.com/chongzai/jfr/parser"

// Open memory-maps the named recording file and fully indexes it.
//
// The returned reader must be closed to release the mapping. Multiple
// readers over the same file are independently safe; one reader is not
// safe for concurrent use.
//
// Parameters:
//   - path: Recording file, plain or wrapped in a gzip/zstd/lz4/s2 container
//   - opts: Optional configuration (see parser.Option)
//
// Returns:
//   - *parser.Reader: The indexed reader, positioned at the first event.
//   - error: errs.ErrNotJFR, errs.ErrUnsupportedVersion,
//     errs.ErrInvalidFormat, errs.ErrUnexpectedEOF, or the underlying
//     I/O error unchanged.
func Open(path string, opts ...parser.Option) (*parser.Reader, error) {
	return parser.Open(path, opts...)
}

// OpenBytes indexes a recording already held in memory. The reader
// borrows data for its lifetime and Close is a no-op.
func OpenBytes(data []byte, opts ...parser.Option) (*parser.Reader, error) {
	return parser.OpenBytes(data, opts...)
}

// NewResolver creates a name resolver over an indexed reader's
// dictionaries.
func NewResolver(r *parser.Reader) (*parser.Resolver, error) {
	return parser.NewResolver(r)
}
