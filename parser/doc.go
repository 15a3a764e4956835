// Package parser implements the JFR chunk reader.
//
// A recording is a concatenation of self-describing chunks. Each chunk
// carries its own metadata record (a recursive element tree declaring
// the type schema), a linked list of constant pool blocks, and an event
// body. Construction indexes every chunk: the schema accumulates into
// the type registry and the pools populate the reference dictionaries
// (threads, classes, methods, symbols, stack traces, frame types,
// thread states). Afterwards callers pull events one at a time; the
// cursor window advances chunk by chunk as each body is exhausted.
//
// A Reader is single-threaded: one moving cursor, no locking. Open
// independent readers for concurrent access to the same file; the
// underlying mapping is read-only.
package parser
