// Package mmap maps recording files read-only into memory, giving the
// reader random access to the whole file image without buffering it.
// On platforms without mmap support the file is fully read instead;
// either way the caller sees one contiguous byte slice.
package mmap

// File is a read-only view of a whole file.
//
// Multiple File instances over the same path are independently safe;
// the mapping is private and read-only. Close releases the mapping and
// invalidates every slice previously returned by Data.
type File struct {
	data   []byte
	mapped bool
}

// Data returns the complete file contents. The slice is only valid
// until Close.
func (f *File) Data() []byte {
	return f.data
}

// Len returns the file length in bytes.
func (f *File) Len() int {
	return len(f.data)
}
