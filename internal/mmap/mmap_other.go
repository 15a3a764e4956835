//go:build !unix

package mmap

import "os"

// Open reads the named file fully into memory. Platforms without mmap
// support get the same contiguous-image contract at the cost of one
// allocation.
func Open(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return &File{data: data}, nil
}

// Close releases the buffered contents. It is safe to call more than once.
func (f *File) Close() error {
	f.data = nil

	return nil
}
