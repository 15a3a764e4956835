//go:build unix

package mmap

import (
	"fmt"
	"os"
	"syscall"
)

// Open memory-maps the named file for reading.
func Open(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		// "man 2 mmap": the length must be greater than 0.
		return &File{data: make([]byte, 0)}, nil
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("mmap: file %q is too large", filename)
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	return &File{data: data, mapped: true}, nil
}

// Close unmaps the file. It is safe to call more than once.
func (f *File) Close() error {
	if f.data == nil {
		return nil
	}
	data := f.data
	f.data = nil
	if !f.mapped {
		return nil
	}

	return syscall.Munmap(data)
}
