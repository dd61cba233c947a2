// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build linux || darwin || freebsd

package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open memory-maps the named file for reading.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		// the mapping stays valid after the descriptor is closed
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}
	size := fi.Size()
	if size == 0 {
		return &ReaderAt{}, nil
	}
	if size < 0 || size != int64(int(size)) {
		return nil, fmt.Errorf("mmap: file %q has unsupported size %d", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap(%s): %w", path, err)
	}
	// a document is decoded region by region, front to back
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("madvise: %w", err)
	}

	return &ReaderAt{
		data:  data,
		unmap: unix.Munmap,
	}, nil
}
