// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap provides a read-only view of a file's contents as an
// io.ReaderAt, backed by a memory mapping where the platform supports one.
package mmap

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
)

// ReaderAt reads a memory-mapped file.  Close must be called to release the
// mapping.
type ReaderAt struct {
	data     []byte
	unmap    func([]byte) error
	isClosed atomic.Bool
}

var _ io.ReaderAt = &ReaderAt{}

// Size returns the length of the underlying file.
func (r *ReaderAt) Size() int64 {
	return int64(len(r.data))
}

func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if r.isClosed.Load() {
		return 0, errors.New("mmap: closed")
	}
	if off < 0 || int64(len(r.data)) < off {
		return 0, fmt.Errorf("mmap: invalid ReadAt offset %d", off)
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (r *ReaderAt) Close() error {
	if r.isClosed.Swap(true) {
		return nil
	}
	data := r.data
	r.data = nil
	if r.unmap == nil || len(data) == 0 {
		return nil
	}
	return r.unmap(data)
}
