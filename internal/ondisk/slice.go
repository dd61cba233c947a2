// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ondisk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when a positioned read comes back with fewer bytes
// than requested, which for a self-describing file means it was truncated.
var ErrShortRead = errors.New("short read")

// U32Slice is a little-endian array of 32-bit words at a fixed byte offset
// inside a positioned reader.
type U32Slice struct {
	r   io.ReaderAt
	len int   // length in number of elements
	off int64 // offset in bytes of the start of this slice
}

func NewU32Slice(r io.ReaderAt, len int, off int64) *U32Slice {
	return &U32Slice{
		r:   r,
		len: len,
		off: off,
	}
}

// All reads the whole slice with a single ReadAt.
func (s *U32Slice) All() ([]uint32, error) {
	if s.len == 0 {
		return nil, nil
	}
	buf := make([]byte, 4*s.len)
	if err := readFull(s.r, buf, s.off); err != nil {
		return nil, err
	}
	out := make([]uint32, s.len)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return out, nil
}

// ReadAt fills p from r at off, turning short reads into ErrShortRead.
func ReadAt(r io.ReaderAt, p []byte, off int64) error {
	return readFull(r, p, off)
}

func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		// io.ReaderAt may return io.EOF alongside a full read at the end of input
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("ReadAt(%d, len: %d): got %d bytes: %w", off, len(p), n, ErrShortRead)
	}
	return fmt.Errorf("ReadAt(%d, len: %d): %w", off, len(p), err)
}
