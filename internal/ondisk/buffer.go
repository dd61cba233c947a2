// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ondisk

import (
	"errors"
	"io"

	"github.com/bpowers/gff/internal/zero"
)

// Buffer is an in-memory io.WriterAt and io.ReaderAt.  WriteAt grows the
// buffer as needed, zero-filling any gap.
type Buffer struct {
	buf []byte
}

var (
	_ io.WriterAt = &Buffer{}
	_ io.ReaderAt = &Buffer{}
)

func NewBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

func (s *Buffer) Bytes() []byte {
	return s.buf
}

func (s *Buffer) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.New("writeAt: negative offset")
	}
	end := int(off) + len(p)
	if end > len(s.buf) {
		if end > cap(s.buf) {
			grown := make([]byte, end, max(end, 2*cap(s.buf)))
			copy(grown, s.buf)
			s.buf = grown
		} else {
			n := len(s.buf)
			s.buf = s.buf[:end]
			// spare capacity may hold stale bytes
			zero.Bytes(s.buf[n:end])
		}
	}
	return copy(s.buf[off:end], p), nil
}

func (s *Buffer) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.New("readAt: negative offset")
	}
	if off >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n = copy(p, s.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
