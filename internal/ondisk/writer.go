// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ondisk

import (
	"encoding/binary"
	"fmt"
	"io"
)

const defaultBufferSize = 64 * 1024

// Writer appends little-endian values to an io.WriterAt starting at a fixed
// offset. Writes are buffered; Flush must be called before the bytes are
// visible to the underlying WriterAt.
type Writer struct {
	w     io.WriterAt
	start int64 // offset of buf[0] in w
	buf   []byte
	err   error
}

func NewWriter(w io.WriterAt, off int64) *Writer {
	return &Writer{
		w:     w,
		start: off,
		buf:   make([]byte, 0, defaultBufferSize),
	}
}

// Offset is the absolute offset the next write will land at.
func (w *Writer) Offset() int64 {
	return w.start + int64(len(w.buf))
}

func (w *Writer) U8(v uint8) {
	w.reserve(1)
	w.buf = append(w.buf, v)
}

func (w *Writer) U32(v uint32) {
	w.reserve(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) U64(v uint64) {
	w.reserve(8)
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) Bytes(p []byte) {
	if len(p) > cap(w.buf)-len(w.buf) {
		w.Flush()
		if len(p) >= cap(w.buf) {
			w.writeAt(p)
			return
		}
	}
	w.buf = append(w.buf, p...)
}

// Padded writes p truncated or padded with pad to exactly n bytes.
func (w *Writer) Padded(p []byte, n int, pad byte) {
	if len(p) > n {
		p = p[:n]
	}
	w.Bytes(p)
	for i := len(p); i < n; i++ {
		w.U8(pad)
	}
}

func (w *Writer) reserve(n int) {
	if cap(w.buf)-len(w.buf) < n {
		w.Flush()
	}
}

func (w *Writer) writeAt(p []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.w.WriteAt(p, w.start); err != nil {
		w.err = fmt.Errorf("WriteAt(%d, len: %d): %w", w.start, len(p), err)
		return
	}
	w.start += int64(len(p))
}

// Flush writes any buffered bytes and returns the first error seen by this
// Writer, if any.
func (w *Writer) Flush() error {
	if len(w.buf) > 0 {
		w.writeAt(w.buf)
		w.buf = w.buf[:0]
	}
	return w.err
}
