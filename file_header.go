// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Version is the only format version this package reads and writes.
	Version = "V3.2"

	// 4-byte type + 4-byte version + 6 (offset, count) pairs
	fileHeaderSize = 4 + 4 + 6*4*2

	structEntrySize = 12
	fieldEntrySize  = 12
	labelEntrySize  = 16
)

// region is an (offset, count) pair from the header.  Offsets are relative to
// the start of the document.  Counts are element counts for the struct, field
// and label regions, and byte counts for the others.
type region struct {
	off   uint32
	count uint32
}

type fileHeader struct {
	fileType     [4]byte
	version      [4]byte
	structs      region
	fields       region
	labels       region
	payload      region
	fieldIndices region
	listIndices  region
}

func newFileHeader(fileType string) *fileHeader {
	h := &fileHeader{}
	copy(h.version[:], Version)
	h.fileType = fileTypeBytes(fileType)
	return h
}

// fileTypeBytes space-pads (or truncates) t to the 4-byte header field.
func fileTypeBytes(t string) [4]byte {
	var b [4]byte
	n := copy(b[:], t)
	for ; n < len(b); n++ {
		b[n] = ' '
	}
	return b
}

func (h *fileHeader) regions() []*region {
	return []*region{&h.structs, &h.fields, &h.labels, &h.payload, &h.fieldIndices, &h.listIndices}
}

func (h *fileHeader) MarshalTo(headerBytes []byte) error {
	if len(headerBytes) < fileHeaderSize {
		return fmt.Errorf("headerBytes too short: %d < %d", len(headerBytes), fileHeaderSize)
	}
	copy(headerBytes[0:4], h.fileType[:])
	copy(headerBytes[4:8], h.version[:])
	off := 8
	for _, r := range h.regions() {
		binary.LittleEndian.PutUint32(headerBytes[off:off+4], r.off)
		binary.LittleEndian.PutUint32(headerBytes[off+4:off+8], r.count)
		off += 8
	}
	return nil
}

func (h *fileHeader) UnmarshalBytes(headerBytes []byte) error {
	if len(headerBytes) < fileHeaderSize {
		return formatErrorf(-1, nil, "header too short: %d < %d", len(headerBytes), fileHeaderSize)
	}

	headerBytes = headerBytes[:fileHeaderSize]

	copy(h.fileType[:], headerBytes[0:4])
	copy(h.version[:], headerBytes[4:8])
	if string(h.version[:]) != Version {
		return formatErrorf(4, nil, "can only read %s documents; found version %q", Version, h.version[:])
	}

	off := 8
	for _, r := range h.regions() {
		r.off = binary.LittleEndian.Uint32(headerBytes[off : off+4])
		r.count = binary.LittleEndian.Uint32(headerBytes[off+4 : off+8])
		off += 8
	}

	return nil
}

// WriteAt back-patches the header at base once every region has been laid out.
func (h *fileHeader) WriteAt(w io.WriterAt, base int64) error {
	var headerBuf [fileHeaderSize]byte
	if err := h.MarshalTo(headerBuf[:]); err != nil {
		return err
	}
	if _, err := w.WriteAt(headerBuf[:], base); err != nil {
		return fmt.Errorf("w.WriteAt: %w", err)
	}
	return nil
}
