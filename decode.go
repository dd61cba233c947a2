// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/bpowers/gff/internal/mmap"
	"github.com/bpowers/gff/internal/ondisk"
)

// maxRegionSize bounds the allocation for any one region so that a corrupt
// count can't ask for gigabytes.
const maxRegionSize = 1 << 30

// Open decodes the document stored in the file at path.  The file is memory
// mapped for the duration of the call.
func Open(path string, opts ...Option) (*Document, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}
	defer func() {
		_ = m.Close()
	}()

	d, err := Decode(m, 0, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return d, nil
}

// DecodeBytes decodes a document that starts at the beginning of b.
func DecodeBytes(b []byte, opts ...Option) (*Document, error) {
	return Decode(bytes.NewReader(b), 0, opts...)
}

// Decode reads the document that starts at byte offset base of r.  All
// offsets stored in the document are relative to base, which lets a document
// be read in place from inside a larger archive.
func Decode(r io.ReaderAt, base int64, opts ...Option) (*Document, error) {
	o := newOptions(opts)

	var headerBuf [fileHeaderSize]byte
	if err := ondisk.ReadAt(r, headerBuf[:], base); err != nil {
		return nil, formatErrorf(base, err, "reading header")
	}
	var h fileHeader
	if err := h.UnmarshalBytes(headerBuf[:]); err != nil {
		var fe *FormatError
		if errors.As(err, &fe) && fe.Offset >= 0 {
			fe.Offset += base
		}
		return nil, err
	}

	d := &Document{
		FileType:       string(h.fileType[:]),
		logger:         o.logger,
		optionalLabels: o.optionalLabels,
	}
	dec := &decoder{
		r:    r,
		base: base,
		h:    &h,
		d:    d,
	}

	// labels first, so that errors about fields can name them
	if err := dec.readLabels(); err != nil {
		return nil, err
	}
	if err := dec.readStructs(); err != nil {
		return nil, err
	}
	if err := dec.readFields(); err != nil {
		return nil, err
	}
	if err := dec.readFieldIndices(); err != nil {
		return nil, err
	}
	if err := dec.readListIndices(); err != nil {
		return nil, err
	}

	d.log().Debug("decoded gff",
		"type", strings.TrimSpace(d.FileType),
		"base", base,
		"structs", len(d.Structs),
		"fields", len(d.Fields),
		"labels", len(d.Labels),
		"payloadBytes", h.payload.count,
		"lists", len(d.ListIndices))

	return d, nil
}

type decoder struct {
	r    io.ReaderAt
	base int64
	h    *fileHeader
	d    *Document
}

// readRegion reads count elements of elemSize bytes from the region starting
// at off.
func (dec *decoder) readRegion(name string, off uint32, count uint32, elemSize int) ([]byte, error) {
	size := uint64(count) * uint64(elemSize)
	abs := dec.base + int64(off)
	if size > maxRegionSize {
		return nil, formatErrorf(abs, nil, "%s region of %d bytes is too large", name, size)
	}
	if size == 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if err := ondisk.ReadAt(dec.r, buf, abs); err != nil {
		return nil, formatErrorf(abs, err, "reading %s region", name)
	}
	return buf, nil
}

func (dec *decoder) readLabels() error {
	buf, err := dec.readRegion("label", dec.h.labels.off, dec.h.labels.count, labelEntrySize)
	if err != nil {
		return err
	}
	labels := make([]string, dec.h.labels.count)
	var pad []byte
	for i := range labels {
		raw := buf[i*labelEntrySize : (i+1)*labelEntrySize]
		name := raw
		if j := bytes.IndexByte(name, 0); j >= 0 {
			name = name[:j]
		}
		labels[i] = strings.TrimRight(string(name), " ")

		// some tools pad labels with spaces rather than NULs
		if n := len(labels[i]); n < labelEntrySize && raw[n] == ' ' {
			if pad == nil {
				pad = make([]byte, len(labels))
			}
			pad[i] = ' '
		}
	}
	dec.d.Labels = labels
	dec.d.labelPad = pad
	return nil
}

func (dec *decoder) readStructs() error {
	buf, err := dec.readRegion("struct", dec.h.structs.off, dec.h.structs.count, structEntrySize)
	if err != nil {
		return err
	}
	structs := make([]Struct, dec.h.structs.count)
	for i := range structs {
		entry := buf[i*structEntrySize : (i+1)*structEntrySize]
		structs[i] = Struct{
			Type:         binary.LittleEndian.Uint32(entry[0:4]),
			DataOrOffset: binary.LittleEndian.Uint32(entry[4:8]),
			FieldCount:   binary.LittleEndian.Uint32(entry[8:12]),
		}
	}
	dec.d.Structs = structs
	return nil
}

func (dec *decoder) readFields() error {
	buf, err := dec.readRegion("field", dec.h.fields.off, dec.h.fields.count, fieldEntrySize)
	if err != nil {
		return err
	}
	fields := make([]Field, dec.h.fields.count)
	dec.d.Fields = fields

	abs := dec.base + int64(dec.h.payload.off)
	size := dec.payloadBlockSize()
	payload := &payloadReader{
		r:    io.NewSectionReader(dec.r, abs, size),
		abs:  abs,
		size: uint64(size),
	}

	for i := range fields {
		entry := buf[i*fieldEntrySize : (i+1)*fieldEntrySize]
		t := FieldType(binary.LittleEndian.Uint32(entry[0:4]))
		f := &fields[i]
		f.Label = LabelID(binary.LittleEndian.Uint32(entry[4:8]))
		data := binary.LittleEndian.Uint32(entry[8:12])

		if !t.Valid() {
			return &UnsupportedTypeError{Type: t, Label: dec.d.FieldLabel(FieldID(i)), Op: "decode"}
		}
		if !t.InPayload() {
			f.Value = inlineValue(t, data)
			f.pad = data &^ narrowMask(t)
			continue
		}

		// second pass over this field: its data lives in the Payload Block
		f.Offset = data
		if f.Value, err = payload.readValue(t, data); err != nil {
			return fmt.Errorf("field %d (%s): %w", i, dec.d.FieldLabel(FieldID(i)), err)
		}
	}
	return nil
}

// sizer is implemented by inputs that know their length, such as
// *bytes.Reader and *mmap.ReaderAt.
type sizer interface {
	Size() int64
}

// payloadBlockSize bounds field data reads.  The payload byte count in the
// header is ignored on read: the block runs up to the field-index region, or
// to the end of the input when the regions are not in canonical order.
func (dec *decoder) payloadBlockSize() int64 {
	start := dec.base + int64(dec.h.payload.off)
	if dec.h.fieldIndices.off > dec.h.payload.off {
		return int64(dec.h.fieldIndices.off - dec.h.payload.off)
	}
	if s, ok := dec.r.(sizer); ok {
		return max(s.Size()-start, 0)
	}
	return math.MaxInt64 - start
}

func (dec *decoder) readFieldIndices() error {
	size := dec.h.fieldIndices.count
	abs := dec.base + int64(dec.h.fieldIndices.off)
	if size%4 != 0 {
		return formatErrorf(abs, nil, "field-index region of %d bytes is not a whole number of indices", size)
	}
	if size > maxRegionSize {
		return formatErrorf(abs, nil, "field-index region of %d bytes is too large", size)
	}
	indices, err := ondisk.NewU32Slice(dec.r, int(size/4), abs).All()
	if err != nil {
		return formatErrorf(abs, err, "reading field-index region")
	}
	if len(indices) == 0 {
		return nil
	}
	dec.d.FieldIndices = make([]FieldID, len(indices))
	for i, idx := range indices {
		dec.d.FieldIndices[i] = FieldID(idx)
	}
	return nil
}

func (dec *decoder) readListIndices() error {
	buf, err := dec.readRegion("list-index", dec.h.listIndices.off, dec.h.listIndices.count, 1)
	if err != nil {
		return err
	}
	abs := dec.base + int64(dec.h.listIndices.off)

	// each list is a count followed by that many struct indices
	var lists [][]StructID
	for pos := 0; pos < len(buf); {
		if len(buf)-pos < 4 {
			return formatErrorf(abs+int64(pos), ondisk.ErrShortRead, "truncated list count")
		}
		n := uint64(binary.LittleEndian.Uint32(buf[pos:]))
		pos += 4
		if uint64(len(buf)-pos) < 4*n {
			return formatErrorf(abs+int64(pos), ondisk.ErrShortRead, "list of %d entries runs past the list-index region", n)
		}
		list := make([]StructID, n)
		for j := range list {
			list[j] = StructID(binary.LittleEndian.Uint32(buf[pos:]))
			pos += 4
		}
		lists = append(lists, list)
	}
	dec.d.ListIndices = lists
	return nil
}

// payloadReader reads field data from the Payload Block.  Offsets are
// relative to the start of the block.
type payloadReader struct {
	r    io.ReaderAt
	abs  int64 // absolute offset of the block, for errors
	size uint64
}

func (p *payloadReader) read(off uint64, n uint64) ([]byte, error) {
	if off+n > p.size || n > maxRegionSize {
		return nil, formatErrorf(p.abs+int64(off), ondisk.ErrShortRead, "%d bytes of field data run past the payload block (%d bytes)", n, p.size)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := ondisk.ReadAt(p.r, buf, int64(off)); err != nil {
		return nil, formatErrorf(p.abs+int64(off), err, "reading field data")
	}
	return buf, nil
}

func (p *payloadReader) u32(off uint64) (uint32, error) {
	b, err := p.read(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (p *payloadReader) u64(off uint64) (uint64, error) {
	b, err := p.read(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// lengthPrefixed reads a u32 byte length at off and the bytes that follow it.
func (p *payloadReader) lengthPrefixed(off uint64) ([]byte, error) {
	n, err := p.u32(off)
	if err != nil {
		return nil, err
	}
	return p.read(off+4, uint64(n))
}

func (p *payloadReader) readValue(t FieldType, dataOffset uint32) (Value, error) {
	off := uint64(dataOffset)
	switch t {
	case TypeDword64:
		v, err := p.u64(off)
		return Dword64(v), err
	case TypeInt64:
		v, err := p.u64(off)
		return Int64(int64(v)), err
	case TypeDouble:
		v, err := p.u64(off)
		return Double(math.Float64frombits(v)), err
	case TypeExoString:
		b, err := p.lengthPrefixed(off)
		if err != nil {
			return nil, err
		}
		return ExoString(b), nil
	case TypeResRef:
		n, err := p.read(off, 1)
		if err != nil {
			return nil, err
		}
		b, err := p.read(off+1, uint64(n[0]))
		if err != nil {
			return nil, err
		}
		return ResRef(b), nil
	case TypeLocString:
		return p.readLocString(off)
	case TypeVoid:
		b, err := p.lengthPrefixed(off)
		if err != nil {
			return nil, err
		}
		return Void(b), nil
	}
	return nil, &UnsupportedTypeError{Type: t, Op: "decode payload"}
}

func (p *payloadReader) readLocString(off uint64) (*LocString, error) {
	// total length, string ref, entry count
	header, err := p.read(off, 12)
	if err != nil {
		return nil, err
	}
	loc := &LocString{
		StrRef: int32(binary.LittleEndian.Uint32(header[4:8])),
	}
	count := binary.LittleEndian.Uint32(header[8:12])
	cursor := off + 12
	for i := uint32(0); i < count; i++ {
		entryHeader, err := p.read(cursor, 8)
		if err != nil {
			return nil, err
		}
		language := binary.LittleEndian.Uint32(entryHeader[0:4])
		n := int32(binary.LittleEndian.Uint32(entryHeader[4:8]))
		if n < 0 {
			return nil, formatErrorf(p.abs+int64(cursor)+4, nil, "negative LocString entry length %d", n)
		}
		text, err := p.read(cursor+8, uint64(n))
		if err != nil {
			return nil, err
		}
		loc.Entries = append(loc.Entries, LocEntry{Language: language, Text: string(text)})
		cursor += 8 + uint64(n)
	}
	return loc, nil
}
