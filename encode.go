// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/gff/internal/ondisk"
	"github.com/bpowers/gff/internal/unsafestring"
)

// MaxResRefLen is the longest ResRef the format can hold.  Longer values are
// truncated on write.
const MaxResRefLen = 16

// Region is the position of one of the document's arrays, relative to the
// start of the document.
type Region struct {
	Offset uint32
	Size   uint32 // in bytes
}

func (r Region) end() uint64 {
	return uint64(r.Offset) + uint64(r.Size)
}

// Layout describes where every region of an encoded document goes.  Regions
// follow the header back to back in the order of the struct's fields.
type Layout struct {
	Structs      Region
	Fields       Region
	Labels       Region
	Payload      Region
	FieldIndices Region
	ListIndices  Region
	// Size is the total encoded size, header included.
	Size uint32
}

func (l *Layout) regions() []*Region {
	return []*Region{&l.Structs, &l.Fields, &l.Labels, &l.Payload, &l.FieldIndices, &l.ListIndices}
}

// header fills in the on-disk header.  The struct, field and label counts
// are element counts; the rest are byte counts.
func (l *Layout) header(fileType string) *fileHeader {
	h := newFileHeader(fileType)
	h.structs = region{off: l.Structs.Offset, count: l.Structs.Size / structEntrySize}
	h.fields = region{off: l.Fields.Offset, count: l.Fields.Size / fieldEntrySize}
	h.labels = region{off: l.Labels.Offset, count: l.Labels.Size / labelEntrySize}
	h.payload = region{off: l.Payload.Offset, count: l.Payload.Size}
	h.fieldIndices = region{off: l.FieldIndices.Offset, count: l.FieldIndices.Size}
	h.listIndices = region{off: l.ListIndices.Offset, count: l.ListIndices.Size}
	return h
}

// Layout assigns every Payload Block field its offset, in Field Array order
// and without padding, and computes the position of each region.  It updates
// Field.Offset in place and is run by every encode, so a document whose
// payloads were resized in memory is consistent again after it.
func (d *Document) Layout() (Layout, error) {
	if _, err := d.Root(); err != nil {
		return Layout{}, err
	}
	for i, label := range d.Labels {
		if len(label) > labelEntrySize {
			return Layout{}, invariantf("label length", "label %d %q is longer than %d bytes", i, label, labelEntrySize)
		}
	}

	var cursor uint64
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Value == nil {
			return Layout{}, invariantf("field value", "field %d (%s) has no value", i, d.FieldLabel(FieldID(i)))
		}
		if !f.Type().InPayload() {
			continue
		}
		if cursor > math.MaxUint32 {
			return Layout{}, invariantf("payload size", "payload block exceeds %d bytes at field %d", uint32(math.MaxUint32), i)
		}
		f.Offset = uint32(cursor)
		cursor += payloadSize(f.Value)
	}

	var listBytes uint64
	for _, list := range d.ListIndices {
		listBytes += listByteSize(list)
	}

	sizes := []uint64{
		uint64(len(d.Structs)) * structEntrySize,
		uint64(len(d.Fields)) * fieldEntrySize,
		uint64(len(d.Labels)) * labelEntrySize,
		cursor,
		uint64(len(d.FieldIndices)) * 4,
		listBytes,
	}

	var l Layout
	off := uint64(fileHeaderSize)
	for i, r := range l.regions() {
		if off+sizes[i] > math.MaxUint32 {
			return Layout{}, invariantf("document size", "encoded document exceeds %d bytes", uint32(math.MaxUint32))
		}
		r.Offset = uint32(off)
		r.Size = uint32(sizes[i])
		off += sizes[i]
	}
	l.Size = uint32(off)

	return l, nil
}

// payloadSize is the number of bytes v occupies in the Payload Block.
func payloadSize(v Value) uint64 {
	switch v := v.(type) {
	case Dword64, Int64, Double:
		return 8
	case ExoString:
		return 4 + uint64(len(v))
	case ResRef:
		return 1 + uint64(min(len(v), MaxResRefLen))
	case *LocString:
		return 4 + uint64(v.encodedLen())
	case Void:
		return 4 + uint64(len(v))
	}
	return 0
}

// EncodeAt writes the document to w starting at base and returns the number
// of bytes written.  Offsets inside the document are relative to base.
func (d *Document) EncodeAt(w io.WriterAt, base int64) (int64, error) {
	l, err := d.Layout()
	if err != nil {
		return 0, err
	}
	if err := d.emit(w, base, &l); err != nil {
		return 0, err
	}

	d.log().Debug("encoded gff",
		"type", strings.TrimSpace(d.FileType),
		"base", base,
		"size", l.Size,
		"structs", len(d.Structs),
		"fields", len(d.Fields),
		"labels", len(d.Labels),
		"payloadBytes", l.Payload.Size)

	return int64(l.Size), nil
}

// emit writes every region sequentially from just past the header, then
// back-patches the header once the writes have landed.
func (d *Document) emit(w io.WriterAt, base int64, l *Layout) error {
	ow := ondisk.NewWriter(w, base+fileHeaderSize)

	at := func(name string, r Region) error {
		if got, want := ow.Offset(), base+int64(r.Offset); got != want {
			return invariantf("layout", "%s region starts at %d, expected %d", name, got, want)
		}
		return nil
	}

	if err := at("struct", l.Structs); err != nil {
		return err
	}
	for _, s := range d.Structs {
		ow.U32(s.Type)
		ow.U32(s.DataOrOffset)
		ow.U32(s.FieldCount)
	}

	if err := at("field", l.Fields); err != nil {
		return err
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		ow.U32(uint32(f.Type()))
		ow.U32(uint32(f.Label))
		ow.U32(f.word())
	}

	if err := at("label", l.Labels); err != nil {
		return err
	}
	for i, label := range d.Labels {
		var pad byte
		if i < len(d.labelPad) {
			pad = d.labelPad[i]
		}
		ow.Padded(unsafestring.ToBytes(label), labelEntrySize, pad)
	}

	if err := at("payload", l.Payload); err != nil {
		return err
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		if !f.Type().InPayload() {
			continue
		}
		if got, want := ow.Offset(), base+int64(l.Payload.Offset)+int64(f.Offset); got != want {
			return invariantf("layout", "field %d (%s) payload at %d, expected %d", i, d.FieldLabel(FieldID(i)), got, want)
		}
		writePayload(ow, f.Value)
	}

	if err := at("field-index", l.FieldIndices); err != nil {
		return err
	}
	for _, idx := range d.FieldIndices {
		ow.U32(uint32(idx))
	}

	if err := at("list-index", l.ListIndices); err != nil {
		return err
	}
	for _, list := range d.ListIndices {
		ow.U32(uint32(len(list)))
		for _, s := range list {
			ow.U32(uint32(s))
		}
	}

	if got, want := ow.Offset(), base+int64(l.Size); got != want {
		return invariantf("layout", "document ends at %d, expected %d", got, want)
	}
	if err := ow.Flush(); err != nil {
		return fmt.Errorf("ow.Flush: %w", err)
	}

	if err := l.header(d.FileType).WriteAt(w, base); err != nil {
		return fmt.Errorf("header.WriteAt: %w", err)
	}
	return nil
}

func writePayload(ow *ondisk.Writer, v Value) {
	switch v := v.(type) {
	case Dword64:
		ow.U64(uint64(v))
	case Int64:
		ow.U64(uint64(v))
	case Double:
		ow.U64(math.Float64bits(float64(v)))
	case ExoString:
		ow.U32(uint32(len(v)))
		ow.Bytes(unsafestring.ToBytes(string(v)))
	case ResRef:
		b := resRefBytes(v)
		ow.U8(uint8(len(b)))
		ow.Bytes(b)
	case *LocString:
		ow.U32(uint32(v.encodedLen()))
		ow.U32(uint32(v.StrRef))
		ow.U32(uint32(len(v.Entries)))
		for _, e := range v.Entries {
			ow.U32(e.Language)
			ow.U32(uint32(len(e.Text)))
			ow.Bytes(unsafestring.ToBytes(e.Text))
		}
	case Void:
		ow.U32(uint32(len(v)))
		ow.Bytes(v)
	}
}

// resRefBytes returns the on-disk form of r: at most MaxResRefLen bytes with
// ASCII letters lowercased.
func resRefBytes(r ResRef) []byte {
	s := string(r)
	if len(s) > MaxResRefLen {
		s = s[:MaxResRefLen]
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return b
		}
	}
	return unsafestring.ToBytes(s)
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	buf := ondisk.NewBuffer(nil)
	if _, err := d.EncodeAt(buf, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the encoded document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	b, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// WriteFile encodes the document to a temporary file next to path and
// atomically renames it into place.
func (d *Document) WriteFile(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "gff.*.tmp")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q): %w", dir, err)
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}

	if _, err := d.EncodeAt(f, 0); err != nil {
		cleanup()
		return err
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err := f.Chmod(0644); err != nil {
		cleanup()
		return fmt.Errorf("f.Chmod(0644): %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("f.Close: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}

// Fingerprint returns a stable 64-bit farmhash of the encoded document, so
// documents that encode to the same bytes share a fingerprint.
func (d *Document) Fingerprint() (uint64, error) {
	b, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	return farm.Fingerprint64(b), nil
}
