// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bpowers/gff/internal/bitset"
)

// Well-known document types, as stored in the header's 4-byte type field.
const (
	TypeSoundBlueprint     = "UTS "
	TypeWaypointBlueprint  = "UTW "
	TypeTriggerBlueprint   = "UTT "
	TypeCreatureBlueprint  = "UTC "
	TypeEncounterBlueprint = "UTE "
	TypeMerchantBlueprint  = "UTM "
	TypePlaceableBlueprint = "UTP "
	TypeItemBlueprint      = "UTI "
	TypeDoorBlueprint      = "UTD "
	TypeDialogue           = "DLG "
	TypeJournal            = "JRL "
	TypeModuleInfo         = "IFO "
	TypeAreaInstances      = "GIT "
	TypeArea               = "ARE "
)

// Struct is an entry of the Struct Array.
//
// If FieldCount is 1, DataOrOffset is the FieldID of the struct's only field.
// If FieldCount is greater than 1, DataOrOffset is a byte offset into the
// Field-Index Table where FieldCount consecutive FieldIDs start.
type Struct struct {
	Type         uint32
	DataOrOffset uint32
	FieldCount   uint32
}

// IsRoot reports whether s is the document's top-level struct.
func (s Struct) IsRoot() bool {
	return s.Type == RootStructType
}

// Field is an entry of the Field Array.
type Field struct {
	Label LabelID
	Value Value
	// Offset is the field's recorded byte offset into the Payload Block.  It
	// is only meaningful for types stored there, and goes stale as soon as an
	// earlier variable-length payload changes size; Layout recomputes it.
	Offset uint32

	// unused high bits of a Byte, Char, Word or Short data word
	pad uint32
}

// word is the 32-bit data word written to the field's entry.
func (f *Field) word() uint32 {
	return dataWord(f.Value, f.Offset) | f.pad&^narrowMask(f.Type())
}

// Type returns the type of the field's value.
func (f *Field) Type() FieldType {
	if f.Value == nil {
		return TypeVoid
	}
	return f.Value.Type()
}

// Document is a decoded (or generated) GFF document: the five arrays the
// format is made of.  The Payload Block is not kept as bytes; payloads live
// on their fields and the block is laid out again by every encode.
//
// A Document is not safe for concurrent use.
type Document struct {
	FileType     string
	Labels       []string
	Structs      []Struct
	Fields       []Field
	FieldIndices []FieldID
	ListIndices  [][]StructID

	logger         *slog.Logger
	optionalLabels labelSet
	// per-label padding byte of a decoded Label Table; nil means all NUL
	labelPad []byte
}

// New returns an empty document of the given type, e.g. TypeJournal.
func New(fileType string, opts ...Option) *Document {
	o := newOptions(opts)
	ft := fileTypeBytes(fileType)
	return &Document{
		FileType:       string(ft[:]),
		logger:         o.logger,
		optionalLabels: o.optionalLabels,
	}
}

// AddLabel returns the id of label, appending it to the Label Table if it is
// not there yet.
func (d *Document) AddLabel(label string) LabelID {
	for i, l := range d.Labels {
		if l == label {
			return LabelID(i)
		}
	}
	d.Labels = append(d.Labels, label)
	return LabelID(len(d.Labels) - 1)
}

// AddStruct appends a struct and returns its id.
func (d *Document) AddStruct(s Struct) StructID {
	d.Structs = append(d.Structs, s)
	return StructID(len(d.Structs) - 1)
}

// AddField appends a field and returns its id.
func (d *Document) AddField(label string, v Value) FieldID {
	d.Fields = append(d.Fields, Field{Label: d.AddLabel(label), Value: v})
	return FieldID(len(d.Fields) - 1)
}

// Label returns the name of label id.
func (d *Document) Label(id LabelID) (string, error) {
	if int(id) >= len(d.Labels) {
		return "", invariantf("label index", "label %d out of range (%d labels)", id, len(d.Labels))
	}
	return d.Labels[id], nil
}

// FieldLabel returns the label of field id, or a placeholder if it can't be
// resolved.  It is meant for diagnostics.
func (d *Document) FieldLabel(id FieldID) string {
	if int(id) < len(d.Fields) {
		if l, err := d.Label(d.Fields[id].Label); err == nil {
			return l
		}
	}
	return fmt.Sprintf("<field %d>", id)
}

// Root returns the document's top-level struct, the only struct whose type
// is RootStructType.
func (d *Document) Root() (StructID, error) {
	root, found := StructID(0), 0
	for i, s := range d.Structs {
		if s.IsRoot() {
			root = StructID(i)
			found++
		}
	}
	if found != 1 {
		return 0, invariantf("root uniqueness", "found %d root structs, want exactly 1", found)
	}
	return root, nil
}

// StructFields resolves the fields of struct id in order.
func (d *Document) StructFields(id StructID) ([]FieldID, error) {
	if int(id) >= len(d.Structs) {
		return nil, invariantf("struct index", "struct %d out of range (%d structs)", id, len(d.Structs))
	}
	s := d.Structs[id]

	var fields []FieldID
	switch {
	case s.FieldCount == 0:
		return nil, nil
	case s.FieldCount == 1:
		fields = []FieldID{FieldID(s.DataOrOffset)}
	default:
		if s.DataOrOffset%4 != 0 {
			return nil, invariantf("struct field resolution", "struct %d field-index offset %d is not a multiple of 4", id, s.DataOrOffset)
		}
		start := uint64(s.DataOrOffset / 4)
		end := start + uint64(s.FieldCount)
		if end > uint64(len(d.FieldIndices)) {
			return nil, invariantf("struct field resolution", "struct %d needs field indices [%d, %d) but table has %d", id, start, end, len(d.FieldIndices))
		}
		fields = append(fields, d.FieldIndices[start:end]...)
	}

	for _, f := range fields {
		if int(f) >= len(d.Fields) {
			return nil, invariantf("struct field resolution", "struct %d references field %d out of range (%d fields)", id, f, len(d.Fields))
		}
	}
	return fields, nil
}

// List resolves a List field's offset to the structs of that list.  List
// identity is positional: off must land exactly on the start of an entry of
// the List-Index Table.
func (d *Document) List(off ListOffset) ([]StructID, error) {
	var counted uint64
	for _, list := range d.ListIndices {
		if counted == uint64(off) {
			return list, nil
		} else if counted > uint64(off) {
			break
		}
		counted += listByteSize(list)
	}
	return nil, invariantf("list alignment", "list offset %d does not start any of the %d recorded lists", off, len(d.ListIndices))
}

// ListOffsetOf returns the byte offset of the i-th entry of the List-Index
// Table, which is what a List field referring to it stores.
func (d *Document) ListOffsetOf(i int) ListOffset {
	var off uint64
	for _, list := range d.ListIndices[:i] {
		off += listByteSize(list)
	}
	return ListOffset(off)
}

// AppendList adds a list to the end of the List-Index Table and returns the
// offset a List field should store to refer to it.
func (d *Document) AppendList(structs []StructID) ListOffset {
	off := d.ListOffsetOf(len(d.ListIndices))
	d.ListIndices = append(d.ListIndices, structs)
	return off
}

// listByteSize is the encoded size of a List-Index Table entry: a count word
// followed by one word per struct.
func listByteSize(list []StructID) uint64 {
	return 4 * (uint64(len(list)) + 1)
}

// Validate checks the cross-references between the five arrays: a unique
// root, struct fields that resolve, labels and struct references in range and
// list offsets on list boundaries.
func (d *Document) Validate() error {
	if _, err := d.Root(); err != nil {
		return err
	}
	for i := range d.Structs {
		if _, err := d.StructFields(StructID(i)); err != nil {
			return err
		}
	}
	for _, list := range d.ListIndices {
		for _, s := range list {
			if int(s) >= len(d.Structs) {
				return invariantf("list entry", "list references struct %d out of range (%d structs)", s, len(d.Structs))
			}
		}
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Value == nil {
			return invariantf("field value", "field %d (%s) has no value", i, d.FieldLabel(FieldID(i)))
		}
		if _, err := d.Label(f.Label); err != nil {
			return err
		}
		switch v := f.Value.(type) {
		case StructRef:
			if int(v) >= len(d.Structs) {
				return invariantf("struct reference", "field %s references struct %d out of range (%d structs)", d.FieldLabel(FieldID(i)), v, len(d.Structs))
			}
		case ListRef:
			if _, err := d.List(ListOffset(v)); err != nil {
				return fmt.Errorf("field %s: %w", d.FieldLabel(FieldID(i)), err)
			}
		}
	}
	return nil
}

// WalkFunc is called by Walk for every field reachable from the root, with
// the struct that holds it and its depth (the root's fields are at depth 0).
type WalkFunc func(depth int, parent StructID, id FieldID, f *Field) error

// Walk visits the struct tree depth-first from the root, in field order,
// descending into Struct fields and each struct of a List field.
func (d *Document) Walk(fn WalkFunc) error {
	root, err := d.Root()
	if err != nil {
		return err
	}
	return d.walk(root, 0, bitset.New(len(d.Structs)), fn)
}

func (d *Document) walk(s StructID, depth int, onPath *bitset.Bitset, fn WalkFunc) error {
	fields, err := d.StructFields(s)
	if err != nil {
		return err
	}
	if !onPath.Set(uint32(s)) {
		return invariantf("struct tree", "struct %d is its own ancestor", s)
	}
	defer onPath.Clear(uint32(s))

	for _, id := range fields {
		f := &d.Fields[id]
		if err := fn(depth, s, id, f); err != nil {
			return err
		}
		switch v := f.Value.(type) {
		case StructRef:
			if err := d.walk(StructID(v), depth+1, onPath, fn); err != nil {
				return err
			}
		case ListRef:
			list, err := d.List(ListOffset(v))
			if err != nil {
				return fmt.Errorf("field %s: %w", d.FieldLabel(id), err)
			}
			for _, child := range list {
				if err := d.walk(child, depth+1, onPath, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (d *Document) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GFF [%q %s: %d structs, %d fields, %d labels]\n", d.FileType, Version, len(d.Structs), len(d.Fields), len(d.Labels))
	for i := range d.Fields {
		f := &d.Fields[i]
		fmt.Fprintf(&sb, "  field %d [%s, type: %s, data: %d]\n", i, d.FieldLabel(FieldID(i)), f.Type(), f.word())
	}
	return sb.String()
}
