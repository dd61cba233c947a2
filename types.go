// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"fmt"
	"math"
)

// FieldType is the on-disk type code of a Field.
type FieldType uint32

const (
	TypeByte FieldType = iota
	TypeChar
	TypeWord
	TypeShort
	TypeDword
	TypeInt
	TypeDword64
	TypeInt64
	TypeFloat
	TypeDouble
	TypeExoString
	TypeResRef
	TypeLocString
	TypeVoid
	TypeStruct
	TypeList
)

var fieldTypeNames = [...]string{
	TypeByte:      "Byte",
	TypeChar:      "Char",
	TypeWord:      "Word",
	TypeShort:     "Short",
	TypeDword:     "Dword",
	TypeInt:       "Int",
	TypeDword64:   "Dword64",
	TypeInt64:     "Int64",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeExoString: "ExoString",
	TypeResRef:    "ResRef",
	TypeLocString: "LocString",
	TypeVoid:      "Void",
	TypeStruct:    "Struct",
	TypeList:      "List",
}

func (t FieldType) String() string {
	if t.Valid() {
		return fieldTypeNames[t]
	}
	return fmt.Sprintf("FieldType(%d)", uint32(t))
}

// Valid reports whether t is one of the known type codes.  The format is
// closed-world: anything else is a corrupt file.
func (t FieldType) Valid() bool {
	return t <= TypeList
}

// Inline reports whether values of this type live entirely in the field's
// 32-bit data word.
func (t FieldType) Inline() bool {
	switch t {
	case TypeByte, TypeChar, TypeWord, TypeShort, TypeDword, TypeInt, TypeFloat:
		return true
	}
	return false
}

// InPayload reports whether values of this type are stored in the Payload
// Block, with the field's data word holding a byte offset into it.
func (t FieldType) InPayload() bool {
	return t.Valid() && !t.Inline() && t != TypeStruct && t != TypeList
}

type (
	// StructID indexes the Struct Array.
	StructID uint32
	// FieldID indexes the Field Array.
	FieldID uint32
	// LabelID indexes the Label Table.
	LabelID uint32
	// ListOffset is a byte offset into the List-Index Table.
	ListOffset uint32
)

// RootStructType is the type tag of a document's single top-level struct.
const RootStructType = 0xFFFFFFFF

// Value is the payload of a Field.  The set of implementations is closed;
// there is one per FieldType.
type Value interface {
	Type() FieldType
	isValue()
}

type (
	Byte      uint8
	Char      int8
	Word      uint16
	Short     int16
	Dword     uint32
	Int       int32
	Dword64   uint64
	Int64     int64
	Float     float32
	Double    float64
	ExoString string
	// ResRef is a resource reference of at most MaxResRefLen bytes.  It is
	// lowercased on write.
	ResRef string
	Void   []byte
	// StructRef is the payload of a Struct field.
	StructRef StructID
	// ListRef is the payload of a List field.
	ListRef ListOffset
)

func (Byte) Type() FieldType       { return TypeByte }
func (Char) Type() FieldType       { return TypeChar }
func (Word) Type() FieldType       { return TypeWord }
func (Short) Type() FieldType      { return TypeShort }
func (Dword) Type() FieldType      { return TypeDword }
func (Int) Type() FieldType        { return TypeInt }
func (Dword64) Type() FieldType    { return TypeDword64 }
func (Int64) Type() FieldType      { return TypeInt64 }
func (Float) Type() FieldType      { return TypeFloat }
func (Double) Type() FieldType     { return TypeDouble }
func (ExoString) Type() FieldType  { return TypeExoString }
func (ResRef) Type() FieldType     { return TypeResRef }
func (*LocString) Type() FieldType { return TypeLocString }
func (Void) Type() FieldType       { return TypeVoid }
func (StructRef) Type() FieldType  { return TypeStruct }
func (ListRef) Type() FieldType    { return TypeList }

func (Byte) isValue()       {}
func (Char) isValue()       {}
func (Word) isValue()       {}
func (Short) isValue()      {}
func (Dword) isValue()      {}
func (Int) isValue()        {}
func (Dword64) isValue()    {}
func (Int64) isValue()      {}
func (Float) isValue()      {}
func (Double) isValue()     {}
func (ExoString) isValue()  {}
func (ResRef) isValue()     {}
func (*LocString) isValue() {}
func (Void) isValue()       {}
func (StructRef) isValue()  {}
func (ListRef) isValue()    {}

// dataWord is the 32-bit value stored in the field entry itself: the value for
// inline types, the struct index for Struct, the list offset for List.  For
// payload types it is the recorded offset and is supplied by the caller.
func dataWord(v Value, payloadOffset uint32) uint32 {
	switch v := v.(type) {
	case Byte:
		return uint32(v)
	case Char:
		return uint32(uint8(v))
	case Word:
		return uint32(v)
	case Short:
		return uint32(uint16(v))
	case Dword:
		return uint32(v)
	case Int:
		return uint32(v)
	case Float:
		return math.Float32bits(float32(v))
	case StructRef:
		return uint32(v)
	case ListRef:
		return uint32(v)
	}
	return payloadOffset
}

// narrowMask selects the bits of the data word that a value of type t
// occupies.
func narrowMask(t FieldType) uint32 {
	switch t {
	case TypeByte, TypeChar:
		return 0xFF
	case TypeWord, TypeShort:
		return 0xFFFF
	}
	return math.MaxUint32
}

// inlineValue decodes the data word of a field whose type is not stored in
// the Payload Block.
func inlineValue(t FieldType, data uint32) Value {
	switch t {
	case TypeByte:
		return Byte(data)
	case TypeChar:
		return Char(int8(uint8(data)))
	case TypeWord:
		return Word(data)
	case TypeShort:
		return Short(int16(uint16(data)))
	case TypeDword:
		return Dword(data)
	case TypeInt:
		return Int(int32(data))
	case TypeFloat:
		return Float(math.Float32frombits(data))
	case TypeStruct:
		return StructRef(data)
	case TypeList:
		return ListRef(data)
	}
	return nil
}
