// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup finds the field labelled label among the fields of struct s.  Labels
// compare case-insensitively.  A missing label is a *MissingLabelError, except
// for the document's optional labels (see DefaultOptionalLabels), which
// report ok == false with a nil error.
func (d *Document) Lookup(s StructID, label string) (id FieldID, ok bool, err error) {
	fields, err := d.StructFields(s)
	if err != nil {
		return 0, false, err
	}
	for _, f := range fields {
		l, err := d.Label(d.Fields[f].Label)
		if err != nil {
			return 0, false, err
		}
		if strings.EqualFold(l, label) {
			return f, true, nil
		}
	}
	if d.isOptional(label) {
		return 0, false, nil
	}
	return 0, false, &MissingLabelError{Label: label, Struct: s}
}

func (d *Document) isOptional(label string) bool {
	set := d.optionalLabels
	if set == nil {
		set = newLabelSet(DefaultOptionalLabels)
	}
	return set.Contains(label)
}

// Get returns the string form of the field labelled label in struct s.
// LocString fields resolve against table, which may be nil.
func (d *Document) Get(s StructID, label string, table StringTableLookup) (value string, ok bool, err error) {
	id, ok, err := d.Lookup(s, label)
	if err != nil || !ok {
		return "", ok, err
	}
	value, err = d.FieldString(id, table)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set parses value into the field labelled label in struct s.  If the label
// is optional and absent, Set logs a warning and reports ok == false.
//
// Changing a variable-length payload leaves the recorded offsets of later
// fields stale until the document is laid out again, which every encode does.
func (d *Document) Set(s StructID, label, value string) (ok bool, err error) {
	id, ok, err := d.Lookup(s, label)
	if err != nil {
		return false, err
	}
	if !ok {
		d.log().Warn("optional field is absent; value not set", "label", label, "struct", s, "type", strings.TrimSpace(d.FileType))
		return false, nil
	}
	if err := d.SetFieldString(id, value); err != nil {
		return false, err
	}
	return true, nil
}

// FieldString formats the value of field id as a string.  LocStrings resolve
// DefaultLanguage against table (which may be nil) and yield "" when neither
// the document nor the table has text.
func (d *Document) FieldString(id FieldID, table StringTableLookup) (string, error) {
	f, err := d.field(id)
	if err != nil {
		return "", err
	}
	switch v := f.Value.(type) {
	case Byte:
		return strconv.FormatUint(uint64(v), 10), nil
	case Char:
		return strconv.FormatInt(int64(v), 10), nil
	case Word:
		return strconv.FormatUint(uint64(v), 10), nil
	case Short:
		return strconv.FormatInt(int64(v), 10), nil
	case Dword:
		return strconv.FormatUint(uint64(v), 10), nil
	case Int:
		return strconv.FormatInt(int64(v), 10), nil
	case Dword64:
		return strconv.FormatUint(uint64(v), 10), nil
	case Int64:
		return strconv.FormatInt(int64(v), 10), nil
	case Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case Double:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case ExoString:
		return string(v), nil
	case ResRef:
		return string(v), nil
	case *LocString:
		text, _ := v.Resolve(DefaultLanguage, table)
		return text, nil
	case Void:
		return string(v), nil
	}
	return "", &UnsupportedTypeError{Type: f.Type(), Label: d.FieldLabel(id), Op: "get string"}
}

// SetFieldString parses value according to the type of field id and stores
// it.  Struct and List fields can't hold data, and a LocString that refers to
// the external string table can't be overridden.
func (d *Document) SetFieldString(id FieldID, value string) error {
	f, err := d.field(id)
	if err != nil {
		return err
	}
	t := f.Type()
	var v Value
	switch t {
	case TypeByte, TypeWord, TypeDword, TypeDword64:
		n, err := strconv.ParseUint(value, 10, uintBits(t))
		if err != nil {
			return fmt.Errorf("field %s: %w", d.FieldLabel(id), err)
		}
		switch t {
		case TypeByte:
			v = Byte(n)
		case TypeWord:
			v = Word(n)
		case TypeDword:
			v = Dword(n)
		default:
			v = Dword64(n)
		}
	case TypeChar, TypeShort, TypeInt, TypeInt64:
		n, err := strconv.ParseInt(value, 10, uintBits(t))
		if err != nil {
			return fmt.Errorf("field %s: %w", d.FieldLabel(id), err)
		}
		switch t {
		case TypeChar:
			v = Char(n)
		case TypeShort:
			v = Short(n)
		case TypeInt:
			v = Int(n)
		default:
			v = Int64(n)
		}
	case TypeFloat:
		n, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("field %s: %w", d.FieldLabel(id), err)
		}
		v = Float(n)
	case TypeDouble:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", d.FieldLabel(id), err)
		}
		v = Double(n)
	case TypeExoString:
		v = ExoString(value)
	case TypeResRef:
		v = ResRef(value)
	case TypeLocString:
		loc := f.Value.(*LocString)
		if loc.StrRef != NoStrRef {
			return &UnsupportedTypeError{Type: t, Label: d.FieldLabel(id), Op: "set string-table LocString"}
		}
		loc.SetEntry(DefaultLanguage, value)
		return nil
	case TypeVoid:
		v = Void(value)
	default:
		return &UnsupportedTypeError{Type: t, Label: d.FieldLabel(id), Op: "set string"}
	}
	f.Value = v
	return nil
}

// SetValue replaces the value of field id.  The new value must have the
// field's current type, and Struct and List fields can't be set this way.
func (d *Document) SetValue(id FieldID, v Value) error {
	f, err := d.field(id)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("field %s: nil value", d.FieldLabel(id))
	}
	t := f.Type()
	if t == TypeStruct || t == TypeList || t != v.Type() {
		return &UnsupportedTypeError{Type: t, Label: d.FieldLabel(id), Op: fmt.Sprintf("set %s value", v.Type())}
	}
	f.Value = v
	return nil
}

func (d *Document) field(id FieldID) (*Field, error) {
	if int(id) >= len(d.Fields) {
		return nil, invariantf("field index", "field %d out of range (%d fields)", id, len(d.Fields))
	}
	f := &d.Fields[id]
	if f.Value == nil {
		return nil, invariantf("field value", "field %d (%s) has no value", id, d.FieldLabel(id))
	}
	return f, nil
}

func uintBits(t FieldType) int {
	switch t {
	case TypeByte, TypeChar:
		return 8
	case TypeWord, TypeShort:
		return 16
	case TypeDword, TypeInt:
		return 32
	}
	return 64
}
