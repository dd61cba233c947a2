// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"fmt"
)

// FormatError reports bytes that are not a GFF document this package can
// read: a version mismatch or a region that runs past the end of the input.
type FormatError struct {
	Offset int64 // absolute offset the problem was found at, or -1
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "gff: bad format"
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError reports a field type code outside the closed set of
// known types, or an operation a field's type does not allow (such as setting
// scalar data on a Struct or List field).
type UnsupportedTypeError struct {
	Type  FieldType
	Label string
	Op    string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("gff: %s: unsupported field type %s", e.Op, e.Type)
	}
	return fmt.Sprintf("gff: %s: unsupported field type %s for field %q", e.Op, e.Type, e.Label)
}

// MissingLabelError reports a required label that is not present on a struct.
type MissingLabelError struct {
	Label  string
	Struct StructID
}

func (e *MissingLabelError) Error() string {
	return fmt.Sprintf("gff: failed to locate field %q in struct %d", e.Label, e.Struct)
}

// InvariantViolationError reports an internally inconsistent document, one
// that cannot be safely resolved or serialized.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("gff: %s: %s", e.Invariant, e.Detail)
}

func formatErrorf(off int64, err error, format string, args ...any) *FormatError {
	return &FormatError{
		Offset: off,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

func invariantf(invariant, format string, args ...any) *InvariantViolationError {
	return &InvariantViolationError{
		Invariant: invariant,
		Detail:    fmt.Sprintf(format, args...),
	}
}
