// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package gff reads, edits and writes documents in the GFF V3.2 container
// format: a tree of typed, labelled fields grouped into structs and lists.
//
// An encoded document looks like:
//
//	┌───────────────────┐
//	│ header (56 bytes) │
//	├───────────────────┤
//	│ struct array      │ 12 bytes per struct
//	├───────────────────┤
//	│ field array       │ 12 bytes per field
//	├───────────────────┤
//	│ label table       │ 16 bytes per label, NUL padded
//	├───────────────────┤
//	│ payload block     │ variable length field data
//	│                   │
//	├───────────────────┤
//	│ field indices     │ u32 field ids of multi-field structs
//	├───────────────────┤
//	│ list indices      │ u32 count + u32 struct ids, per list
//	└───────────────────┘
//
// The header holds the 4-byte document type, the version ("V3.2"), and an
// (offset, count) pair for each region in the order above.  Counts are
// element counts for the struct, field and label regions and byte counts for
// the rest.  All integers are little-endian, and all offsets are relative to
// the start of the document, which need not be the start of the file.
//
// Struct and field entries look like:
//
//	 0    1    2    3    4    5    6    7    8    9   10   11
//	+----+----+----+----+----+----+----+----+----+----+----+----+
//	| struct type       | field id / offset | field count       |
//	+----+----+----+----+----+----+----+----+----+----+----+----+
//	| field type        | label id          | data / offset     |
//	+----+----+----+----+----+----+----+----+----+----+----+----+
//
// A field's data word holds its value for the small scalar types, a struct
// id for Struct fields, a byte offset into the list indices for List fields
// and a byte offset into the payload block for everything else.
//
// Decoded documents keep payloads on their fields instead of as a byte
// block.  Changing the length of a payload in memory leaves the recorded
// offsets of every later field stale until the next Layout, which every
// encode runs first.
package gff
