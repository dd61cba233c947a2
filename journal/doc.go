// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package journal builds journal (JRL) documents from scratch.
//
// A generated journal has a root struct holding one Categories list.  Each
// category is a struct with seven fields and an EntryList of two entry
// structs, an in-progress entry (ID 1) and a completion entry (ID 2, End 1)
// that share the category's text:
//
//	root
//	└── Categories
//	    ├── category 0: Name XP Priority Picture Comment Tag EntryList
//	    │   ├── entry: ID=1 End=0 Text
//	    │   └── entry: ID=2 End=1 Text
//	    └── category 1: ...
//
// Every offset is computed up front instead of by laying the document out.
// With exactly two categories the entry lists are given the offsets 8 and
// 32, matching journals written by existing tools, even though those
// offsets don't fall on list boundaries.  Such documents encode fine but
// their EntryList fields can't be resolved with gff.Document.List.
package journal
