// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	d := New("IFO")
	require.Equal(t, "IFO ", d.FileType)

	a := d.AddLabel("Mod_Name")
	b := d.AddLabel("Mod_Tag")
	require.Equal(t, a, d.AddLabel("Mod_Name"))
	require.NotEqual(t, a, b)
	require.Equal(t, []string{"Mod_Name", "Mod_Tag"}, d.Labels)

	_, err := d.Label(2)
	require.Error(t, err)
}

func TestRoot(t *testing.T) {
	d := newTestDocument()
	root, err := d.Root()
	require.NoError(t, err)
	require.Equal(t, sRoot, root)

	d.Structs[sItem].Type = RootStructType
	_, err = d.Root()
	var invariantErr *InvariantViolationError
	require.True(t, errors.As(err, &invariantErr))

	_, err = New(TypeJournal).Root()
	require.True(t, errors.As(err, &invariantErr))
}

func TestStructFields(t *testing.T) {
	d := newTestDocument()

	fields, err := d.StructFields(sRoot)
	require.NoError(t, err)
	require.Equal(t, []FieldID{fTag, fAppearance, fFirstName, fConversation, fGold, fEquip, fItemList, fScale, fBalance}, fields)

	fields, err = d.StructFields(sEquip)
	require.NoError(t, err)
	require.Equal(t, []FieldID{fRate, fSlot}, fields)

	// a single field is referenced directly
	fields, err = d.StructFields(sItem)
	require.NoError(t, err)
	require.Equal(t, []FieldID{fData}, fields)

	empty := d.AddStruct(Struct{Type: 9})
	fields, err = d.StructFields(empty)
	require.NoError(t, err)
	require.Empty(t, fields)

	for name, s := range map[string]Struct{
		"misaligned":      {Type: 1, DataOrOffset: 2, FieldCount: 2},
		"past the end":    {Type: 1, DataOrOffset: 40, FieldCount: 2},
		"bad field":       {Type: 1, DataOrOffset: 99, FieldCount: 1},
		"too many fields": {Type: 1, DataOrOffset: 0, FieldCount: 12},
	} {
		id := d.AddStruct(s)
		_, err := d.StructFields(id)
		var invariantErr *InvariantViolationError
		assert.True(t, errors.As(err, &invariantErr), name)
	}

	_, err = d.StructFields(1000)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	d := newTestDocument()
	second := d.AppendList([]StructID{sEquip, sItem})
	require.Equal(t, ListOffset(8), second)
	third := d.AppendList([]StructID{sRoot})
	require.Equal(t, ListOffset(20), third)
	require.Equal(t, second, d.ListOffsetOf(1))

	list, err := d.List(0)
	require.NoError(t, err)
	require.Equal(t, []StructID{sItem}, list)

	list, err = d.List(third)
	require.NoError(t, err)
	require.Equal(t, []StructID{sRoot}, list)

	// offsets inside an entry or past the table don't name a list
	for _, off := range []ListOffset{4, 12, 24, 28} {
		_, err := d.List(off)
		var invariantErr *InvariantViolationError
		require.True(t, errors.As(err, &invariantErr), "offset %d", off)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, newTestDocument().Validate())

	for name, corrupt := range map[string]func(d *Document){
		"no root":          func(d *Document) { d.Structs[sRoot].Type = 1 },
		"bad struct ref":   func(d *Document) { d.Fields[fEquip].Value = StructRef(40) },
		"misaligned list":  func(d *Document) { d.Fields[fItemList].Value = ListRef(4) },
		"bad list entry":   func(d *Document) { d.ListIndices[0][0] = 40 },
		"bad label":        func(d *Document) { d.Fields[fTag].Label = 40 },
		"nil value":        func(d *Document) { d.Fields[fTag].Value = nil },
		"bad field index":  func(d *Document) { d.FieldIndices[0] = 40 },
		"short index list": func(d *Document) { d.FieldIndices = d.FieldIndices[:3] },
	} {
		d := newTestDocument()
		corrupt(d)
		var invariantErr *InvariantViolationError
		assert.True(t, errors.As(d.Validate(), &invariantErr), name)
	}
}

func TestWalk(t *testing.T) {
	d := newTestDocument()

	var visited []string
	err := d.Walk(func(depth int, parent StructID, id FieldID, f *Field) error {
		visited = append(visited, strings.Repeat(">", depth)+d.FieldLabel(id))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"Tag", "Appearance", "FirstName", "Conversation", "Gold",
		"Equip", ">Rate", ">Slot",
		"ItemList", ">Data",
		"Scale", "Balance",
	}, visited)

	// the callback's error stops the walk
	stop := errors.New("stop")
	n := 0
	err = d.Walk(func(int, StructID, FieldID, *Field) error {
		n++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, n)

	// a struct that contains itself is refused instead of recursing forever
	d.Fields[fData].Value = ListRef(0)
	d.Fields[fData].Label = d.AddLabel("Loop")
	err = d.Walk(func(int, StructID, FieldID, *Field) error { return nil })
	var invariantErr *InvariantViolationError
	require.True(t, errors.As(err, &invariantErr))
}

func TestDocumentString(t *testing.T) {
	s := newTestDocument().String()
	require.True(t, strings.HasPrefix(s, `GFF ["UTC " V3.2: 3 structs, 12 fields, 12 labels]`))
	require.Contains(t, s, "field 1 [Appearance, type: Word, data: 12]")
	require.Contains(t, s, "field 5 [Equip, type: Struct, data: 1]")
}
