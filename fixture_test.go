// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

// Field ids of newTestDocument.
const (
	fTag FieldID = iota
	fAppearance
	fFirstName
	fConversation
	fGold
	fEquip
	fItemList
	fRate
	fSlot
	fData
	fScale
	fBalance
)

const (
	sRoot StructID = iota
	sEquip
	sItem
)

// newTestDocument builds a small creature blueprint that uses every kind of
// struct field resolution and most field types:
//
//	root (9 fields, via field indices)
//	├── Equip -> struct 1 (2 fields, via field indices)
//	└── ItemList -> [struct 2] (1 field, direct)
func newTestDocument() *Document {
	d := New(TypeCreatureBlueprint)
	d.AddStruct(Struct{Type: RootStructType, DataOrOffset: 0, FieldCount: 9})
	d.AddStruct(Struct{Type: 7, DataOrOffset: 9 * 4, FieldCount: 2})
	d.AddStruct(Struct{Type: 3, DataOrOffset: uint32(fData), FieldCount: 1})

	d.AddField("Tag", ExoString("guard"))
	d.AddField("Appearance", Word(12))
	d.AddField("FirstName", NewLocString("Aribeth"))
	d.AddField("Conversation", ResRef("nw_guard"))
	d.AddField("Gold", Dword64(123456789012))
	d.AddField("Equip", StructRef(sEquip))
	list := d.AppendList([]StructID{sItem})
	d.AddField("ItemList", ListRef(list))
	d.AddField("Rate", Float(1.5))
	d.AddField("Slot", Int(-3))
	d.AddField("Data", Void{1, 2, 3})
	d.AddField("Scale", Double(0.25))
	d.AddField("Balance", Int64(-42))

	d.FieldIndices = []FieldID{
		fTag, fAppearance, fFirstName, fConversation, fGold, fEquip, fItemList, fScale, fBalance,
		fRate, fSlot,
	}
	return d
}

// documentView is the part of a Document that is read from and written to
// disk.
type documentView struct {
	FileType     string
	Labels       []string
	Structs      []Struct
	Fields       []Field
	FieldIndices []FieldID
	ListIndices  [][]StructID
}

func viewOf(d *Document) documentView {
	return documentView{
		FileType:     d.FileType,
		Labels:       d.Labels,
		Structs:      d.Structs,
		Fields:       d.Fields,
		FieldIndices: d.FieldIndices,
		ListIndices:  d.ListIndices,
	}
}

func requireSameDocument(t *testing.T, want, got *Document) {
	t.Helper()
	if diff := pretty.Compare(viewOf(want), viewOf(got)); diff != "" {
		t.Fatalf("documents differ (-want +got):\n%s", diff)
	}
}

func payloadFields(d *Document) []FieldID {
	var ids []FieldID
	for i := range d.Fields {
		if d.Fields[i].Type().InPayload() {
			ids = append(ids, FieldID(i))
		}
	}
	return ids
}
