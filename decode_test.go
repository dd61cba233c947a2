// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/gff/internal/ondisk"
)

func encodedTestDocument(t *testing.T) []byte {
	t.Helper()
	b, err := newTestDocument().Bytes()
	require.NoError(t, err)
	return b
}

func TestDecode(t *testing.T) {
	d, err := DecodeBytes(encodedTestDocument(t))
	require.NoError(t, err)

	require.Equal(t, TypeCreatureBlueprint, d.FileType)
	require.Len(t, d.Structs, 3)
	require.Len(t, d.Fields, 12)
	require.Equal(t, "Conversation", d.Labels[3])

	root, err := d.Root()
	require.NoError(t, err)
	require.Equal(t, sRoot, root)

	require.Equal(t, ExoString("guard"), d.Fields[fTag].Value)
	require.Equal(t, Word(12), d.Fields[fAppearance].Value)
	require.Equal(t, NewLocString("Aribeth"), d.Fields[fFirstName].Value)
	require.Equal(t, ResRef("nw_guard"), d.Fields[fConversation].Value)
	require.Equal(t, Dword64(123456789012), d.Fields[fGold].Value)
	require.Equal(t, StructRef(sEquip), d.Fields[fEquip].Value)
	require.Equal(t, ListRef(0), d.Fields[fItemList].Value)
	require.Equal(t, Float(1.5), d.Fields[fRate].Value)
	require.Equal(t, Int(-3), d.Fields[fSlot].Value)
	require.Equal(t, Void{1, 2, 3}, d.Fields[fData].Value)
	require.Equal(t, Double(0.25), d.Fields[fScale].Value)
	require.Equal(t, Int64(-42), d.Fields[fBalance].Value)

	// recorded offsets come straight from the data words
	require.Equal(t, uint32(9), d.Fields[fFirstName].Offset)
	require.Equal(t, uint32(68), d.Fields[fBalance].Offset)

	require.NoError(t, d.Validate())
}

func TestDecodeBadVersion(t *testing.T) {
	b := encodedTestDocument(t)
	copy(b[4:8], "V3.3")

	_, err := DecodeBytes(b)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, int64(4), formatErr.Offset)

	// offsets are reported relative to the start of the input
	prefixed := append(make([]byte, 32), b...)
	_, err = Decode(bytes.NewReader(prefixed), 32)
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, int64(36), formatErr.Offset)
}

func TestDecodeUnknownType(t *testing.T) {
	b := encodedTestDocument(t)
	// type word of the first field, Tag
	binary.LittleEndian.PutUint32(b[92:], 99)

	_, err := DecodeBytes(b)
	var typeErr *UnsupportedTypeError
	require.True(t, errors.As(err, &typeErr))
	require.Equal(t, FieldType(99), typeErr.Type)
	require.Equal(t, "Tag", typeErr.Label)
}

func TestDecodeTruncated(t *testing.T) {
	b := encodedTestDocument(t)
	for _, n := range []int{0, 20, 56, 100, 300, 450, len(b) - 1} {
		_, err := DecodeBytes(b[:n])
		var formatErr *FormatError
		require.True(t, errors.As(err, &formatErr), "truncated to %d: %v", n, err)
		require.True(t, errors.Is(err, ondisk.ErrShortRead), "truncated to %d: %v", n, err)
	}
}

func TestDecodePayloadOutOfRange(t *testing.T) {
	b := encodedTestDocument(t)
	// point Balance past the end of the payload block
	binary.LittleEndian.PutUint32(b[92+int(fBalance)*12+8:], 70)

	_, err := DecodeBytes(b)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	require.Contains(t, err.Error(), "Balance")
}

func TestDecodeIgnoresPayloadCount(t *testing.T) {
	want := encodedTestDocument(t)

	for _, count := range []uint32{0, 4, 1 << 20} {
		b := append([]byte(nil), want...)
		// payload byte count
		binary.LittleEndian.PutUint32(b[36:], count)

		d, err := DecodeBytes(b)
		require.NoError(t, err, "count %d", count)
		require.Equal(t, Int64(-42), d.Fields[fBalance].Value)

		// the count is recomputed on write
		got, err := d.Bytes()
		require.NoError(t, err)
		require.Equal(t, want, got, "count %d", count)
	}
}

func TestDecodePayloadRunsToEndOfInput(t *testing.T) {
	b := encodedTestDocument(t)
	// no field-index region to bound the payload block
	binary.LittleEndian.PutUint32(b[40:], 0)
	binary.LittleEndian.PutUint32(b[44:], 0)

	d, err := DecodeBytes(b)
	require.NoError(t, err)
	require.Equal(t, Int64(-42), d.Fields[fBalance].Value)
	require.Nil(t, d.FieldIndices)

	// Balance's 8 bytes would end past the input
	binary.LittleEndian.PutUint32(b[92+int(fBalance)*12+8:], uint32(len(b)-428-4))
	_, err = DecodeBytes(b)
	require.True(t, errors.Is(err, ondisk.ErrShortRead), "%v", err)
}

func TestDecodeKeepsDataWordPadding(t *testing.T) {
	b := encodedTestDocument(t)
	// Appearance is a Word; the high half of its data word is unused
	binary.LittleEndian.PutUint32(b[92+int(fAppearance)*12+8:], 0xABCD000C)

	d, err := DecodeBytes(b)
	require.NoError(t, err)
	require.Equal(t, Word(12), d.Fields[fAppearance].Value)

	got, err := d.Bytes()
	require.NoError(t, err)
	require.Equal(t, b, got)

	// a changed value keeps the padding it was decoded with
	d.Fields[fAppearance].Value = Word(7)
	got, err = d.Bytes()
	require.NoError(t, err)
	require.Equal(t, uint32(0xABCD0007), binary.LittleEndian.Uint32(got[92+int(fAppearance)*12+8:]))
}

func TestDecodeSpacePaddedLabels(t *testing.T) {
	b := encodedTestDocument(t)
	// first label entry, Tag
	copy(b[236:252], "Tag             ")

	d, err := DecodeBytes(b)
	require.NoError(t, err)
	require.Equal(t, "Tag", d.Labels[0])
	require.Equal(t, "Appearance", d.Labels[1])

	got, err := d.Bytes()
	require.NoError(t, err)
	require.Equal(t, b, got)

	// labels added after decoding are NUL padded
	id := d.AddLabel("Extra")
	got, err = d.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeBytes(got)
	require.NoError(t, err)
	require.Equal(t, "Extra", decoded.Labels[id])
}

func TestDecodeMisalignedFieldIndices(t *testing.T) {
	b := encodedTestDocument(t)
	// field-index byte count
	binary.LittleEndian.PutUint32(b[44:], 43)

	_, err := DecodeBytes(b)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
}

func TestDecodeListIndices(t *testing.T) {
	d := newTestDocument()
	d.AppendList(nil)
	d.AppendList([]StructID{sEquip, sItem})
	b, err := d.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeBytes(b)
	require.NoError(t, err)
	require.Equal(t, [][]StructID{{sItem}, {}, {sEquip, sItem}}, decoded.ListIndices)

	list, err := decoded.List(12)
	require.NoError(t, err)
	require.Equal(t, []StructID{sEquip, sItem}, list)
}
