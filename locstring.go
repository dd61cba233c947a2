// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

// NoStrRef marks a LocString with no external string-table reference: its
// text must come from its own entries.
const NoStrRef = -1

// DefaultLanguage is the language id of English (masculine/neutral) entries.
const DefaultLanguage = 0

// LocEntry is one language's text inside a LocString.  Language is the raw
// on-disk id, which packs the language and gender as language*2+gender.
type LocEntry struct {
	Language uint32
	Text     string
}

// LocString is a language-keyed bundle of strings with an optional fallback
// into an external string table.  Entries are kept in file order so a decoded
// document re-encodes byte for byte.
type LocString struct {
	StrRef  int32
	Entries []LocEntry
}

// NewLocString returns a LocString with no external reference holding text
// for DefaultLanguage.
func NewLocString(text string) *LocString {
	return &LocString{
		StrRef:  NoStrRef,
		Entries: []LocEntry{{Language: DefaultLanguage, Text: text}},
	}
}

// StringTableLookup resolves external string references, typically backed by
// a game's talk table.
type StringTableLookup interface {
	LookupString(strRef int32, language uint32) (string, bool)
}

// StringTableFunc adapts a function to StringTableLookup.
type StringTableFunc func(strRef int32, language uint32) (string, bool)

func (f StringTableFunc) LookupString(strRef int32, language uint32) (string, bool) {
	return f(strRef, language)
}

// Entry returns the in-document text for language.
func (l *LocString) Entry(language uint32) (string, bool) {
	for _, e := range l.Entries {
		if e.Language == language {
			return e.Text, true
		}
	}
	return "", false
}

// SetEntry replaces the text for language, appending a new entry if there is
// none yet.
func (l *LocString) SetEntry(language uint32, text string) {
	for i := range l.Entries {
		if l.Entries[i].Language == language {
			l.Entries[i].Text = text
			return
		}
	}
	l.Entries = append(l.Entries, LocEntry{Language: language, Text: text})
}

// Resolve returns the text for language.  An entry stored in the document
// always wins; otherwise the external reference is looked up in table, if
// there is one.  table may be nil.
func (l *LocString) Resolve(language uint32, table StringTableLookup) (string, bool) {
	if text, ok := l.Entry(language); ok {
		return text, true
	}
	if l.StrRef < 0 || table == nil {
		return "", false
	}
	return table.LookupString(l.StrRef, language)
}

// encodedLen is the byte size of the payload after its leading total-length
// word.
func (l *LocString) encodedLen() int {
	// StrRef + entry count
	n := 4 + 4
	for _, e := range l.Entries {
		// language id + text length
		n += 4 + 4 + len(e.Text)
	}
	return n
}

