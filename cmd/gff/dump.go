// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bpowers/gff"
	"github.com/bpowers/gff/internal/bitset"
)

type dumpDocument struct {
	Type    string     `yaml:"type"`
	Version string     `yaml:"version"`
	Root    dumpStruct `yaml:"root"`
}

type dumpStruct struct {
	ID     gff.StructID `yaml:"id"`
	Type   uint32       `yaml:"type"`
	Fields []dumpField  `yaml:"fields,omitempty"`
}

type dumpField struct {
	Label   string       `yaml:"label"`
	Type    string       `yaml:"type"`
	Value   any          `yaml:"value,omitempty"`
	StrRef  *int32       `yaml:"strref,omitempty"`
	Entries []dumpEntry  `yaml:"entries,omitempty"`
	Struct  *dumpStruct  `yaml:"struct,omitempty"`
	List    []dumpStruct `yaml:"list,omitempty"`
	// Error is set when a Struct or List field can't be followed.
	Error string `yaml:"error,omitempty"`
}

type dumpEntry struct {
	Language uint32 `yaml:"language"`
	Text     string `yaml:"text"`
}

func runDump(e *env, flags *pflag.FlagSet, args []string) error {
	language := flags.Uint32("lang", gff.DefaultLanguage, "only show LocString entries for this language id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected one file, got %d arguments", flags.NArg())
	}

	d, err := e.load(flags.Arg(0))
	if err != nil {
		return err
	}
	root, err := d.Root()
	if err != nil {
		return err
	}

	p := &dumper{
		env:      e,
		doc:      d,
		language: *language,
		all:      !flags.Changed("lang"),
		onPath:   bitset.New(len(d.Structs)),
	}
	out := dumpDocument{
		Type:    strings.TrimSpace(d.FileType),
		Version: gff.Version,
		Root:    p.dumpStruct(root),
	}

	enc := yaml.NewEncoder(e.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("yaml.Encode: %w", err)
	}
	return enc.Close()
}

type dumper struct {
	*env
	doc      *gff.Document
	language uint32
	all      bool
	onPath   *bitset.Bitset
}

func (p *dumper) dumpStruct(id gff.StructID) dumpStruct {
	s := dumpStruct{ID: id, Type: p.doc.Structs[id].Type}
	fields, err := p.doc.StructFields(id)
	if err != nil {
		s.Fields = []dumpField{{Label: "?", Type: "?", Error: err.Error()}}
		return s
	}

	p.onPath.Set(uint32(id))
	defer p.onPath.Clear(uint32(id))

	for _, fid := range fields {
		s.Fields = append(s.Fields, p.dumpField(fid))
	}
	return s
}

func (p *dumper) child(id gff.StructID) (dumpStruct, error) {
	if int(id) >= len(p.doc.Structs) {
		return dumpStruct{}, fmt.Errorf("struct %d out of range", id)
	}
	if p.onPath.IsSet(uint32(id)) {
		return dumpStruct{}, fmt.Errorf("struct %d contains itself", id)
	}
	return p.dumpStruct(id), nil
}

func (p *dumper) dumpField(id gff.FieldID) dumpField {
	f := &p.doc.Fields[id]
	out := dumpField{
		Label: p.doc.FieldLabel(id),
		Type:  f.Type().String(),
	}

	switch v := f.Value.(type) {
	case gff.Byte:
		out.Value = uint8(v)
	case gff.Char:
		out.Value = int8(v)
	case gff.Word:
		out.Value = uint16(v)
	case gff.Short:
		out.Value = int16(v)
	case gff.Dword:
		out.Value = uint32(v)
	case gff.Int:
		out.Value = int32(v)
	case gff.Dword64:
		out.Value = uint64(v)
	case gff.Int64:
		out.Value = int64(v)
	case gff.Float:
		out.Value = float32(v)
	case gff.Double:
		out.Value = float64(v)
	case gff.ExoString:
		out.Value = p.toUTF8(string(v))
	case gff.ResRef:
		out.Value = string(v)
	case gff.Void:
		out.Value = hex.EncodeToString(v)
	case *gff.LocString:
		if v.StrRef != gff.NoStrRef {
			strRef := v.StrRef
			out.StrRef = &strRef
		}
		for _, entry := range v.Entries {
			if p.all || entry.Language == p.language {
				out.Entries = append(out.Entries, dumpEntry{Language: entry.Language, Text: p.toUTF8(entry.Text)})
			}
		}
	case gff.StructRef:
		child, err := p.child(gff.StructID(v))
		if err != nil {
			out.Error = err.Error()
		} else {
			out.Struct = &child
		}
	case gff.ListRef:
		out.Value = uint32(v)
		list, err := p.doc.List(gff.ListOffset(v))
		if err != nil {
			out.Error = err.Error()
			break
		}
		for _, s := range list {
			child, err := p.child(s)
			if err != nil {
				out.Error = err.Error()
				break
			}
			out.List = append(out.List, child)
		}
	}
	return out
}
