// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bpowers/gff"
)

const testCategories = `categories:
  - name: Café
    tag: se_cafe
    text: Order a drink.
  - name: Alpha
    tag: se_alpha
    text: It begins.
`

func runForTest(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func writeJournal(t *testing.T, dir string, extraArgs ...string) string {
	t.Helper()
	input := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(input, []byte(testCategories), 0644))
	jrl := filepath.Join(dir, "module.jrl")

	args := append(extraArgs, "journal", "--out", jrl, input)
	out, err := runForTest(t, args...)
	require.NoError(t, err)
	require.Equal(t, jrl+": 2 categories\n", out)
	return jrl
}

func TestJournalCommand(t *testing.T) {
	jrl := writeJournal(t, t.TempDir())

	d, err := gff.Open(jrl)
	require.NoError(t, err)
	require.Equal(t, gff.TypeJournal, d.FileType)

	// names are stored as Windows-1252 and sorted by their stored bytes
	first, _, err := d.Get(1, "Name", nil)
	require.NoError(t, err)
	require.Equal(t, "Alpha", first)
	second, _, err := d.Get(4, "Name", nil)
	require.NoError(t, err)
	require.Equal(t, "Caf\xe9", second)
}

func TestJournalCommandUTF8(t *testing.T) {
	jrl := writeJournal(t, t.TempDir(), "--cp1252=false")

	d, err := gff.Open(jrl)
	require.NoError(t, err)
	second, _, err := d.Get(4, "Name", nil)
	require.NoError(t, err)
	require.Equal(t, "Café", second)
}

func TestJournalCommandErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("categories: []\n"), 0644))
	_, err := runForTest(t, "journal", "--out", filepath.Join(dir, "x.jrl"), empty)
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("categories:\n  - name: a\n    colour: red\n"), 0644))
	_, err = runForTest(t, "journal", "--out", filepath.Join(dir, "x.jrl"), unknown)
	require.Error(t, err)

	// not representable in Windows-1252
	greek := filepath.Join(dir, "greek.yaml")
	require.NoError(t, os.WriteFile(greek, []byte("categories:\n  - name: Ωmega\n"), 0644))
	_, err = runForTest(t, "journal", "--out", filepath.Join(dir, "x.jrl"), greek)
	require.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	jrl := writeJournal(t, dir)

	out, err := runForTest(t, "verify", jrl)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, jrl+": ok, "), out)
	require.Contains(t, out, "7 structs, 27 fields")

	// the same document embedded in a larger file
	raw, err := os.ReadFile(jrl)
	require.NoError(t, err)
	archive := filepath.Join(dir, "archive.bin")
	require.NoError(t, os.WriteFile(archive, append(bytes.Repeat([]byte{'x'}, 16), raw...), 0644))
	out, err = runForTest(t, "--base", "16", "verify", archive)
	require.NoError(t, err)
	require.Contains(t, out, ": ok, ")

	garbage := filepath.Join(dir, "garbage.jrl")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a gff document at all, not even close to one"), 0644))
	_, err = runForTest(t, "verify", garbage)
	var formatErr *gff.FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestDumpCommand(t *testing.T) {
	jrl := writeJournal(t, t.TempDir())

	out, err := runForTest(t, "dump", jrl)
	require.NoError(t, err)

	var dumped dumpDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &dumped))
	require.Equal(t, "JRL", dumped.Type)
	require.Equal(t, gff.Version, dumped.Version)
	require.Len(t, dumped.Root.Fields, 1)

	categories := dumped.Root.Fields[0]
	require.Equal(t, "Categories", categories.Label)
	require.Equal(t, "List", categories.Type)
	require.Len(t, categories.List, 2)

	cafe := categories.List[1]
	require.Equal(t, gff.StructID(4), cafe.ID)
	require.Equal(t, "Name", cafe.Fields[0].Label)
	require.Equal(t, []dumpEntry{{Language: 0, Text: "Café"}}, cafe.Fields[0].Entries)
	require.Equal(t, "Tag", cafe.Fields[5].Label)
	require.Equal(t, "se_cafe", cafe.Fields[5].Value)

	// the two-category entry list offsets don't resolve, and say so
	require.Equal(t, "EntryList", cafe.Fields[6].Label)
	require.NotEmpty(t, cafe.Fields[6].Error)
}

func TestSetCommand(t *testing.T) {
	dir := t.TempDir()
	jrl := writeJournal(t, dir)
	renamed := filepath.Join(dir, "renamed.jrl")

	_, err := runForTest(t, "set", "--struct", "4", "--out", renamed, jrl, "tag", "se_renamed")
	require.NoError(t, err)

	d, err := gff.Open(renamed)
	require.NoError(t, err)
	tag, _, err := d.Get(4, "Tag", nil)
	require.NoError(t, err)
	require.Equal(t, "se_renamed", tag)

	// the input is untouched
	d, err = gff.Open(jrl)
	require.NoError(t, err)
	tag, _, err = d.Get(4, "Tag", nil)
	require.NoError(t, err)
	require.Equal(t, "se_cafe", tag)

	// in place, with text converted to Windows-1252
	_, err = runForTest(t, "set", "--struct", "1", jrl, "Name", "Début")
	require.NoError(t, err)
	d, err = gff.Open(jrl)
	require.NoError(t, err)
	name, _, err := d.Get(1, "Name", nil)
	require.NoError(t, err)
	require.Equal(t, "D\xe9but", name)

	// the root holds only the Categories list
	_, err = runForTest(t, "set", jrl, "Categories", "1")
	var typeErr *gff.UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)

	_, err = runForTest(t, "set", jrl, "Missing", "1")
	var missing *gff.MissingLabelError
	require.ErrorAs(t, err, &missing)

	// absent optional fields are skipped
	_, err = runForTest(t, "set", jrl, "OnClick", "nw_script")
	require.NoError(t, err)

	_, err = runForTest(t, "--base", "4", "set", jrl, "Name", "x")
	require.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	_, err := runForTest(t, "frobnicate")
	require.Error(t, err)

	_, err = runForTest(t, "--log-level", "loud", "dump", "x")
	require.Error(t, err)

	_, err = runForTest(t)
	require.Error(t, err)

	_, err = runForTest(t, "dump")
	require.Error(t, err)

	_, err = runForTest(t, "dump", filepath.Join(t.TempDir(), "missing.jrl"))
	require.Error(t, err)
}
