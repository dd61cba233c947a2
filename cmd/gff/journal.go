// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bpowers/gff/journal"
)

// journalInput is the YAML file read by the journal command:
//
//	categories:
//	  - name: Intro
//	    tag: se_intro
//	    text: It begins.
type journalInput struct {
	Categories []journal.Category `yaml:"categories"`
}

func runJournal(e *env, flags *pflag.FlagSet, args []string) error {
	out := flags.StringP("out", "o", "module.jrl", "file to write the journal to")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected one categories file, got %d arguments", flags.NArg())
	}
	path := flags.Arg(0)

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var in journalInput
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	categories := make([]journal.Category, len(in.Categories))
	for i, c := range in.Categories {
		if categories[i].Name, err = e.fromUTF8(c.Name); err != nil {
			return err
		}
		if categories[i].Tag, err = e.fromUTF8(c.Tag); err != nil {
			return err
		}
		if categories[i].Text, err = e.fromUTF8(c.Text); err != nil {
			return err
		}
	}

	d, err := journal.Generate(categories, e.options()...)
	if err != nil {
		return err
	}
	if err := d.WriteFile(*out); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s: %d categories\n", *out, len(categories))
	return nil
}
