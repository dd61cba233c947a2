// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bpowers/gff"
)

func runSet(e *env, flags *pflag.FlagSet, args []string) error {
	structID := flags.Uint32("struct", 0, "struct holding the field (default: the root struct)")
	out := flags.StringP("out", "o", "", "write the result to this file instead of the input")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 3 {
		flags.Usage()
		return fmt.Errorf("expected a file, a label and a value, got %d arguments", flags.NArg())
	}
	if e.base != 0 {
		return errors.New("can't rewrite a document embedded at a non-zero --base")
	}
	path, label := flags.Arg(0), flags.Arg(1)

	d, err := e.load(path)
	if err != nil {
		return err
	}

	s := gff.StructID(*structID)
	if !flags.Changed("struct") {
		if s, err = d.Root(); err != nil {
			return err
		}
	}

	value, err := e.fromUTF8(flags.Arg(2))
	if err != nil {
		return err
	}
	ok, err := d.Set(s, label, value)
	if err != nil {
		return err
	}
	if !ok {
		// absent optional field; Set has already logged it
		return nil
	}

	dest := path
	if *out != "" {
		dest = *out
	}
	if err := d.WriteFile(dest); err != nil {
		return err
	}
	e.logger.Info("updated field", "path", dest, "struct", s, "label", label)
	return nil
}
