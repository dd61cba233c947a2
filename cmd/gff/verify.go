// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dgryski/go-farm"
	"github.com/spf13/pflag"
)

func runVerify(e *env, flags *pflag.FlagSet, args []string) error {
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected one file, got %d arguments", flags.NArg())
	}
	path := flags.Arg(0)

	d, err := e.load(path)
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		e.logger.Warn("document has inconsistent references", "path", path, "error", err)
	}

	encoded, err := d.Bytes()
	if err != nil {
		return fmt.Errorf("re-encode: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if e.base > int64(len(raw)) {
		return fmt.Errorf("--base %d is past the end of %s", e.base, path)
	}
	input := raw[e.base:]
	if len(input) > len(encoded) {
		e.logger.Info("input continues past the document", "path", path, "trailing", len(input)-len(encoded))
		input = input[:len(encoded)]
	}

	fingerprint, err := d.Fingerprint()
	if err != nil {
		return err
	}
	if !bytes.Equal(input, encoded) {
		return fmt.Errorf("%s: round trip differs at byte %d (input fingerprint %016x, re-encoded %016x)",
			path, firstDifference(input, encoded), farm.Fingerprint64(input), fingerprint)
	}

	fmt.Fprintf(e.stdout, "%s: ok, %d bytes, %d structs, %d fields, fingerprint %016x\n",
		path, len(encoded), len(d.Structs), len(d.Fields), fingerprint)
	return nil
}

func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
