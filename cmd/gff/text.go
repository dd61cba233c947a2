// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// toUTF8 converts string payload bytes to UTF-8 for display.
func (e *env) toUTF8(s string) string {
	if !e.cp1252 {
		return s
	}
	// every byte is defined in Windows-1252 (the undefined ones map to
	// U+FFFD), so decoding can't fail
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// fromUTF8 converts user supplied text to the bytes stored in a document.
func (e *env) fromUTF8(s string) (string, error) {
	if !e.cp1252 {
		return s, nil
	}
	out, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("%q can't be represented in Windows-1252: %w", s, err)
	}
	return out, nil
}
