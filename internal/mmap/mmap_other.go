// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build !(linux || darwin || freebsd)

package mmap

import (
	"os"
)

// Open reads the named file into memory on platforms without mmap support.
func Open(path string) (*ReaderAt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &ReaderAt{data: data}, nil
}
