// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package zero clears reused buffers.
package zero

// Bytes sets every byte of b to 0, leaving len and cap unchanged.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
