// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/gff/internal/ondisk"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	h := newFileHeader("DLG")
	for i, r := range h.regions() {
		r.off = uint32(100 * (i + 1))
		r.count = uint32(i + 7)
	}

	buf := ondisk.NewBuffer(nil)
	require.NoError(t, h.WriteAt(buf, 8))
	require.Len(t, buf.Bytes(), 8+fileHeaderSize)
	require.Equal(t, "DLG V3.2", string(buf.Bytes()[8:16]))

	var decoded fileHeader
	require.NoError(t, decoded.UnmarshalBytes(buf.Bytes()[8:]))
	require.Equal(t, *h, decoded)
}

func TestFileHeaderErrors(t *testing.T) {
	var h fileHeader
	err := h.UnmarshalBytes(make([]byte, fileHeaderSize-1))
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))

	b := make([]byte, fileHeaderSize)
	copy(b, "JRL V3.3")
	err = h.UnmarshalBytes(b)
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, int64(4), formatErr.Offset)
	require.Contains(t, err.Error(), "V3.3")

	require.Error(t, h.MarshalTo(make([]byte, 10)))
}

func TestFileTypeBytes(t *testing.T) {
	require.Equal(t, [4]byte{'I', 'F', 'O', ' '}, fileTypeBytes("IFO"))
	require.Equal(t, [4]byte{'G', 'I', 'T', ' '}, fileTypeBytes("GIT "))
	require.Equal(t, [4]byte{'A', 'B', 'C', 'D'}, fileTypeBytes("ABCDE"))
	require.Equal(t, [4]byte{' ', ' ', ' ', ' '}, fileTypeBytes(""))
}
