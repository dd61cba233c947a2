// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitset tracks membership of small dense ids, such as the structs
// on the current path of a tree walk.
package bitset

// Bitset is conceptually a []bool indexed by id.  Ids at or past the length
// given to New are never set.
type Bitset struct {
	bits   []uint64
	length int
}

func New(length int) *Bitset {
	return &Bitset{
		bits:   make([]uint64, (length+63)/64),
		length: length,
	}
}

// Set marks id, reporting false if it was already marked.
func (b *Bitset) Set(id uint32) bool {
	if int64(id) >= int64(b.length) {
		return false
	}
	word, bit := &b.bits[id/64], uint64(1)<<(id%64)
	if *word&bit != 0 {
		return false
	}
	*word |= bit
	return true
}

func (b *Bitset) Clear(id uint32) {
	if int64(id) >= int64(b.length) {
		return
	}
	b.bits[id/64] &^= uint64(1) << (id % 64)
}

func (b *Bitset) IsSet(id uint32) bool {
	if int64(id) >= int64(b.length) {
		return false
	}
	return b.bits[id/64]&(uint64(1)<<(id%64)) != 0
}
