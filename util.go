// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"strings"
)

// labelSet holds labels compared case-insensitively, the way field lookup
// compares them.
type labelSet map[string]struct{}

func newLabelSet(labels []string) labelSet {
	set := make(labelSet, len(labels))
	for _, l := range labels {
		set.Add(l)
	}
	return set
}

func (set labelSet) Contains(label string) bool {
	_, ok := set[strings.ToLower(label)]
	return ok
}

func (set labelSet) Add(label string) {
	set[strings.ToLower(label)] = struct{}{}
}
