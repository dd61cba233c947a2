// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata writes a YAML list of random journal categories, suitable as
// input to `gff journal`.
package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bpowers/gff/journal"
)

const (
	tagPrefix = "se_"
	nameChars = "abcdefghijklmnopqrstuvwxyz"
)

var words = []string{
	"the", "guard", "asks", "you", "to", "find", "a", "lost", "ring",
	"in", "old", "crypt", "beneath", "city", "and", "return", "it",
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		if _, err := crand.Read(seedBytes[:]); err != nil {
			panic(err)
		}
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

func randomName(rng *rand.Rand) string {
	b := make([]byte, 4+rng.Intn(12))
	for i := range b {
		b[i] = nameChars[rng.Intn(len(nameChars))]
	}
	b[0] -= 'a' - 'A'
	return string(b)
}

func randomText(rng *rand.Rand) string {
	n := 3 + rng.Intn(20)
	var text []byte
	for i := 0; i < n; i++ {
		if i > 0 {
			text = append(text, ' ')
		}
		text = append(text, words[rng.Intn(len(words))]...)
	}
	return string(append(text, '.'))
}

func main() {
	n := pflag.IntP("categories", "n", 100, "number of categories to generate")
	seed := pflag.Int64("seed", 0, "random seed (default: random)")
	pflag.Parse()

	rng := newRand(*seed)
	categories := make([]journal.Category, *n)
	for i := range categories {
		tag := fmt.Sprintf("%s%d", tagPrefix, i)
		if len(tag) > journal.MaxTagLen {
			tag = tag[:journal.MaxTagLen]
		}
		categories[i] = journal.Category{
			Name: randomName(rng),
			Tag:  tag,
			Text: randomText(rng),
		}
	}

	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(map[string][]journal.Category{"categories": categories}); err != nil {
		fmt.Fprintf(os.Stderr, "gen-testdata: %v\n", err)
		os.Exit(1)
	}
	_ = enc.Close()
}
