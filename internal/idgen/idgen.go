// Package idgen produces identifiers for new applications.
//
// An id is the creation time in milliseconds, base 36, followed by a random
// base-36 suffix, e.g. "lrx3k2a1-4f9z0qk". Two ids minted in the same
// millisecond differ by their suffix; nothing is consulted to guarantee
// uniqueness, collisions are merely improbable.
package idgen

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	suffixLen = 7
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator mints ids from a clock and a random source.
type Generator struct {
	Now  func() time.Time
	Rand *rand.Rand
}

var defaultGenerator = &Generator{}

// New returns a fresh id from the wall clock and the global random source.
func New() string {
	return defaultGenerator.New()
}

func (g *Generator) New() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	b := make([]byte, 0, 16)
	b = strconv.AppendInt(b, now().UnixMilli(), 36)
	b = append(b, '-')
	for i := 0; i < suffixLen; i++ {
		b = append(b, alphabet[g.intN(len(alphabet))])
	}
	return string(b)
}

func (g *Generator) intN(n int) int {
	if g.Rand != nil {
		return g.Rand.IntN(n)
	}
	return rand.IntN(n)
}
