package sat

import "math/bits"

// LubyTerm returns the i-th (0-indexed) term of the Luby sequence
// 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,… (§4.5, Testable Property 6).
//
// This mirrors original_source/cdcl.py's Luby class: internally the
// recurrence is evaluated on a 1-indexed counter n = i+1, with the
// degenerate n=0 case (which the Python implementation computes once and
// discards during __init__, "skipping the first element (1/2)") never
// observed from the outside.
func LubyTerm(i int) int {
	return lubyAt(i + 1)
}

// lubyAt implements the recurrence directly on the 1-indexed counter used
// internally by the reference implementation: lubyAt(n) = 2^(k-1) if
// n+1 = 2^k, else lubyAt(n - 2^(k-1) + 1) where k = floor(log2(n)) + 1.
func lubyAt(n int) int {
	m := n + 1
	if m&(m-1) == 0 { // m is a power of two
		k := bits.Len(uint(m)) - 1
		return 1 << (k - 1)
	}
	k := bits.Len(uint(n)) - 1 + 1 // floor(log2(n)) + 1, n >= 1 here
	return lubyAt(n - (1 << (k - 1)) + 1)
}

// lubyGenerator produces successive Luby terms in sequence, amortizing the
// recurrence the way original_source/cdcl.py's Luby class does with its
// memoized history slice, rather than recomputing each term from scratch.
type lubyGenerator struct {
	history []int // history[n] == lubyAt(n), history[0] unused/degenerate
	i       int   // 0-indexed position of the last *exposed* term
}

func newLubyGenerator() *lubyGenerator {
	return &lubyGenerator{history: []int{0}, i: -1}
}

// next returns the next term of the exposed sequence (1,1,2,1,1,2,4,…).
func (g *lubyGenerator) next() int {
	g.i++
	n := g.i + 1
	m := n + 1
	if m&(m-1) == 0 {
		k := bits.Len(uint(m)) - 1
		g.history = append(g.history, 1<<(k-1))
	} else {
		k := bits.Len(uint(n)) - 1 + 1
		g.history = append(g.history, g.history[n-(1<<(k-1))+1])
	}
	return g.history[len(g.history)-1]
}
