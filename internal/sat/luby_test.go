package sat

import "testing"

// TestLubyTerm_ReferenceSequence is Testable Property 6: Luby(i) for
// i = 0,1,2,... must match 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,...
func TestLubyTerm_ReferenceSequence(t *testing.T) {
	want := []int{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		if got := LubyTerm(i); got != w {
			t.Errorf("LubyTerm(%d) = %d, want %d", i, got, w)
		}
	}
}

// TestLubyGenerator_MatchesLubyTerm verifies the memoized generator agrees
// with the reference function it amortizes.
func TestLubyGenerator_MatchesLubyTerm(t *testing.T) {
	g := newLubyGenerator()
	for i := 0; i < 20; i++ {
		want := LubyTerm(i)
		got := g.next()
		if got != want {
			t.Errorf("generator term %d = %d, want %d", i, got, want)
		}
	}
}
