package dpll

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kdhart/cdclsat/internal/sat"
)

func lit(v int) sat.Literal {
	if v < 0 {
		return sat.NegativeLiteral(-v - 1)
	}
	return sat.PositiveLiteral(v - 1)
}

func clauses(cnf [][]int) [][]sat.Literal {
	out := make([][]sat.Literal, len(cnf))
	for i, c := range cnf {
		lits := make([]sat.Literal, len(c))
		for j, v := range c {
			lits[j] = lit(v)
		}
		out[i] = lits
	}
	return out
}

func checkModel(t *testing.T, cnf [][]int, model []sat.Literal) {
	t.Helper()
	trueLits := map[sat.Literal]bool{}
	for _, l := range model {
		trueLits[l] = true
	}
	for _, c := range cnf {
		satisfied := false
		for _, v := range c {
			if trueLits[lit(v)] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("model %v does not satisfy clause %v", model, c)
		}
	}
}

func TestSolve_Unsat(t *testing.T) {
	cnf := [][]int{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}}
	for _, h := range []bool{false, true} {
		s := New(2, clauses(cnf), h)
		if model, ok := s.Solve(); ok {
			t.Errorf("heuristics=%v: got model %v, want UNSAT", h, model)
		}
	}
}

func TestSolve_Sat(t *testing.T) {
	cnf := [][]int{{1, 2, 3}, {-1, 2}, {-2, 3}}
	for _, h := range []bool{false, true} {
		s := New(3, clauses(cnf), h)
		model, ok := s.Solve()
		require.Truef(t, ok, "heuristics=%v: got UNSAT, want SAT", h)
		checkModel(t, cnf, model)
	}
}

func TestSolve_PigeonholeUnsat(t *testing.T) {
	// PHP(2,1): 2 pigeons, 1 hole.
	cnf := [][]int{{1}, {2}, {-1, -2}}
	s := New(2, clauses(cnf), false)
	if model, ok := s.Solve(); ok {
		t.Errorf("got model %v, want UNSAT", model)
	}
}

func TestSolve_CountsAreNonZero(t *testing.T) {
	cnf := [][]int{{1, 2, 3}, {-1, 2}, {-2, 3}, {-3, 1}}
	s := New(3, clauses(cnf), false)
	_, ok := s.Solve()
	require.True(t, ok, "want SAT")

	stats := s.Stats()
	require.False(t, stats.UnitPropagations == 0 && stats.Decisions == 0, "expected some decisions or propagations to have been counted, got %+v", stats)
	require.NotZero(t, stats.CheckedClauses)
}
