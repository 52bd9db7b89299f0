package backbone

import (
	"testing"

	"github.com/google/go-cmp/cmp"
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

// TestFind_UnitClauseIsTheOnlyBackbone exercises the formula from the
// spec's backbone scenario, {(1), (1∨2), (¬2∨3)}. Every model has variable
// 1 forced true by the unit clause; variable 2 is left free by (1∨2) once 1
// is true, and the implication ¬2∨3 only pins 3 to true when 2 is true, so
// (2=false,3=false) is also a model — 3 is therefore not constant across
// all models and the backbone is exactly {1}.
func TestFind_UnitClauseIsTheOnlyBackbone(t *testing.T) {
	cnf := [][]int{{1}, {1, 2}, {-2, 3}}
	result, err := Find(3, clauses(cnf))
	require.NoError(t, err)
	require.False(t, result.UNSAT, "want SAT")

	want := []sat.Literal{lit(1)}
	if diff := cmp.Diff(want, result.Backbones); diff != "" {
		t.Errorf("backbones mismatch (-want +got):\n%s", diff)
	}
	require.GreaterOrEqual(t, result.SolverRuns, 1)
}

// TestFind_AllVariablesAreBackbonesWhenFullyForced covers the case where
// every variable's value is determined: the backbone must equal the unique
// model.
func TestFind_AllVariablesAreBackbonesWhenFullyForced(t *testing.T) {
	cnf := [][]int{{1}, {-2}, {3}}
	result, err := Find(3, clauses(cnf))
	require.NoError(t, err)

	want := []sat.Literal{lit(1), lit(-2), lit(3)}
	if diff := cmp.Diff(want, result.Backbones, cmp.Transformer("sort", sortLiterals)); diff != "" {
		t.Errorf("backbones mismatch (-want +got):\n%s", diff)
	}
}

// TestFind_UnsatFormulaHasNoBackbones covers the "no backbones exist"
// branch of backbones.py: an unsatisfiable formula has no models, so
// nothing can hold across "every" model.
func TestFind_UnsatFormulaHasNoBackbones(t *testing.T) {
	cnf := [][]int{{1}, {-1}}
	result, err := Find(1, clauses(cnf))
	require.NoError(t, err)
	require.True(t, result.UNSAT)
	require.Empty(t, result.Backbones)
}

func sortLiterals(in []sat.Literal) []sat.Literal {
	out := append([]sat.Literal(nil), in...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
