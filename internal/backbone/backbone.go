// Package backbone extracts the backbone of a CNF formula — the literals
// that hold in every satisfying assignment — by repeated probing with the
// CDCL engine. It is grounded on original_source/backbones.py: solve once
// to get a candidate set (the first model's literals), then shrink the
// candidates by asserting each candidate's negation as a unit clause and
// re-solving, reusing the first solve's clause database (original clauses
// plus whatever it learned) instead of rebuilding it from scratch each time.
package backbone

import (
	"fmt"
	"sort"

	"github.com/kdhart/cdclsat/internal/sat"
)

// probeOptions fixes the restart/deletion/heuristic combination the
// original driver hardcodes ('Luby', 'active', 'Jeroslow-Wang').
var probeOptions = sat.Options{
	Restart:   sat.Luby,
	Deletion:  sat.Active,
	Heuristic: sat.JeroslowWang,
}

// Result is the outcome of a backbone extraction.
type Result struct {
	// Backbones holds the literals that hold in every model, if the
	// formula is satisfiable at all.
	Backbones []sat.Literal
	// SolverRuns counts every Solve call performed, matching
	// backbones.py's solver_runs counter.
	SolverRuns int
	// UNSAT is true when the base formula has no model, in which case
	// Backbones is empty (there is no model for a literal to hold in).
	UNSAT bool
}

// Find computes the backbone of the CNF formula described by nVars
// variables and clauses.
func Find(nVars int, clauses [][]sat.Literal) (*Result, error) {
	base, err := sat.New(nVars, clauses, probeOptions)
	if err != nil {
		return nil, fmt.Errorf("backbone: building base solver: %w", err)
	}
	model, err := base.Solve()
	if err != nil {
		return nil, fmt.Errorf("backbone: base solve: %w", err)
	}

	result := &Result{SolverRuns: 1}
	if model == nil {
		result.UNSAT = true
		return result, nil
	}

	possible := make(map[sat.Literal]bool, len(model))
	for _, l := range model {
		possible[l] = true
	}

	backbones := map[sat.Literal]bool{}
	// Reuse the input clauses plus the base solve's clause database
	// (whatever it kept and learned) as the starting point for every probe,
	// per backbones.py's "original_clauses = solver.clauses" comment. The
	// input clauses are included because the database holds no unit clauses.
	baseClauses := append(append([][]sat.Literal(nil), clauses...), base.Clauses()...)

	for len(possible) > 0 {
		result.SolverRuns++
		lit := popArbitrary(possible)
		delete(possible, lit)

		probeClauses := make([][]sat.Literal, len(baseClauses), len(baseClauses)+1)
		copy(probeClauses, baseClauses)
		probeClauses = append(probeClauses, []sat.Literal{lit.Opposite()})

		probe, err := sat.New(nVars, probeClauses, probeOptions)
		if err != nil {
			return nil, fmt.Errorf("backbone: building probe solver: %w", err)
		}
		probeModel, err := probe.Solve()
		if err != nil {
			return nil, fmt.Errorf("backbone: probe solve: %w", err)
		}

		if probeModel != nil {
			// lit is not a backbone: a model exists with its negation.
			// Shrink the candidate set to literals that also hold in this
			// model, excluding anything already confirmed a backbone.
			inModel := make(map[sat.Literal]bool, len(probeModel))
			for _, l := range probeModel {
				inModel[l] = true
			}
			shrunk := make(map[sat.Literal]bool, len(possible))
			for l := range possible {
				if inModel[l] && !backbones[l] {
					shrunk[l] = true
				}
			}
			possible = shrunk
		} else {
			backbones[lit] = true
		}
	}

	out := make([]sat.Literal, 0, len(backbones))
	for l := range backbones {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	result.Backbones = out
	return result, nil
}

// popArbitrary returns any key of the set. Map iteration order is
// unspecified in Go just as set.pop() is unordered in Python, so which
// candidate is probed first is intentionally not part of the contract —
// only the final backbone set is deterministic.
func popArbitrary(set map[sat.Literal]bool) sat.Literal {
	for l := range set {
		return l
	}
	panic("backbone: popArbitrary called on empty set")
}
