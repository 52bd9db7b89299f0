// Package dpll implements the classic Davis-Putnam-Logemann-Loveland
// backtracking procedure as a comparison baseline for the CDCL engine in
// internal/sat. It is grounded on original_source/dpll.py: the same
// unit-propagation-to-fixpoint step, the same two decision heuristics
// (first-unassigned-variable and shortest-unsatisfied-clause), and the same
// three counters (decisions, unit propagation steps, checked clauses).
//
// Unlike internal/sat, this solver keeps no watch lists and does no
// learning: every recursive call rescans the clause set, which is the
// point — it exists to sanity-check the CDCL engine's answers, not to
// compete with it on speed.
package dpll

import "github.com/kdhart/cdclsat/internal/sat"

// Stats mirrors dpll.py's module-level decisions_counter, unit_prop_counter
// and checked_clauses_counter globals, scoped to a single Solver instead.
type Stats struct {
	Decisions        int64
	UnitPropagations int64
	CheckedClauses   int64
}

// Solver is a naive DPLL solver over a fixed clause set.
type Solver struct {
	nVars      int
	clauses    [][]sat.Literal
	heuristics bool
	stats      Stats
}

// New builds a Solver for nVars variables and the given CNF clauses. When
// heuristics is true, decisions prefer a literal from the shortest
// unsatisfied clause (decide_literal_heuristics); otherwise the first
// unassigned variable encountered in clause order is chosen
// (decide_literal).
func New(nVars int, clauses [][]sat.Literal, heuristics bool) *Solver {
	cp := make([][]sat.Literal, len(clauses))
	for i, c := range clauses {
		cp[i] = append([]sat.Literal(nil), c...)
	}
	return &Solver{nVars: nVars, clauses: cp, heuristics: heuristics}
}

func (s *Solver) Stats() Stats { return s.stats }

// Solve returns the satisfying assignment (one literal per assigned
// variable, true literals positive) and true, or (nil, false) if the
// formula is unsatisfiable.
func (s *Solver) Solve() ([]sat.Literal, bool) {
	assigned, ok := s.dpll(s.clauses, nil, nil)
	if !ok {
		return nil, false
	}
	return assigned, true
}

// assignedSet is a lightweight membership set over the literals assigned so
// far in the current branch.
type assignedSet map[sat.Literal]bool

func toSet(assigned []sat.Literal) assignedSet {
	set := make(assignedSet, len(assigned))
	for _, l := range assigned {
		set[l] = true
	}
	return set
}

// unitPropagate runs unit propagation to a fixpoint starting from an
// optional forced literal (the decision under test), mirroring
// dpll.py's unit_prop. It returns the surviving clauses (falsified literals
// removed, satisfied clauses dropped) and the extended assignment, or
// conflict=true if an empty clause was produced.
func (s *Solver) unitPropagate(clauses [][]sat.Literal, assigned []sat.Literal, forced *sat.Literal) ([][]sat.Literal, []sat.Literal, bool) {
	set := toSet(assigned)
	remaining := clauses

	var next *sat.Literal
	if forced != nil {
		next = forced
	}

	for {
		if next == nil {
			for _, c := range remaining {
				s.stats.CheckedClauses++
				if len(c) == 0 {
					return nil, nil, true
				}
				if len(c) == 1 && !set[c[0]] {
					l := c[0]
					next = &l
					break
				}
			}
			if next == nil {
				return remaining, assigned, false
			}
		}

		s.stats.UnitPropagations++
		lit := *next
		assigned = append(assigned, lit)
		set[lit] = true

		filtered := make([][]sat.Literal, 0, len(remaining))
		conflict := false
		var forcedNext *sat.Literal
		for _, c := range remaining {
			s.stats.CheckedClauses++
			if containsLiteral(c, lit) {
				continue // clause satisfied, drop it
			}
			if !containsLiteral(c, lit.Opposite()) {
				filtered = append(filtered, c)
				continue
			}
			shrunk := removeLiteral(c, lit.Opposite())
			if len(shrunk) == 0 {
				conflict = true
			}
			if len(shrunk) == 1 && !set[shrunk[0]] {
				l := shrunk[0]
				forcedNext = &l
			}
			filtered = append(filtered, shrunk)
		}
		if conflict {
			return nil, nil, true
		}

		remaining = filtered
		next = forcedNext
	}
}

func containsLiteral(c []sat.Literal, l sat.Literal) bool {
	for _, x := range c {
		if x == l {
			return true
		}
	}
	return false
}

func removeLiteral(c []sat.Literal, l sat.Literal) []sat.Literal {
	out := make([]sat.Literal, 0, len(c))
	for _, x := range c {
		if x != l {
			out = append(out, x)
		}
	}
	return out
}

func allSatisfied(clauses [][]sat.Literal) bool {
	return len(clauses) == 0
}

// decideLiteral picks the first unassigned literal in clause order, with the
// polarity it has in that clause (decide_literal).
func (s *Solver) decideLiteral(clauses [][]sat.Literal, set assignedSet) (sat.Literal, bool) {
	for _, c := range clauses {
		for _, l := range c {
			if !set[l] && !set[l.Opposite()] {
				s.stats.Decisions++
				return l, true
			}
		}
	}
	return 0, false
}

// decideLiteralHeuristics prefers a literal from a binary clause, falling
// back to the first literal of the shortest remaining clause
// (decide_literal_heuristics).
func (s *Solver) decideLiteralHeuristics(clauses [][]sat.Literal) (sat.Literal, bool) {
	if len(clauses) == 0 {
		return 0, false
	}
	best := clauses[0]
	found := false
	for _, c := range clauses {
		if len(c) == 0 {
			continue
		}
		if len(c) == 2 {
			s.stats.Decisions++
			return c[0], true
		}
		if !found || len(c) <= len(best) {
			best = c
			found = true
		}
	}
	if !found {
		return 0, false
	}
	s.stats.Decisions++
	return best[0], true
}

func (s *Solver) dpll(clauses [][]sat.Literal, assigned []sat.Literal, forced *sat.Literal) ([]sat.Literal, bool) {
	remaining, assigned, conflict := s.unitPropagate(clauses, assigned, forced)
	if conflict {
		return nil, false
	}
	if allSatisfied(remaining) {
		return assigned, true
	}

	set := toSet(assigned)
	var lit sat.Literal
	var ok bool
	if s.heuristics {
		lit, ok = s.decideLiteralHeuristics(remaining)
	} else {
		lit, ok = s.decideLiteral(remaining, set)
	}
	if !ok {
		// No unassigned variable remains but some clause is unsatisfied:
		// the formula is unsatisfiable under this partial assignment.
		return nil, false
	}

	if result, ok := s.dpll(remaining, append([]sat.Literal(nil), assigned...), &lit); ok {
		return result, true
	}

	negated := lit.Opposite()
	return s.dpll(remaining, append([]sat.Literal(nil), assigned...), &negated)
}
