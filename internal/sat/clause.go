package sat

import "strings"

// clauseStatus is a bitmask of per-clause flags.
type clauseStatus uint8

const (
	statusLearnt    clauseStatus = 0b001
	statusProtected clauseStatus = 0b010
	statusDeleted   clauseStatus = 0b100
)

// Clause is an ordered, duplicate-free sequence of at least two literals.
// Unit clauses never materialize as a *Clause: NewClause enqueues them
// directly on the trail (see the Data Model's lifecycle note that clause
// identifiers equal insertion index — a unit clause consumes no id).
//
// literals[0] and literals[1] are always the clause's two watched literals:
// propagate and scanFrom reorder the literals to keep them there, and the
// Solver's watch lists record which assignment triggers a re-examination.
type Clause struct {
	// id is this clause's position in the database at the time it was
	// created; it is assigned by the Solver, not by NewClause, so that a
	// clause's id always reflects the database it currently belongs to.
	id int

	activity float64
	literals []Literal

	// lbd is not updated by the solver; the LBD deletion policy computes the
	// literal block distance on demand with currentLBD.
	lbd int

	// prevPos resumes the search for a new watch from where the previous
	// search left off instead of always rescanning from position 2.
	prevPos int

	status clauseStatus
}

func (c *Clause) isLearnt() bool    { return c.status&statusLearnt != 0 }
func (c *Clause) isProtected() bool { return c.status&statusProtected != 0 }
func (c *Clause) setProtected()     { c.status |= statusProtected }
func (c *Clause) clearProtected()   { c.status &^= statusProtected }

// NewClause builds a clause out of tmpLiterals. For non-learnt clauses it
// also deduplicates literals, drops clauses satisfied or tautological at the
// root level, and removes root-falsified literals.
//
// It returns (nil, true) when the clause is trivially true (so nothing need
// be stored), (nil, false) when it is trivially false (the formula is
// UNSAT), and (nil, ok) when it reduces to a unit fact, which is enqueued
// directly instead of being materialized as a clause.
func NewClause(s *Solver, tmpLiterals []Literal, learnt bool) (*Clause, bool) {
	size := len(tmpLiterals)

	if !learnt {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true // tautological clause
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return nil, true
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return nil, false
	case 1:
		return nil, s.enqueue(tmpLiterals[0], nil)
	default:
		c := &Clause{
			literals: append(make([]Literal, 0, size), tmpLiterals...),
			prevPos:  2,
		}
		if learnt {
			c.status |= statusLearnt

			// Move the literal assigned at the highest decision level into
			// the second watch slot so backjumping re-establishes the watch
			// invariant without extra bookkeeping (see clauses.go NewClause
			// in the teacher repository for the same trick).
			maxLevel, wl := -1, 1
			for i, lit := range c.literals {
				if lvl := s.level[lit.VarID()]; lvl > maxLevel {
					maxLevel, wl = lvl, i
				}
			}
			c.literals[wl], c.literals[1] = c.literals[1], c.literals[wl]
		}

		s.watch(c, c.literals[0].Opposite(), c.literals[1])
		s.watch(c, c.literals[1].Opposite(), c.literals[0])
		return c, true
	}
}

// locked reports whether c is currently the antecedent of an assignment and
// therefore must survive deletion.
func (c *Clause) locked(s *Solver) bool {
	return s.reason[c.literals[0].VarID()] == c
}

// remove detaches c from the watch index and marks it deleted.
func (c *Clause) remove(s *Solver) {
	s.unwatch(c, c.literals[0].Opposite())
	s.unwatch(c, c.literals[1].Opposite())
	c.status |= statusDeleted
	c.literals = nil
}

// simplify drops root-falsified literals and reports whether the clause is
// now satisfied at the root level (and can be removed).
func (c *Clause) simplify(s *Solver) bool {
	j := 0
	for _, l := range c.literals {
		switch s.LitValue(l) {
		case True:
			return true
		case False:
			// discard
		default:
			c.literals[j] = l
			j++
		}
	}
	c.literals = c.literals[:j]
	return false
}

// propagate is invoked when literal l (one of c's watches) has just become
// false. It either finds a replacement watch, asserts the other watch
// (unit propagation), or reports a conflict by returning false.
func (c *Clause) propagate(s *Solver, l Literal) bool {
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0], c.literals[1] = c.literals[1], opp
	}

	if s.LitValue(c.literals[0]) == True {
		s.watch(c, l, c.literals[0])
		return true
	}

	if c.prevPos >= len(c.literals) {
		c.prevPos = 2
	}
	if c.scanFrom(s, l, c.prevPos, len(c.literals)) {
		return true
	}
	if c.scanFrom(s, l, 2, c.prevPos) {
		return true
	}

	// All other literals are false: the first watch must be asserted.
	s.watch(c, l, c.literals[0])
	return s.enqueue(c.literals[0], c)
}

// scanFrom looks for a non-false literal in literals[from:to] to take over
// as the second watch, updating prevPos to resume from there next time.
func (c *Clause) scanFrom(s *Solver, l Literal, from, to int) bool {
	for i := from; i < to; i++ {
		if s.LitValue(c.literals[i]) != False {
			c.prevPos = i
			c.literals[1], c.literals[i] = c.literals[i], l.Opposite()
			s.watch(c, c.literals[1].Opposite(), c.literals[0])
			return true
		}
	}
	return false
}

// explainConflict appends the negation of every literal of c (a falsified
// clause) to dst and returns the result — this is the antecedent clause's
// contribution when c itself is the conflict.
func (c *Clause) explainConflict(dst []Literal) []Literal {
	for _, l := range c.literals {
		dst = append(dst, l.Opposite())
	}
	return dst
}

// explainAssign appends the negation of every literal but literals[0] (the
// asserted one) — this is the antecedent's contribution when c forced l.
func (c *Clause) explainAssign(dst []Literal) []Literal {
	for _, l := range c.literals[1:] {
		dst = append(dst, l.Opposite())
	}
	return dst
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
