// Package sat implements the CDCL search core: a watched-literal unit
// propagator, a 1-UIP conflict analyzer with non-chronological backjumping,
// a family of decision heuristics, a restart scheduler, and a learned-clause
// deletion policy, all sharing one trail, one clause database, and one
// watch-list index.
package sat

import (
	"fmt"
	"math/rand"
)

// watcher is an entry in a literal's watch list: the clause to re-examine
// when the literal is assigned true, plus a guard literal whose truth makes
// the re-examination unnecessary (an optimization, not part of the
// correctness argument: dropping the guard check still yields a correct,
// just slower, propagator).
type watcher struct {
	clause *Clause
	guard  Literal
}

// Options configures a Solver. The zero value selects unbounded restarts, no
// learned-clause deletion, and Random decisions with no assumptions.
type Options struct {
	Restart     RestartPolicyKind
	Deletion    DeletionPolicyKind
	Heuristic   HeuristicKind
	Assumptions []Literal
	Seed        int64
}

// Solver is a CDCL engine instance. A Solver owns its clause database,
// trail, watch index, and heuristic state exclusively: nothing here is
// shared across Solver values or across goroutines (§5).
type Solver struct {
	opts Options

	// Clause database: the canonical list of original and learned clauses,
	// indexed by identifier (= position in the slice). Rebuilt wholesale at
	// every restart so identifiers stay monotonic within a search window.
	clauses          []*Clause
	numOriginal      int // clauses [0, numOriginal) were added before the first Solve
	deletionBaseline int // N0: clauses with id < this are exempt from deletion

	nVars int

	// Per-variable state, O(1) indexed (Design Notes §9).
	assigns  []LBool // indexed by Literal
	level    []int   // indexed by variable
	reason   []*Clause
	trailPos []int

	trail    []Literal
	trailLim []int // trailLim[d-1] is the trail length when decision level d began

	watcherHeads [][]watcher // indexed by Literal

	pending *Queue[Literal]

	heuristic     heuristic
	assumptions   []Literal
	assumptionIdx int
	restart       *restartSchedule
	restartsTaken int

	conflictsAtWindowStart int

	seenVar *ResetSet

	tmpReason []Literal
	tmpLearnt []Literal

	unsatAtRoot bool
	solved      bool

	stats            Stats
	learnedSizeEMA   ema
	conflictTrailEMA ema

	rng *rand.Rand
}

const emaDecay = 0.95

// Stats holds the read-only running counters exposed by §6.3, plus two
// EMA-smoothed observational averages that never feed back into the
// solver's decisions (§4.5 expansion).
type Stats struct {
	Decisions      int64
	Propagations   int64
	CheckedClauses int64
	Conflicts      int64
	Restarts       int64

	AvgLearnedClauseSize float64
	AvgConflictTrailSize float64
}

// restartSentinel is returned as a backjump level by analyze to signal that
// the conflict budget was exceeded and the driver should restart instead of
// backjumping.
const restartSentinel = -2

// unsatSentinel is returned as a backjump level by analyze to signal the
// formula is UNSAT (a conflict was derived at decision level 0).
const unsatSentinel = -1

// NewSolver returns an empty solver. Callers add variables and clauses with
// AddVariable/AddClause before calling Solve, mirroring the incremental
// construction used by the DIMACS ingestion package.
func NewSolver(opts Options) *Solver {
	return &Solver{
		opts:             opts,
		assumptions:      opts.Assumptions,
		seenVar:          &ResetSet{},
		rng:              rand.New(rand.NewSource(opts.Seed)),
		learnedSizeEMA:   newEMA(emaDecay),
		conflictTrailEMA: newEMA(emaDecay),
	}
}

// NewDefaultSolver returns a solver with VSIDS decisions, no restarts, and
// no learned-clause deletion.
func NewDefaultSolver() *Solver {
	return NewSolver(Options{Heuristic: VSIDS})
}

// New builds a solver over nVars variables and loads clauses, matching the
// library surface of §6.3: new(clauses, restart_policy, deletion_policy,
// decision_heuristic, assumptions) -> Solver.
func New(nVars int, clauses [][]Literal, opts Options) (*Solver, error) {
	s := NewSolver(opts)
	for i := 0; i < nVars; i++ {
		s.AddVariable()
	}
	for _, c := range clauses {
		if err := s.AddClause(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Solver) NumVariables() int   { return s.nVars }
func (s *Solver) NumAssigns() int     { return len(s.trail) }
func (s *Solver) NumConstraints() int { return s.numOriginal }
func (s *Solver) NumLearnts() int {
	n := 0
	for _, c := range s.clauses {
		if c.isLearnt() {
			n++
		}
	}
	return n
}
func (s *Solver) VarValue(v int) LBool     { return s.assigns[PositiveLiteral(v)] }
func (s *Solver) LitValue(l Literal) LBool { return s.assigns[l] }
func (s *Solver) decisionLevel() int       { return len(s.trailLim) }

// Clauses returns the literals of every clause currently in the database
// (original and learned, excluding anything already deleted), in id order.
// Unit clauses, and clauses already satisfied at decision level 0 when they
// were added, are not part of the database and are not returned.
// Used by internal/backbone to reuse a solved instance's learned clauses as
// extra input to each probe, per backbones.py's solver.clauses reuse.
func (s *Solver) Clauses() [][]Literal {
	out := make([][]Literal, 0, len(s.clauses))
	for _, c := range s.clauses {
		if c.status&statusDeleted != 0 {
			continue
		}
		out = append(out, append([]Literal(nil), c.literals...))
	}
	return out
}

// Decisions, Propagations, CheckedClauses, Conflicts and Restarts expose the
// read-only counters of §6.3.
func (s *Solver) Decisions() int64      { return s.stats.Decisions }
func (s *Solver) Propagations() int64   { return s.stats.Propagations }
func (s *Solver) CheckedClauses() int64 { return s.stats.CheckedClauses }
func (s *Solver) Conflicts() int64      { return s.stats.Conflicts }
func (s *Solver) Restarts() int64       { return s.stats.Restarts }

// AddVariable registers one more boolean variable and returns its ID.
func (s *Solver) AddVariable() int {
	v := s.nVars
	s.nVars++
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.level = append(s.level, -1)
	s.reason = append(s.reason, nil)
	s.trailPos = append(s.trailPos, -1)
	s.watcherHeads = append(s.watcherHeads, nil, nil)
	s.seenVar.Expand()
	return v
}

// AddClause adds an original clause. It must only be called at decision
// level 0, i.e. before the first Solve.
func (s *Solver) AddClause(lits []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddClause called at decision level %d, want 0", s.decisionLevel())
	}
	if len(lits) == 0 {
		return fmt.Errorf("sat: empty clause")
	}
	tmp := append([]Literal(nil), lits...)
	c, ok := NewClause(s, tmp, false)
	if c != nil {
		c.id = len(s.clauses)
		s.clauses = append(s.clauses, c)
		s.numOriginal++
	}
	if !ok {
		s.unsatAtRoot = true
	}
	return nil
}

func (s *Solver) watch(c *Clause, on Literal, guard Literal) {
	s.watcherHeads[on] = append(s.watcherHeads[on], watcher{clause: c, guard: guard})
}

func (s *Solver) unwatch(c *Clause, on Literal) {
	ws := s.watcherHeads[on]
	j := 0
	for i := range ws {
		if ws[i].clause != c {
			ws[j] = ws[i]
			j++
		}
	}
	s.watcherHeads[on] = ws[:j]
}

// enqueue records l as true (from antecedent clause `from`, or as a
// decision if from is nil) and schedules it for propagation. It returns
// false if l is already falsified (a conflicting assignment).
func (s *Solver) enqueue(l Literal, from *Clause) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	}
	v := l.VarID()
	s.assigns[l] = True
	s.assigns[l.Opposite()] = False
	s.level[v] = s.decisionLevel()
	s.reason[v] = from
	s.trailPos[v] = len(s.trail)
	s.trail = append(s.trail, l)
	if s.pending != nil {
		s.pending.Push(l)
	}
	return true
}

// propagate drains the pending queue via the two-watched-literal scheme of
// §4.2, returning the first conflicting clause encountered, or nil.
func (s *Solver) propagate() *Clause {
	var tmp []watcher
	for s.pending.Size() > 0 {
		l := s.pending.Pop()
		s.stats.Propagations++

		tmp = append(tmp[:0], s.watcherHeads[l]...)
		s.watcherHeads[l] = s.watcherHeads[l][:0]

		for i, w := range tmp {
			if s.LitValue(w.guard) == True {
				s.watcherHeads[l] = append(s.watcherHeads[l], w)
				continue
			}
			s.stats.CheckedClauses++
			if w.clause.propagate(s, l) {
				continue
			}
			s.watcherHeads[l] = append(s.watcherHeads[l], tmp[i+1:]...)
			s.pending.Clear()
			return tmp[i].clause
		}
	}
	return nil
}

// analyze derives the 1-UIP learned clause from the conflict clause confl,
// per §4.4. It returns (backjump level, learned clause literals, asserting
// literal). A backjump level of unsatSentinel means the formula is UNSAT; a
// backjump level of restartSentinel means the conflict budget was exceeded
// and the driver should restart instead.
func (s *Solver) analyze(confl *Clause) (int, []Literal, Literal) {
	s.stats.Conflicts++
	s.conflictTrailEMA.add(float64(len(s.trail)))
	s.stats.AvgConflictTrailSize = s.conflictTrailEMA.val()
	if !s.restart.unbounded() {
		windowConflicts := int(s.stats.Conflicts) - s.conflictsAtWindowStart
		if s.restart.exceeded(windowConflicts) {
			return restartSentinel, nil, 0
		}
	}

	s.tmpLearnt = append(s.tmpLearnt[:0], 0) // placeholder for the UIP literal
	s.seenVar.Clear()

	nImplicationPoints := 0
	backjumpLevel := 0
	cursor := len(s.trail) - 1
	l := Literal(-1)

	for {
		reasonLits := s.explain(confl, l)
		for _, q := range reasonLits {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)
			if s.level[v] == s.decisionLevel() {
				nImplicationPoints++
				continue
			}
			s.tmpLearnt = append(s.tmpLearnt, q.Opposite())
			if lvl := s.level[v]; lvl > backjumpLevel {
				backjumpLevel = lvl
			}
		}

		for {
			l = s.trail[cursor]
			cursor--
			v := l.VarID()
			confl = s.reason[v]
			if s.seenVar.Contains(v) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnt[0] = l.Opposite()
	learned := append([]Literal(nil), s.tmpLearnt...)

	if len(learned) == 1 {
		if s.decisionLevel() == 0 {
			return unsatSentinel, nil, 0
		}
		return 0, learned, learned[0]
	}
	return backjumpLevel, learned, l.Opposite()
}

// explain returns the antecedent literals that justify l becoming false (or,
// when l == -1, the literals that make confl itself a conflict).
func (s *Solver) explain(confl *Clause, l Literal) []Literal {
	s.tmpReason = s.tmpReason[:0]
	if l == -1 {
		s.tmpReason = confl.explainConflict(s.tmpReason)
	} else {
		s.tmpReason = confl.explainAssign(s.tmpReason)
	}
	if confl.isLearnt() {
		s.bumpClauseActivity(confl)
	}
	return s.tmpReason
}

const clauseActivityIncrement = 1.0

func (s *Solver) bumpClauseActivity(c *Clause) {
	c.activity += clauseActivityIncrement
}

// record adds a newly learned clause to the database and asserts its unit
// consequence.
func (s *Solver) record(lits []Literal) {
	c, _ := NewClause(s, lits, true)
	if c != nil {
		c.id = len(s.clauses)
		s.clauses = append(s.clauses, c)
	}
	s.enqueue(lits[0], c)
	s.heuristic.onLearned(lits)
	s.learnedSizeEMA.add(float64(len(lits)))
	s.stats.AvgLearnedClauseSize = s.learnedSizeEMA.val()
}

// backjump undoes trail entries above level b, per §4.6. Watches are left
// untouched: a watch pointer stays valid as long as its literal is not
// false, which backjumping (only ever un-assigning) preserves.
func (s *Solver) backjump(b int) {
	for s.decisionLevel() > b {
		s.undoLastDecisionBlock()
	}
	if s.assumptionIdx > b {
		s.assumptionIdx = b
	}
}

func (s *Solver) undoLastDecisionBlock() {
	target := s.trailLim[len(s.trailLim)-1]
	for len(s.trail) > target {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = nil
	s.level[v] = -1
	s.trailPos[v] = -1
	s.trail = s.trail[:len(s.trail)-1]
	s.heuristic.onUnassign(v)
}

// assume pushes a new decision level and enqueues l as a decision.
func (s *Solver) assume(l Literal) {
	s.trailLim = append(s.trailLim, len(s.trail))
	s.enqueue(l, nil)
	s.stats.Decisions++
}

// pickDecision returns the next decision literal: any unconsumed assumption
// first (§4.3 — taken from the last supplied to the first, skipping those
// already assigned), then the configured heuristic. A backjump to level b
// rewinds the number of consumed assumptions to at most b.
func (s *Solver) pickDecision() (Literal, bool) {
	for s.assumptionIdx < len(s.assumptions) {
		l := s.assumptions[len(s.assumptions)-1-s.assumptionIdx]
		s.assumptionIdx++
		if s.VarValue(l.VarID()) == Unknown {
			return l, true
		}
	}
	return s.heuristic.pick(s)
}

// Solve runs the main loop of §4.7 to completion and returns the satisfying
// trail, or nil if the formula is UNSAT. Calling Solve a second time on the
// same instance is a precondition violation (§7) and returns an error.
func (s *Solver) Solve() ([]Literal, error) {
	if s.solved {
		return nil, fmt.Errorf("sat: Solve called twice on the same instance")
	}
	s.solved = true

	if s.unsatAtRoot {
		return nil, nil
	}

	s.restart = newRestartSchedule(s.opts.Restart)
	s.deletionBaseline = s.numOriginal
	s.conflictsAtWindowStart = 0
	s.heuristic = newHeuristic(s.opts.Heuristic, s.nVars, s.rng)
	s.pending = NewQueue[Literal](128)

	s.initSearchState()

	for {
		model, restart := s.search()
		if model != nil {
			return model, nil
		}
		if !restart {
			return nil, nil // UNSAT
		}
		s.doRestart()
		if s.unsatAtRoot {
			return nil, nil
		}
	}
}

// initSearchState (re)builds the watch index, per-variable state, and
// heuristic from the current (possibly deletion-trimmed) clause list. It is
// invoked once before the first search and again after every restart.
func (s *Solver) initSearchState() {
	// Literals fixed at decision level 0 (unit clauses and their root-level
	// consequences) are not stored as clauses: carry them over so they are
	// asserted again once the clause list is rebuilt.
	var units []Literal
	for _, l := range s.trail {
		if s.level[l.VarID()] == 0 {
			units = append(units, l)
		}
	}

	s.trail = s.trail[:0]
	s.trailLim = s.trailLim[:0]
	s.assumptionIdx = 0

	for v := 0; v < s.nVars; v++ {
		s.assigns[PositiveLiteral(v)] = Unknown
		s.assigns[NegativeLiteral(v)] = Unknown
		s.level[v] = -1
		s.reason[v] = nil
		s.trailPos[v] = -1
		s.watcherHeads[PositiveLiteral(v)] = nil
		s.watcherHeads[NegativeLiteral(v)] = nil
	}

	existing := s.clauses
	s.clauses = make([]*Clause, 0, len(existing))

	literalLists := make([][]Literal, 0, len(existing))

	s.pending = NewQueue[Literal](128)

	for _, c := range existing {
		lits := append([]Literal(nil), c.literals...)
		literalLists = append(literalLists, lits)

		newC, ok := NewClause(s, append([]Literal(nil), lits...), c.isLearnt())
		if !ok {
			s.unsatAtRoot = true
			continue
		}
		if newC == nil {
			if len(lits) == 1 {
				units = append(units, lits[0])
			}
			continue
		}
		newC.id = len(s.clauses)
		s.clauses = append(s.clauses, newC)
	}

	s.heuristic.initialize(literalLists)

	for _, u := range units {
		s.enqueue(u, nil)
	}
}

// search runs the propagate/decide loop until SAT, UNSAT, or the restart
// budget is exceeded. It returns (model, false) on SAT/UNSAT and (nil, true)
// if a restart is requested.
func (s *Solver) search() ([]Literal, bool) {
	for {
		if conflict := s.propagate(); conflict != nil {
			if s.decisionLevel() == 0 {
				s.unsatAtRoot = true
				return nil, false
			}

			level, learned, _ := s.analyze(conflict)
			switch level {
			case unsatSentinel:
				s.unsatAtRoot = true
				return nil, false
			case restartSentinel:
				return nil, true
			}

			s.backjump(level)
			s.record(learned)
			continue
		}

		l, ok := s.pickDecision()
		if !ok {
			return append([]Literal(nil), s.trail...), false
		}
		s.assume(l)
	}
}

// doRestart applies the configured deletion policy to the learned clauses,
// advances the restart schedule, and reinitializes all per-search state, per
// §4.5: the clause list (possibly trimmed) and the restart/Luby counters
// survive; everything else is rebuilt from scratch.
func (s *Solver) doRestart() {
	s.restartsTaken++
	s.stats.Restarts++
	s.applyDeletion(s.opts.Deletion, s.restartsTaken)
	s.deletionBaseline = len(s.clauses)
	s.restart.advance()
	s.conflictsAtWindowStart = int(s.stats.Conflicts)
	s.initSearchState()
}
