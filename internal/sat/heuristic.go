package sat

import (
	"math"
	"math/rand"

	"github.com/rhartert/yagh"
)

// HeuristicKind selects one of the decision heuristic variants of §4.3.
type HeuristicKind int

const (
	// Random picks uniformly among unassigned literals, both polarities of
	// a variable considered distinct candidates.
	Random HeuristicKind = iota
	// MostCommon scores a literal by how many clauses currently contain it.
	MostCommon
	// JeroslowWang scores a literal by sum of 2^-|C| over clauses C containing it.
	JeroslowWang
	// VSIDS scores a literal by occurrence count, periodically halved.
	VSIDS
)

// heuristic is the decision-heuristic interface shared by all variants: it
// is told about the initial clause set and every learned clause, and is
// asked to pick the next decision literal.
type heuristic interface {
	initialize(clauses [][]Literal)
	onLearned(clause []Literal)
	pick(s *Solver) (Literal, bool)
	onUnassign(v int)
}

// newHeuristic returns the heuristic implementation for kind, sized for
// nVars variables.
func newHeuristic(kind HeuristicKind, nVars int, rng *rand.Rand) heuristic {
	switch kind {
	case Random:
		return newRandomHeuristic(nVars, rng)
	case MostCommon:
		return newScoredHeuristic(nVars, mostCommonScorer{})
	case JeroslowWang:
		return newScoredHeuristic(nVars, jeroslowWangScorer{})
	case VSIDS:
		return newScoredHeuristic(nVars, vsidsScorer{})
	default:
		return newScoredHeuristic(nVars, vsidsScorer{})
	}
}

// ---------------------------------------------------------------------
// random
// ---------------------------------------------------------------------

type randomHeuristic struct {
	nVars int
	rng   *rand.Rand
}

func newRandomHeuristic(nVars int, rng *rand.Rand) *randomHeuristic {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &randomHeuristic{nVars: nVars, rng: rng}
}

func (h *randomHeuristic) initialize(_ [][]Literal) {}
func (h *randomHeuristic) onLearned(_ []Literal)    {}
func (h *randomHeuristic) onUnassign(_ int)         {}

func (h *randomHeuristic) pick(s *Solver) (Literal, bool) {
	candidates := make([]Literal, 0, 2*h.nVars)
	for v := 0; v < h.nVars; v++ {
		if s.VarValue(v) != Unknown {
			continue
		}
		candidates = append(candidates, PositiveLiteral(v), NegativeLiteral(v))
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[h.rng.Intn(len(candidates))], true
}

// ---------------------------------------------------------------------
// score-based: most_common, Jeroslow-Wang, VSIDS
// ---------------------------------------------------------------------

// scorer computes the per-literal score contribution of a clause, and the
// update applied whenever a clause is learned.
type scorer interface {
	// initScore returns the score increment literal l gets from clause c at
	// initialization.
	initScore(c []Literal, l Literal) float64
	// learnedScore returns the score increment applied to l when c is
	// learned and contains l.
	learnedScore(c []Literal, l Literal) float64
	// decay reports the multiplicative decay applied to every score after
	// each learned clause (1 for no decay).
	decay() float64
}

type mostCommonScorer struct{}

func (mostCommonScorer) initScore(_ []Literal, _ Literal) float64    { return 1 }
func (mostCommonScorer) learnedScore(_ []Literal, _ Literal) float64 { return 1 }
func (mostCommonScorer) decay() float64                              { return 1 }

type jeroslowWangScorer struct{}

func (jeroslowWangScorer) initScore(c []Literal, _ Literal) float64 {
	return math.Pow(2, -float64(len(c)))
}
func (jeroslowWangScorer) learnedScore(c []Literal, _ Literal) float64 {
	return math.Pow(2, -float64(len(c)))
}
func (jeroslowWangScorer) decay() float64 { return 1 }

type vsidsScorer struct{}

func (vsidsScorer) initScore(_ []Literal, _ Literal) float64    { return 1 }
func (vsidsScorer) learnedScore(_ []Literal, _ Literal) float64 { return 1 }
func (vsidsScorer) decay() float64                              { return 0.5 }

// scoredHeuristic maintains one score per literal and selects the
// highest-scoring unassigned one via a binary heap. Ties between variables
// are broken by whichever one the heap pops first (Design Notes §9 open
// question: tests must tolerate this order).
type scoredHeuristic struct {
	scorer  scorer
	scores  []float64 // indexed by Literal
	order   *yagh.IntMap[float64]
	present []bool
}

func newScoredHeuristic(nVars int, sc scorer) *scoredHeuristic {
	order := yagh.New[float64](0)
	order.GrowBy(nVars)
	return &scoredHeuristic{
		scorer:  sc,
		scores:  make([]float64, 2*nVars),
		order:   order,
		present: make([]bool, nVars),
	}
}

func (h *scoredHeuristic) bestLiteralScore(v int) (Literal, float64) {
	pos, neg := h.scores[PositiveLiteral(v)], h.scores[NegativeLiteral(v)]
	if neg > pos {
		return NegativeLiteral(v), neg
	}
	return PositiveLiteral(v), pos
}

func (h *scoredHeuristic) initialize(clauses [][]Literal) {
	for l := range h.scores {
		h.scores[l] = 0
	}
	for _, c := range clauses {
		for _, l := range c {
			h.scores[l] += h.scorer.initScore(c, l)
		}
	}
	for v := range h.present {
		_, best := h.bestLiteralScore(v)
		h.order.Put(v, -best)
		h.present[v] = true
	}
}

func (h *scoredHeuristic) onLearned(clause []Literal) {
	for _, l := range clause {
		h.scores[l] += h.scorer.learnedScore(clause, l)
	}
	if d := h.scorer.decay(); d != 1 {
		for l := range h.scores {
			h.scores[l] *= d
		}
	}
	for v := range h.present {
		if !h.present[v] || !h.order.Contains(v) {
			continue
		}
		_, best := h.bestLiteralScore(v)
		h.order.Put(v, -best)
	}
}

func (h *scoredHeuristic) onUnassign(v int) {
	if h.order.Contains(v) {
		return
	}
	_, best := h.bestLiteralScore(v)
	h.order.Put(v, -best)
}

func (h *scoredHeuristic) pick(s *Solver) (Literal, bool) {
	for {
		next, ok := h.order.Pop()
		if !ok {
			return 0, false
		}
		v := next.Elem
		if s.VarValue(v) != Unknown {
			continue
		}
		lit, _ := h.bestLiteralScore(v)
		return lit, true
	}
}
