package sat

// RestartPolicyKind selects how the conflict budget between restarts grows
// (§4.5). The zero value, NoRestart, leaves the budget unbounded.
type RestartPolicyKind int

const (
	NoRestart RestartPolicyKind = iota
	Geometric
	Luby
)

// restartSchedule tracks the current conflict budget and advances it on
// every restart, per §4.5:
//
//   - geometric: budget starts at 4 and is multiplied by 1.5 on each restart.
//   - Luby: budget starts at 4 for the first window, then is 100 *
//     LubyTerm(i) for the i-th restart thereafter, matching
//     original_source/cdcl.py's CDCL_solver.__init__ (which sets
//     conflicts_maximum = 4 regardless of restart kind) and restart() (which
//     only substitutes the Luby-derived budget from the first restart on).
//   - none: budget is unbounded.
type restartSchedule struct {
	kind   RestartPolicyKind
	budget float64 // fractional for geometric; unused (0) for NoRestart
	luby   *lubyGenerator
}

const (
	geometricInitialBudget = 4.0
	geometricFactor        = 1.5
	lubyConstant           = 100
)

func newRestartSchedule(kind RestartPolicyKind) *restartSchedule {
	rs := &restartSchedule{kind: kind}
	switch kind {
	case Geometric:
		rs.budget = geometricInitialBudget
	case Luby:
		rs.luby = newLubyGenerator()
		rs.budget = geometricInitialBudget
	default:
		rs.budget = 0 // unbounded; checked via unbounded() below
	}
	return rs
}

func (rs *restartSchedule) unbounded() bool {
	return rs.kind == NoRestart
}

// exceeded reports whether conflicts (the number of conflicts seen in the
// current restart window, including the one about to be counted) has
// exceeded the current budget.
func (rs *restartSchedule) exceeded(conflicts int) bool {
	if rs.unbounded() {
		return false
	}
	return float64(conflicts) > rs.budget
}

// advance recomputes the budget for the next restart window.
func (rs *restartSchedule) advance() {
	switch rs.kind {
	case Geometric:
		rs.budget *= geometricFactor
	case Luby:
		rs.budget = float64(lubyConstant * rs.luby.next())
	}
}
