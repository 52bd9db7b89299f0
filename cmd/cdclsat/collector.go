package main

import "github.com/kdhart/cdclsat/internal/sat"

// collector implements dimacs.Writer by recording the instance instead of
// feeding a live solver, for subcommands (dpll, backbone) that need the
// clause list as a value rather than a running *sat.Solver.
type collector struct {
	nVars   int
	clauses [][]sat.Literal
}

func (c *collector) AddVariable() int {
	v := c.nVars
	c.nVars++
	return v
}

func (c *collector) AddClause(lits []sat.Literal) error {
	c.clauses = append(c.clauses, append([]sat.Literal(nil), lits...))
	return nil
}

func parseRestart(s string) (sat.RestartPolicyKind, error) {
	switch s {
	case "none", "":
		return sat.NoRestart, nil
	case "geometric":
		return sat.Geometric, nil
	case "luby":
		return sat.Luby, nil
	default:
		return 0, unknownFlagValue("restart", s)
	}
}

func parseDeletion(s string) (sat.DeletionPolicyKind, error) {
	switch s {
	case "none", "":
		return sat.KeepAll, nil
	case "short":
		return sat.Short, nil
	case "lbd":
		return sat.LBD, nil
	case "active":
		return sat.Active, nil
	default:
		return 0, unknownFlagValue("deletion", s)
	}
}

func parseHeuristic(s string) (sat.HeuristicKind, error) {
	switch s {
	case "random":
		return sat.Random, nil
	case "most-common":
		return sat.MostCommon, nil
	case "jeroslow-wang", "":
		return sat.JeroslowWang, nil
	case "vsids":
		return sat.VSIDS, nil
	default:
		return 0, unknownFlagValue("heuristic", s)
	}
}

func unknownFlagValue(flag, value string) error {
	return &flagError{flag: flag, value: value}
}

type flagError struct {
	flag, value string
}

func (e *flagError) Error() string {
	return "unknown value " + e.value + " for --" + e.flag
}
