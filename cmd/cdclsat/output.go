package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kdhart/cdclsat/internal/sat"
)

// formatModel renders a model as DIMACS-style signed integers, sorted by
// variable id for readability.
func formatModel(model []sat.Literal) string {
	sorted := append([]sat.Literal(nil), model...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VarID() < sorted[j].VarID() })

	parts := make([]string, len(sorted))
	for i, l := range sorted {
		v := l.VarID() + 1
		if !l.IsPositive() {
			v = -v
		}
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, " ")
}

func printStats(s *sat.Solver) {
	fmt.Printf("c decisions:    %d\n", s.Decisions())
	fmt.Printf("c propagations: %d\n", s.Propagations())
	fmt.Printf("c checked:      %d\n", s.CheckedClauses())
	fmt.Printf("c conflicts:    %d\n", s.Conflicts())
	fmt.Printf("c restarts:     %d\n", s.Restarts())
}
