package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdhart/cdclsat/internal/dimacs"
	"github.com/kdhart/cdclsat/internal/dpll"
)

func newDPLLCmd() *cobra.Command {
	var heuristics bool

	cmd := &cobra.Command{
		Use:   "dpll <instance.cnf>",
		Short: "Run the naive DPLL comparison solver on a DIMACS CNF instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &collector{}
			if err := dimacs.Load(args[0], false, c); err != nil {
				return fmt.Errorf("loading instance: %w", err)
			}

			s := dpll.New(c.nVars, c.clauses, heuristics)

			start := time.Now()
			model, ok := s.Solve()
			elapsed := time.Since(start)

			stats := s.Stats()
			fmt.Printf("c time:             %s\n", elapsed)
			fmt.Printf("c decisions:        %d\n", stats.Decisions)
			fmt.Printf("c unit propagation: %d\n", stats.UnitPropagations)
			fmt.Printf("c checked clauses:  %d\n", stats.CheckedClauses)

			if !ok {
				fmt.Println("s UNSATISFIABLE")
				return nil
			}
			fmt.Println("s SATISFIABLE")
			fmt.Printf("v %s 0\n", formatModel(model))
			return nil
		},
	}

	cmd.Flags().BoolVar(&heuristics, "heuristics", false, "use the shortest-unsatisfied-clause decision heuristic instead of first-unassigned-variable")

	return cmd
}
