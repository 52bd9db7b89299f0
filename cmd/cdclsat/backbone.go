package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdhart/cdclsat/internal/backbone"
	"github.com/kdhart/cdclsat/internal/dimacs"
)

func newBackboneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backbone <instance.cnf>",
		Short: "Extract the backbone literals of a DIMACS CNF instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &collector{}
			if err := dimacs.Load(args[0], false, c); err != nil {
				return fmt.Errorf("loading instance: %w", err)
			}

			result, err := backbone.Find(c.nVars, c.clauses)
			if err != nil {
				return err
			}

			fmt.Printf("c solver runs: %d\n", result.SolverRuns)
			if result.UNSAT {
				fmt.Println("s UNSATISFIABLE")
				return nil
			}
			if len(result.Backbones) == 0 {
				fmt.Println("c no backbones exist")
				return nil
			}
			fmt.Printf("c %d backbones:\n", len(result.Backbones))
			fmt.Printf("v %s 0\n", formatModel(result.Backbones))
			return nil
		},
	}
	return cmd
}
