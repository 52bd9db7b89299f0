package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdhart/cdclsat/internal/dimacs"
	"github.com/kdhart/cdclsat/internal/sat"
)

func newSolveCmd() *cobra.Command {
	var (
		restartFlag   string
		deletionFlag  string
		heuristicFlag string
		gzipped       bool
		seed          int64
		assumptions   []int
	)

	cmd := &cobra.Command{
		Use:   "solve <instance.cnf>",
		Short: "Run the CDCL engine on a DIMACS CNF instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restart, err := parseRestart(restartFlag)
			if err != nil {
				return err
			}
			deletion, err := parseDeletion(deletionFlag)
			if err != nil {
				return err
			}
			heuristic, err := parseHeuristic(heuristicFlag)
			if err != nil {
				return err
			}

			lits := make([]sat.Literal, len(assumptions))
			for i, a := range assumptions {
				if a == 0 {
					return fmt.Errorf("assumption literal cannot be 0")
				}
				if a < 0 {
					lits[i] = sat.NegativeLiteral(-a - 1)
				} else {
					lits[i] = sat.PositiveLiteral(a - 1)
				}
			}

			s := sat.NewSolver(sat.Options{
				Restart:     restart,
				Deletion:    deletion,
				Heuristic:   heuristic,
				Assumptions: lits,
				Seed:        seed,
			})
			if err := dimacs.Load(args[0], gzipped, s); err != nil {
				return fmt.Errorf("loading instance: %w", err)
			}

			start := time.Now()
			model, err := s.Solve()
			elapsed := time.Since(start)
			if err != nil {
				return err
			}

			fmt.Printf("c variables: %d\n", s.NumVariables())
			fmt.Printf("c clauses:   %d\n", s.NumConstraints())
			fmt.Printf("c time:      %s\n", elapsed)
			printStats(s)

			if model == nil {
				fmt.Println("s UNSATISFIABLE")
				return nil
			}
			fmt.Println("s SATISFIABLE")
			fmt.Printf("v %s 0\n", formatModel(model))
			return nil
		},
	}

	cmd.Flags().StringVar(&restartFlag, "restart", "none", "restart policy: none, geometric, luby")
	cmd.Flags().StringVar(&deletionFlag, "deletion", "none", "learned-clause deletion policy: none, short, lbd, active")
	cmd.Flags().StringVar(&heuristicFlag, "heuristic", "vsids", "decision heuristic: random, most-common, jeroslow-wang, vsids")
	cmd.Flags().BoolVar(&gzipped, "gzip", false, "treat the instance file as gzip-compressed")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the random heuristic")
	cmd.Flags().IntSliceVar(&assumptions, "assume", nil, "unit assumption literals (DIMACS signed integers)")

	return cmd
}
