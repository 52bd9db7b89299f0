package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kdhart/cdclsat/internal/dimacs"
	"github.com/kdhart/cdclsat/internal/propositional"
	"github.com/kdhart/cdclsat/internal/sat"
)

func newTseitinCmd() *cobra.Command {
	var (
		implicationsOnly bool
		solve            bool
	)

	cmd := &cobra.Command{
		Use:   "tseitin <formula>",
		Short: "Tseitin-encode a prefix-notation propositional formula to CNF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			formula, err := propositional.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing formula: %w", err)
			}

			clauses := formula.Clauses(implicationsOnly)
			root := formula.RootVariable()
			clauses = append(clauses, []sat.Literal{literalFromSigned(root)})

			names := formula.OriginalVariables()
			printMapping(names, formula.AuxiliaryVariables(), root)

			if !solve {
				return dimacs.WriteDIMACS(os.Stdout, formula.NumVariables(), clauses)
			}

			s, err := sat.New(formula.NumVariables(), clauses, sat.Options{Heuristic: sat.JeroslowWang})
			if err != nil {
				return err
			}
			model, err := s.Solve()
			if err != nil {
				return err
			}
			if model == nil {
				fmt.Println("s UNSATISFIABLE")
				return nil
			}
			fmt.Println("s SATISFIABLE")
			printDecodedModel(model, names)
			return nil
		},
	}

	cmd.Flags().BoolVar(&implicationsOnly, "implications-only", false, "emit only the left-to-right implication half of each Tseitin equivalence")
	cmd.Flags().BoolVar(&solve, "solve", false, "solve the encoding and print the assignment projected back onto original variable names")

	return cmd
}

func literalFromSigned(v int) sat.Literal {
	if v < 0 {
		return sat.NegativeLiteral(-v - 1)
	}
	return sat.PositiveLiteral(v - 1)
}

func printMapping(names map[string]int, aux []int, root int) {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("c")
	fmt.Println("c Mapping from original variables to numbers:")
	for _, k := range keys {
		fmt.Printf("c   %s -> %d\n", k, names[k])
	}
	fmt.Println("c List of auxiliary variables:")
	fmt.Printf("c   %v\n", aux)
	fmt.Printf("c Variable corresponding to root node: %d\n", root)
	fmt.Println("c")
}

// printDecodedModel recovers original_source/cdcl.py's
// decoded_assignment_pos/decoded_assignment_neg split: original variable
// names whose literal is true, then names whose literal is false (prefixed
// with a minus sign).
func printDecodedModel(model []sat.Literal, names map[string]int) {
	trueVars := map[int]bool{}
	for _, l := range model {
		if l.IsPositive() {
			trueVars[l.VarID()+1] = true
		}
	}

	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pos, neg []string
	for _, k := range keys {
		if trueVars[names[k]] {
			pos = append(pos, k)
		} else {
			neg = append(neg, "-"+k)
		}
	}
	fmt.Printf("v %v %v\n", pos, neg)
}
