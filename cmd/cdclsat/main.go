// Command cdclsat exposes the CDCL engine, the Tseitin encoder, the DPLL
// comparison solver and the backbone driver as cobra subcommands.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cdclsat",
		Short:         "CDCL SAT solver and companion tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSolveCmd())
	root.AddCommand(newTseitinCmd())
	root.AddCommand(newDPLLCmd())
	root.AddCommand(newBackboneCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.SetFlags(0)
		log.Fatal(err)
	}
}
