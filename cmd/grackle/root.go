package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "grackle",
	Short: "Generate a parsing table from a grammar and run it over inputs",
	Long: `grackle compiles a grammar definition into an LALR(1) (or SLR(1)) parsing
table and drives a shift/reduce parser with it. Grammars compiled without
semantic actions produce concrete syntax trees.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
