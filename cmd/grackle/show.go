package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grackle-lang/grackle/spec"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a compilation report in a readable format",
		Example: `  grackle show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open the report %s: %w", args[0], err)
	}
	defer f.Close()

	report := &spec.Report{}
	err = json.NewDecoder(f).Decode(report)
	if err != nil {
		return fmt.Errorf("cannot parse the report: %w", err)
	}

	writeReport(os.Stdout, report)
	return nil
}

func writeReport(w io.Writer, report *spec.Report) {
	termName := func(num int) string {
		if num < len(report.Terminals) && report.Terminals[num] != nil {
			return report.Terminals[num].Name
		}
		return fmt.Sprintf("t%v", num)
	}
	nonTermName := func(num int) string {
		if num < len(report.NonTerminals) && report.NonTerminals[num] != nil {
			return report.NonTerminals[num].Name
		}
		return fmt.Sprintf("n%v", num)
	}
	symName := func(num int) string {
		if num < 0 {
			return nonTermName(num * -1)
		}
		return termName(num)
	}

	prodToString := func(prod *spec.ProductionDesc, dot int) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
		for n, sym := range prod.RHS {
			if n == dot {
				fmt.Fprintf(&b, " ・")
			}
			fmt.Fprintf(&b, " %v", symName(sym))
		}
		if dot == len(prod.RHS) {
			fmt.Fprintf(&b, " ・")
		}
		return b.String()
	}

	fmt.Fprintf(w, "# Terminals\n\n")
	for _, term := range report.Terminals {
		if term == nil {
			continue
		}
		if term.Pattern != "" {
			fmt.Fprintf(w, "%4v %v: %#v\n", term.Number, term.Name, term.Pattern)
		} else {
			fmt.Fprintf(w, "%4v %v\n", term.Number, term.Name)
		}
	}

	fmt.Fprintf(w, "\n# Productions\n\n")
	for _, prod := range report.Productions {
		if prod == nil {
			continue
		}
		fmt.Fprintf(w, "%4v %v\n", prod.Number, prodToString(prod, -1))
	}

	fmt.Fprintf(w, "\n# States\n\n")
	for _, state := range report.States {
		fmt.Fprintf(w, "state %v\n", state.Number)

		for _, item := range state.Kernel {
			prod := report.Productions[item.Production]
			fmt.Fprintf(w, "    %v\n", prodToString(prod, item.Dot))
		}
		fmt.Fprintf(w, "\n")

		for _, tran := range state.Shift {
			fmt.Fprintf(w, "    shift  %4v on %v\n", tran.State, termName(tran.Symbol))
		}
		for _, reduce := range state.Reduce {
			for _, la := range reduce.LookAhead {
				fmt.Fprintf(w, "    reduce %4v on %v\n", reduce.Production, termName(la))
			}
		}
		for _, tran := range state.GoTo {
			fmt.Fprintf(w, "    goto   %4v on %v\n", tran.State, nonTermName(tran.Symbol))
		}

		for _, c := range state.SRConflict {
			fmt.Fprintf(w, "    shift/reduce conflict (shift %v, reduce %v) on %v\n", c.State, c.Production, termName(c.Symbol))
		}
		for _, c := range state.RRConflict {
			fmt.Fprintf(w, "    reduce/reduce conflict (reduce %v and %v) on %v\n", c.Production1, c.Production2, termName(c.Symbol))
		}

		fmt.Fprintf(w, "\n")
	}
}
