package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	verr "github.com/grackle-lang/grackle/error"
	"github.com/grackle-lang/grackle/grammar"
	"github.com/grackle-lang/grackle/spec"
)

var compileFlags = struct {
	output *string
	class  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar definition into a parsing table",
		Example: `  grackle compile grammar.json -o grammar-compiled.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.class = cmd.Flags().String("class", "lalr", "parser class (lalr or slr)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	b := grammar.Builder{
		Grammar: g,
	}
	gram, err := b.Build()
	if err != nil {
		return err
	}

	cgram, report, err := grammar.Compile(gram, grammar.SpecifyClass(grammar.Class(*compileFlags.class)))
	if err != nil {
		var specErrs verr.SpecErrors
		if errors.As(err, &specErrs) && report != nil {
			// Conflicts are construction errors, but the report still
			// describes the automaton they arose in.
			reportPath := reportFilePath(g.Name, *compileFlags.output)
			if werr := writeJSON(report, reportPath); werr == nil {
				fmt.Fprintf(os.Stderr, "the report was written to %v\n", reportPath)
			}
		}
		return err
	}

	err = writeJSON(cgram, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("cannot write the compiled grammar: %w", err)
	}
	err = writeJSON(report, reportFilePath(g.Name, *compileFlags.output))
	if err != nil {
		return fmt.Errorf("cannot write the report: %w", err)
	}

	return nil
}

func readGrammar(path string) (*spec.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar definition %s: %w", path, err)
	}
	defer f.Close()

	return spec.Parse(f)
}

func reportFilePath(gramName string, outPath string) string {
	dir := ""
	if outPath != "" {
		dir, _ = filepath.Split(outPath)
	}
	return filepath.Join(dir, gramName+"-report.json")
}

func writeJSON(v interface{}, path string) error {
	var w io.Writer
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))
	return nil
}
