package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grackle-lang/grackle/driver"
	"github.com/grackle-lang/grackle/spec"
)

var parseFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a text stream with a compiled grammar and print the syntax tree",
		Example: `  grackle parse grammar-compiled.json < src.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	ts, err := driver.NewTokenStream(cgram, src)
	if err != nil {
		return err
	}

	p, err := driver.NewParser(driver.NewGrammar(cgram), ts)
	if err != nil {
		return err
	}

	v, err := p.Parse()
	if err != nil {
		return err
	}

	if tree, ok := v.(*driver.Node); ok {
		driver.PrintTree(os.Stdout, tree)
	} else {
		fmt.Fprintf(os.Stdout, "%v\n", v)
	}

	return nil
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the compiled grammar %s: %w", path, err)
	}
	defer f.Close()

	cgram := &spec.CompiledGrammar{}
	err = json.NewDecoder(f).Decode(cgram)
	if err != nil {
		return nil, fmt.Errorf("cannot parse the compiled grammar: %w", err)
	}
	return cgram, nil
}
