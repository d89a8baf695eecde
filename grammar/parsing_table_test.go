package grammar

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	verr "github.com/grackle-lang/grackle/error"
	"github.com/grackle-lang/grackle/spec"
)

func TestCompiledTableIsWellFormed(t *testing.T) {
	gram := buildTestGrammar(t, testExprGrammar())
	cgram, report, err := Compile(gram)
	if err != nil {
		t.Fatalf("failed to compile a grammar: %v", err)
	}
	if report == nil {
		t.Fatalf("Compile must return a report")
	}

	tab := cgram.ParsingTable
	prodCount := len(tab.LHSSymbols)

	// Every non-empty action cell points to a valid state or production,
	// and every non-empty goto cell points to a valid state.
	for state := 0; state < tab.StateCount; state++ {
		for term := 0; term < tab.TerminalCount; term++ {
			act := tab.Action[state*tab.TerminalCount+term]
			switch {
			case act < 0:
				if act*-1 >= tab.StateCount {
					t.Errorf("a shift action points to an invalid state; state: %v, terminal: %v, target: %v", state, term, act*-1)
				}
			case act > 0:
				if act >= prodCount {
					t.Errorf("a reduce action points to an invalid production; state: %v, terminal: %v, production: %v", state, term, act)
				}
			}
		}
		for nt := 0; nt < tab.NonTerminalCount; nt++ {
			g := tab.GoTo[state*tab.NonTerminalCount+nt]
			if g < 0 || g >= tab.StateCount {
				t.Errorf("a goto cell points to an invalid state; state: %v, non-terminal: %v, target: %v", state, nt, g)
			}
		}
	}

	// Exactly one state accepts: its EOF cell reduces the start production.
	acceptCount := 0
	for state := 0; state < tab.StateCount; state++ {
		if tab.Action[state*tab.TerminalCount+tab.EOFSymbol] == tab.StartProduction {
			acceptCount++
		}
	}
	if acceptCount != 1 {
		t.Errorf("exactly one state must accept; got: %v", acceptCount)
	}

	// The augmented production has arity 1.
	if tab.AlternativeSymbolCounts[tab.StartProduction] != 1 {
		t.Errorf("the start production must have exactly one body symbol; got: %v", tab.AlternativeSymbolCounts[tab.StartProduction])
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	compileOnce := func() []byte {
		t.Helper()

		gram := buildTestGrammar(t, testExprGrammar())
		cgram, _, err := Compile(gram)
		if err != nil {
			t.Fatalf("failed to compile a grammar: %v", err)
		}
		b, err := json.Marshal(cgram)
		if err != nil {
			t.Fatalf("failed to marshal a compiled grammar: %v", err)
		}
		return b
	}

	first := compileOnce()
	for i := 0; i < 3; i++ {
		if got := compileOnce(); !bytes.Equal(first, got) {
			t.Fatalf("repeated compilations must yield identical tables")
		}
	}
}

// The assignment grammar separates the classes: SLR(1) reduces R → L on
// every symbol in FOLLOW(R) and collides with the shift of `eq`, while
// LALR(1) look-aheads stay conflict-free.
func TestClassSeparation(t *testing.T) {
	assignment := func() *spec.Grammar {
		return &spec.Grammar{
			Name: "assignment",
			Terminals: []*spec.Terminal{
				testLiteral("eq", "="),
				testLiteral("ref", "*"),
				testTerm("id", "[A-Za-z0-9_]+"),
			},
			NonTerminals: testNonTerm("s", "l", "r"),
			Start:        "s",
			Productions: []*spec.Production{
				testProd("P1", "s", "l", "eq", "r"),
				testProd("P2", "s", "r"),
				testProd("P3", "l", "ref", "r"),
				testProd("P4", "l", "id"),
				testProd("P5", "r", "l"),
			},
		}
	}

	cgram, _, err := Compile(buildTestGrammar(t, assignment()))
	if err != nil {
		t.Fatalf("LALR(1) must compile the assignment grammar: %v", err)
	}
	if cgram.ParsingTable.Class != string(ClassLALR) {
		t.Errorf("unexpected class; want: %v, got: %v", ClassLALR, cgram.ParsingTable.Class)
	}

	_, _, err = Compile(buildTestGrammar(t, assignment()), SpecifyClass(ClassSLR))
	if err == nil {
		t.Fatalf("SLR(1) must report a shift/reduce conflict on the assignment grammar")
	}
	var specErrs verr.SpecErrors
	if !errors.As(err, &specErrs) {
		t.Fatalf("unexpected error type: %T: %v", err, err)
	}
	found := false
	for _, specErr := range specErrs {
		if specErr.Cause == semErrShiftReduceConflict {
			found = true
		}
	}
	if !found {
		t.Errorf("a shift/reduce conflict must be reported; got: %v", specErrs)
	}

	cgram, _, err = Compile(buildTestGrammar(t, testExprGrammar()), SpecifyClass(ClassSLR))
	if err != nil {
		t.Fatalf("SLR(1) must compile the expression grammar: %v", err)
	}
	if cgram.ParsingTable.Class != string(ClassSLR) {
		t.Errorf("unexpected class; want: %v, got: %v", ClassSLR, cgram.ParsingTable.Class)
	}
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		caption string
		grammar *spec.Grammar
		causes  []error
	}{
		{
			// The dangling-else grammar has a shift/reduce conflict on
			// `else` in the state holding both if-items.
			caption: "shift/reduce conflict",
			grammar: &spec.Grammar{
				Name: "dangling_else",
				Terminals: []*spec.Terminal{
					testLiteral("kw_if", "if"),
					testLiteral("kw_else", "else"),
					testLiteral("cond", "c"),
				},
				NonTerminals: testNonTerm("stmt", "expr"),
				Start:        "stmt",
				Productions: []*spec.Production{
					testProd("P1", "stmt", "kw_if", "expr"),
					testProd("P2", "stmt", "kw_if", "expr", "kw_else", "stmt"),
					testProd("P3", "expr", "cond"),
				},
			},
			causes: []error{semErrShiftReduceConflict},
		},
		{
			caption: "reduce/reduce conflict",
			grammar: &spec.Grammar{
				Name: "rr",
				Terminals: []*spec.Terminal{
					testLiteral("a", "a"),
				},
				NonTerminals: testNonTerm("s", "x", "y"),
				Start:        "s",
				Productions: []*spec.Production{
					testProd("P1", "s", "x"),
					testProd("P2", "s", "y"),
					testProd("P3", "x", "a"),
					testProd("P4", "y", "a"),
				},
			},
			causes: []error{semErrReduceReduceConflict},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildTestGrammar(t, tt.grammar)
			cgram, report, err := Compile(gram)
			if err == nil {
				t.Fatalf("compilation must fail")
			}
			if cgram != nil {
				t.Fatalf("no compiled grammar must be returned on conflicts")
			}
			if report == nil {
				t.Fatalf("the report must be returned even on conflicts")
			}

			var specErrs verr.SpecErrors
			if !errors.As(err, &specErrs) {
				t.Fatalf("unexpected error type: %T: %v", err, err)
			}
			for _, cause := range tt.causes {
				found := false
				for _, specErr := range specErrs {
					if specErr.Cause == cause {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("an expected cause was not reported; want: %v, got: %v", cause, specErrs)
				}
			}
		})
	}
}

func TestDanglingElseConflictDetail(t *testing.T) {
	gram := buildTestGrammar(t, &spec.Grammar{
		Name: "dangling_else",
		Terminals: []*spec.Terminal{
			testLiteral("kw_if", "if"),
			testLiteral("kw_else", "else"),
			testLiteral("cond", "c"),
		},
		NonTerminals: testNonTerm("stmt", "expr"),
		Start:        "stmt",
		Productions: []*spec.Production{
			testProd("P1", "stmt", "kw_if", "expr"),
			testProd("P2", "stmt", "kw_if", "expr", "kw_else", "stmt"),
			testProd("P3", "expr", "cond"),
		},
	})

	_, report, err := Compile(gram)
	if err == nil {
		t.Fatalf("compilation must fail")
	}

	// The report names the conflict trigger: the `kw_else` terminal.
	elseNum := -1
	for _, term := range report.Terminals {
		if term != nil && term.Name == "kw_else" {
			elseNum = term.Number
		}
	}
	if elseNum < 0 {
		t.Fatalf("terminal kw_else was not found in the report")
	}

	found := false
	for _, state := range report.States {
		for _, c := range state.SRConflict {
			if c.Symbol == elseNum {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("a shift/reduce conflict on kw_else must be reported")
	}
}
