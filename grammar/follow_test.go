package grammar

import "testing"

type follow struct {
	nt      string
	symbols []string
	eof     bool
}

func TestFollowSet(t *testing.T) {
	gram := buildTestGrammar(t, testExprGrammar())
	genSym := newTestSymbolGenerator(t, gram.symbolTable)

	fst := newFirstSet(gram.productionSet)
	flw, err := genFollowSet(gram.productionSet, fst)
	if err != nil {
		t.Fatalf("failed to generate a FOLLOW set: %v", err)
	}

	follows := []follow{
		{nt: "expr'", symbols: []string{}, eof: true},
		{nt: "expr", symbols: []string{"add", "r_paren"}, eof: true},
		{nt: "term", symbols: []string{"add", "mul", "r_paren"}, eof: true},
		{nt: "factor", symbols: []string{"add", "mul", "r_paren"}, eof: true},
	}
	for _, ttFollow := range follows {
		e, err := flw.find(genSym(ttFollow.nt))
		if err != nil {
			t.Fatalf("failed to get a FOLLOW entry; non-terminal: %v: %v", ttFollow.nt, err)
		}

		if e.eof != ttFollow.eof {
			t.Errorf("unexpected EOF flag; non-terminal: %v, want: %v, got: %v", ttFollow.nt, ttFollow.eof, e.eof)
		}
		if len(e.symbols) != len(ttFollow.symbols) {
			t.Fatalf("unexpected symbol count; non-terminal: %v, want: %v, got: %v", ttFollow.nt, ttFollow.symbols, e.symbols)
		}
		for _, symText := range ttFollow.symbols {
			if _, ok := e.symbols[genSym(symText)]; !ok {
				t.Errorf("a symbol was not found in a FOLLOW entry; non-terminal: %v, symbol: %v", ttFollow.nt, symText)
			}
		}
	}
}
