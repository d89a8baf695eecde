package grammar

import "testing"

func TestSymbolTable(t *testing.T) {
	symTab := newSymbolTable()

	startSym, err := symTab.registerStartSymbol("expr'")
	if err != nil {
		t.Fatal(err)
	}
	if !startSym.isStart() || !startSym.isNonTerminal() {
		t.Errorf("the start symbol must be a non-terminal start symbol: %v", startSym)
	}

	terms := []string{"add", "mul", "id"}
	for i, text := range terms {
		sym, err := symTab.registerTerminalSymbol(text)
		if err != nil {
			t.Fatal(err)
		}
		if !sym.isTerminal() || sym.isStart() || sym.isEOF() {
			t.Errorf("a registered terminal has a wrong kind: %v", sym)
		}
		// Terminal numbers are dense and stable; slot 1 belongs to EOF.
		if sym.num() != symbolNum(i+2) {
			t.Errorf("unexpected terminal number; want: %v, got: %v", i+2, sym.num())
		}
	}

	nonTerms := []string{"expr", "term"}
	for i, text := range nonTerms {
		sym, err := symTab.registerNonTerminalSymbol(text)
		if err != nil {
			t.Fatal(err)
		}
		if !sym.isNonTerminal() || sym.isStart() {
			t.Errorf("a registered non-terminal has a wrong kind: %v", sym)
		}
		if sym.num() != symbolNum(i+2) {
			t.Errorf("unexpected non-terminal number; want: %v, got: %v", i+2, sym.num())
		}
	}

	// Registration is idempotent per name.
	sym1, _ := symTab.registerTerminalSymbol("add")
	sym2, ok := symTab.toSymbol("add")
	if !ok || sym1 != sym2 {
		t.Errorf("repeated registration must return the same symbol")
	}

	// Name lookup round-trips.
	for _, text := range append(terms, nonTerms...) {
		sym, ok := symTab.toSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		got, ok := symTab.toText(sym)
		if !ok || got != text {
			t.Errorf("symbol text round-trip failed; want: %v, got: %v", text, got)
		}
	}

	// EOF is pre-registered as a terminal.
	eofSym, ok := symTab.toSymbol(symbolNameEOF)
	if !ok || eofSym != symbolEOF || !eofSym.isTerminal() || !eofSym.isEOF() {
		t.Errorf("the EOF symbol must be pre-registered: %v", eofSym)
	}

	termTexts, err := symTab.terminalTexts()
	if err != nil {
		t.Fatal(err)
	}
	if len(termTexts) != len(terms)+2 {
		t.Errorf("unexpected terminal text count; want: %v, got: %v", len(terms)+2, len(termTexts))
	}

	nonTermTexts, err := symTab.nonTerminalTexts()
	if err != nil {
		t.Fatal(err)
	}
	if len(nonTermTexts) != len(nonTerms)+2 {
		t.Errorf("unexpected non-terminal text count; want: %v, got: %v", len(nonTerms)+2, len(nonTermTexts))
	}
}
