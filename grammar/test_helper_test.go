package grammar

import (
	"testing"

	"github.com/grackle-lang/grackle/spec"
)

func testTerm(name string, pattern string) *spec.Terminal {
	return &spec.Terminal{
		Name:    name,
		Pattern: pattern,
	}
}

func testLiteral(name string, pattern string) *spec.Terminal {
	return &spec.Terminal{
		Name:    name,
		Pattern: pattern,
		Literal: true,
	}
}

func testNonTerm(names ...string) []*spec.NonTerminal {
	nts := make([]*spec.NonTerminal, len(names))
	for i, name := range names {
		nts[i] = &spec.NonTerminal{
			Name: name,
		}
	}
	return nts
}

func testProd(name string, lhs string, rhs ...string) *spec.Production {
	var items []spec.BodyItem
	for _, sym := range rhs {
		items = append(items, &spec.Ref{Name: sym})
	}
	return &spec.Production{
		Name: name,
		LHS:  lhs,
		RHS:  items,
	}
}

func buildTestGrammar(t *testing.T, g *spec.Grammar) *Grammar {
	t.Helper()

	b := Builder{
		Grammar: g,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

// testExprGrammar is the classic arithmetic grammar; its LR(0) collection
// has 12 states.
func testExprGrammar() *spec.Grammar {
	return &spec.Grammar{
		Name: "expr",
		Terminals: []*spec.Terminal{
			testLiteral("add", "+"),
			testLiteral("mul", "*"),
			testLiteral("l_paren", "("),
			testLiteral("r_paren", ")"),
			testTerm("id", "[A-Za-z_][0-9A-Za-z_]*"),
		},
		NonTerminals: testNonTerm("expr", "term", "factor"),
		Start:        "expr",
		Productions: []*spec.Production{
			testProd("P1", "expr", "expr", "add", "term"),
			testProd("P2", "expr", "term"),
			testProd("P3", "term", "term", "mul", "factor"),
			testProd("P4", "term", "factor"),
			testProd("P5", "factor", "l_paren", "expr", "r_paren"),
			testProd("P6", "factor", "id"),
		},
	}
}

type testSymbolGenerator func(text string) symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbolTable) testSymbolGenerator {
	return func(text string) symbol {
		t.Helper()

		sym, ok := symTab.toSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		return prod
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR0Item(prod, dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}

		return item
	}
}

func withLookAhead(item *lrItem, syms ...symbol) *lrItem {
	item.lookAhead.symbols = map[symbol]struct{}{}
	for _, sym := range syms {
		item.lookAhead.symbols[sym] = struct{}{}
	}
	return item
}
