package spec

import "testing"

func abcdGrammar(rhs ...BodyItem) *Grammar {
	return &Grammar{
		Name: "abcd",
		Terminals: []*Terminal{
			{Name: "a", Pattern: "a", Literal: true, Type: "A"},
			{Name: "b", Pattern: "b", Literal: true, Type: "B"},
			{Name: "c", Pattern: "c", Literal: true, Type: "C"},
			{Name: "d", Pattern: "d", Literal: true, Type: "D"},
		},
		NonTerminals: []*NonTerminal{
			{Name: "s", Type: "S"},
		},
		Start: "s",
		Productions: []*Production{
			{
				Name: "P0",
				LHS:  "s",
				RHS:  rhs,
			},
		},
	}
}

type expectedProd struct {
	name string
	lhs  string
	rhs  []string
}

func assertProductions(t *testing.T, g *Grammar, expected []expectedProd) {
	t.Helper()

	if len(g.Productions) != len(expected) {
		t.Fatalf("production count mismatch; want: %v, got: %v", len(expected), len(g.Productions))
	}
	for i, e := range expected {
		prod := g.Productions[i]
		if prod.Name != e.name {
			t.Errorf("unexpected production name; want: %v, got: %v", e.name, prod.Name)
		}
		if prod.LHS != e.lhs {
			t.Errorf("unexpected LHS; production: %v, want: %v, got: %v", e.name, e.lhs, prod.LHS)
		}
		if len(prod.RHS) != len(e.rhs) {
			t.Fatalf("unexpected body length; production: %v, want: %v, got: %v", e.name, e.rhs, prod.RHS)
		}
		for n, symName := range e.rhs {
			ref, ok := prod.RHS[n].(*Ref)
			if !ok {
				t.Fatalf("a desugared body must contain only symbol references; production: %v, element: %v", e.name, prod.RHS[n])
			}
			if ref.Name != symName {
				t.Errorf("unexpected body symbol; production: %v, want: %v, got: %v", e.name, symName, ref.Name)
			}
		}
	}
}

func findNonTerminal(g *Grammar, name string) *NonTerminal {
	for _, nt := range g.NonTerminals {
		if nt.Name == name {
			return nt
		}
	}
	return nil
}

func TestDesugarRepetition(t *testing.T) {
	g, err := Desugar(abcdGrammar(&Repetition{Item: &Ref{Name: "a"}}))
	if err != nil {
		t.Fatal(err)
	}

	assertProductions(t, g, []expectedProd{
		{name: "__P00More", lhs: "__P00Rep", rhs: []string{"__P00Rep", "a"}},
		{name: "__P00Done", lhs: "__P00Rep", rhs: []string{}},
		{name: "P0", lhs: "s", rhs: []string{"__P00Rep"}},
	})

	aux := findNonTerminal(g, "__P00Rep")
	if aux == nil {
		t.Fatalf("the auxiliary non-terminal was not defined")
	}
	if aux.Type != SequenceOf("A") {
		t.Errorf("unexpected auxiliary value type; want: %v, got: %v", SequenceOf("A"), aux.Type)
	}
}

func TestDesugarOptional(t *testing.T) {
	g, err := Desugar(abcdGrammar(&Optional{Item: &Ref{Name: "b"}}))
	if err != nil {
		t.Fatal(err)
	}

	assertProductions(t, g, []expectedProd{
		{name: "__P00Some", lhs: "__P00Opt", rhs: []string{"b"}},
		{name: "__P00None", lhs: "__P00Opt", rhs: []string{}},
		{name: "P0", lhs: "s", rhs: []string{"__P00Opt"}},
	})

	aux := findNonTerminal(g, "__P00Opt")
	if aux == nil {
		t.Fatalf("the auxiliary non-terminal was not defined")
	}
	if aux.Type != OptionalOf("B") {
		t.Errorf("unexpected auxiliary value type; want: %v, got: %v", OptionalOf("B"), aux.Type)
	}
}

func TestDesugarAlternation(t *testing.T) {
	g, err := Desugar(abcdGrammar(&Alternation{
		Name:     "CorD",
		Variants: []string{"c", "d"},
	}))
	if err != nil {
		t.Fatal(err)
	}

	assertProductions(t, g, []expectedProd{
		{name: "__P00CorDc", lhs: "__P00CorD", rhs: []string{"c"}},
		{name: "__P00CorDd", lhs: "__P00CorD", rhs: []string{"d"}},
		{name: "P0", lhs: "s", rhs: []string{"__P00CorD"}},
	})
}

// Sugar constructs compose; the auxiliaries of a nested occurrence derive
// their names from the full item path.
func TestDesugarNestedSugar(t *testing.T) {
	g, err := Desugar(abcdGrammar(&Optional{
		Item: &Repetition{Item: &Ref{Name: "a"}},
	}))
	if err != nil {
		t.Fatal(err)
	}

	assertProductions(t, g, []expectedProd{
		{name: "__P00OptMore", lhs: "__P00OptRep", rhs: []string{"__P00OptRep", "a"}},
		{name: "__P00OptDone", lhs: "__P00OptRep", rhs: []string{}},
		{name: "__P00Some", lhs: "__P00Opt", rhs: []string{"__P00OptRep"}},
		{name: "__P00None", lhs: "__P00Opt", rhs: []string{}},
		{name: "P0", lhs: "s", rhs: []string{"__P00Opt"}},
	})

	aux := findNonTerminal(g, "__P00Opt")
	if aux == nil {
		t.Fatalf("the auxiliary non-terminal was not defined")
	}
	if aux.Type != OptionalOf(SequenceOf("A")) {
		t.Errorf("unexpected auxiliary value type; want: %v, got: %v", OptionalOf(SequenceOf("A")), aux.Type)
	}
}

func TestDesugarMixedBody(t *testing.T) {
	g, err := Desugar(abcdGrammar(
		&Repetition{Item: &Ref{Name: "a"}},
		&Optional{Item: &Ref{Name: "b"}},
		&Alternation{Name: "CorD", Variants: []string{"c", "d"}},
	))
	if err != nil {
		t.Fatal(err)
	}

	assertProductions(t, g, []expectedProd{
		{name: "__P00More", lhs: "__P00Rep", rhs: []string{"__P00Rep", "a"}},
		{name: "__P00Done", lhs: "__P00Rep", rhs: []string{}},
		{name: "__P01Some", lhs: "__P01Opt", rhs: []string{"b"}},
		{name: "__P01None", lhs: "__P01Opt", rhs: []string{}},
		{name: "__P02CorDc", lhs: "__P02CorD", rhs: []string{"c"}},
		{name: "__P02CorDd", lhs: "__P02CorD", rhs: []string{"d"}},
		{name: "P0", lhs: "s", rhs: []string{"__P00Rep", "__P01Opt", "__P02CorD"}},
	})
}

// Desugaring a sugar-free grammar is the identity up to isomorphism, and
// desugaring the same grammar twice yields the same names.
func TestDesugarIsIdempotent(t *testing.T) {
	sugarFree := abcdGrammar(&Ref{Name: "a"}, &Ref{Name: "b"})
	g, err := Desugar(sugarFree)
	if err != nil {
		t.Fatal(err)
	}
	assertProductions(t, g, []expectedProd{
		{name: "P0", lhs: "s", rhs: []string{"a", "b"}},
	})
	if len(g.NonTerminals) != len(sugarFree.NonTerminals) {
		t.Errorf("desugaring a sugar-free grammar must not add non-terminals")
	}

	again, err := Desugar(g)
	if err != nil {
		t.Fatal(err)
	}
	assertProductions(t, again, []expectedProd{
		{name: "P0", lhs: "s", rhs: []string{"a", "b"}},
	})

	sugared := func() *Grammar {
		g, err := Desugar(abcdGrammar(&Repetition{Item: &Ref{Name: "a"}}))
		if err != nil {
			t.Fatal(err)
		}
		return g
	}
	g1 := sugared()
	g2 := sugared()
	if len(g1.Productions) != len(g2.Productions) {
		t.Fatalf("re-expansion must be stable")
	}
	for i := range g1.Productions {
		if g1.Productions[i].Name != g2.Productions[i].Name || g1.Productions[i].LHS != g2.Productions[i].LHS {
			t.Errorf("generated names must be deterministic; got: %v and %v", g1.Productions[i].Name, g2.Productions[i].Name)
		}
	}
}

func TestSynthesizedActions(t *testing.T) {
	g, err := Desugar(abcdGrammar(
		&Repetition{Item: &Ref{Name: "a"}},
		&Optional{Item: &Ref{Name: "b"}},
		&Alternation{Name: "CorD", Variants: []string{"c", "d"}},
	))
	if err != nil {
		t.Fatal(err)
	}

	actions := map[string]SemanticAction{}
	for _, prod := range g.Productions {
		actions[prod.Name] = prod.Action
	}

	// Repetition: the accumulator grows by one element per reduction.
	empty, err := actions["__P00Done"](nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	seq, ok := empty.([]interface{})
	if !ok || len(seq) != 0 {
		t.Fatalf("the empty repetition must yield an empty sequence; got: %#v", empty)
	}
	grown, err := actions["__P00More"](nil, []interface{}{seq, "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got := grown.([]interface{}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("unexpected sequence: %#v", grown)
	}

	// Optional: some/none.
	some, err := actions["__P01Some"](nil, []interface{}{"v"})
	if err != nil {
		t.Fatal(err)
	}
	if opt := some.(Opt); !opt.Set || opt.Value != "v" {
		t.Fatalf("unexpected optional value: %#v", some)
	}
	none, err := actions["__P01None"](nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opt := none.(Opt); opt.Set {
		t.Fatalf("unexpected optional value: %#v", none)
	}

	// Alternation: the variant records which symbol matched.
	v, err := actions["__P02CorDd"](nil, []interface{}{"w"})
	if err != nil {
		t.Fatal(err)
	}
	if variant := v.(Variant); variant.Name != "d" || variant.Value != "w" {
		t.Fatalf("unexpected variant value: %#v", v)
	}

	// The host production keeps its action; here it has none.
	if actions["P0"] != nil {
		t.Errorf("the host production's action must be preserved verbatim")
	}
}
