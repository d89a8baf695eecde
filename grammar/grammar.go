package grammar

import (
	"fmt"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"

	verr "github.com/grackle-lang/grackle/error"
	"github.com/grackle-lang/grackle/spec"
)

// Grammar is the internal representation the automaton builders consume:
// interned symbols, a production set with the augmented start production,
// and the side tables binding productions to their semantic actions and
// terminals to their lexeme converters.
type Grammar struct {
	name                 string
	lexSpec              *mlspec.LexSpec
	skipLexKinds         []mlspec.LexKindName
	symbolTable          *symbolTable
	productionSet        *productionSet
	augmentedStartSymbol symbol
	actions              map[productionID]spec.SemanticAction
	tokenValues          map[symbol]spec.TokenValue
	sym2Pattern          map[symbol]string
}

type Builder struct {
	Grammar *spec.Grammar

	errs verr.SpecErrors
}

// Build desugars the enriched grammar, interns its symbols, validates the
// production bodies, and appends the augmented start production. All
// violations are collected so one call reports every problem.
func (b *Builder) Build() (*Grammar, error) {
	if b.Grammar.Name == "" {
		return nil, verr.SpecErrors{
			{Cause: semErrNoGrammarName},
		}
	}

	g, err := spec.Desugar(b.Grammar)
	if err != nil {
		return nil, verr.SpecErrors{
			{Cause: err},
		}
	}

	symTab := newSymbolTable()
	lexEntries := []*mlspec.LexEntry{}
	var skipKinds []mlspec.LexKindName
	tokenValues := map[symbol]spec.TokenValue{}
	sym2Pattern := map[symbol]string{}
	for _, term := range g.Terminals {
		if _, exist := symTab.toSymbol(term.Name); exist {
			b.addErr(semErrDuplicateTerminal, term.Name)
			continue
		}
		if term.Pattern == "" {
			b.addErr(semErrEmptyPattern, term.Name)
			continue
		}

		sym, err := symTab.registerTerminalSymbol(term.Name)
		if err != nil {
			return nil, err
		}

		pattern := term.Pattern
		if term.Literal {
			pattern = mlspec.EscapePattern(pattern)
		}
		lexEntries = append(lexEntries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(term.Name),
			Pattern: mlspec.LexPattern(pattern),
		})

		if term.Skip {
			skipKinds = append(skipKinds, mlspec.LexKindName(term.Name))
		}
		if term.Value != nil {
			tokenValues[sym] = term.Value
		}
		sym2Pattern[sym] = term.Pattern
	}

	for _, nt := range g.NonTerminals {
		if sym, exist := symTab.toSymbol(nt.Name); exist {
			if sym.isTerminal() {
				b.addErr(semErrDuplicateName, nt.Name)
			} else {
				b.addErr(semErrDuplicateNonTerminal, nt.Name)
			}
			continue
		}
		_, err := symTab.registerNonTerminalSymbol(nt.Name)
		if err != nil {
			return nil, err
		}
	}

	var augStartSym symbol
	var startSym symbol
	{
		if g.Start == "" {
			b.addErr(semErrNoStartSymbol, "")
		} else if sym, ok := symTab.toSymbol(g.Start); !ok {
			b.addErr(semErrUndefinedSym, g.Start)
		} else if sym.isTerminal() {
			b.addErr(semErrStartNotNonTerminal, g.Start)
		} else {
			startSym = sym

			augStartSym, err = symTab.registerStartSymbol(g.Start + "'")
			if err != nil {
				return nil, err
			}
		}
	}

	if len(g.Productions) == 0 {
		b.addErr(semErrNoProduction, "")
	}

	prods := newProductionSet()
	actions := map[productionID]spec.SemanticAction{}
	if !startSym.isNil() {
		augProd, err := newProduction(augStartSym, []symbol{startSym})
		if err != nil {
			return nil, err
		}
		prods.append(augProd)
	}
	for _, p := range g.Productions {
		lhsSym, ok := symTab.toSymbol(p.LHS)
		if !ok || !lhsSym.isNonTerminal() {
			b.addErr(semErrUndefinedSym, fmt.Sprintf("%v in production %v", p.LHS, p.Name))
			continue
		}

		rhsSyms := make([]symbol, 0, len(p.RHS))
		ok = true
		for _, item := range p.RHS {
			ref, isRef := item.(*spec.Ref)
			if !isRef {
				return nil, fmt.Errorf("a production body contains sugar after desugaring: %v", item)
			}
			sym, exist := symTab.toSymbol(ref.Name)
			if !exist {
				b.addErr(semErrUndefinedSym, fmt.Sprintf("%v in production %v", ref.Name, p.Name))
				ok = false
				continue
			}
			rhsSyms = append(rhsSyms, sym)
		}
		if !ok {
			continue
		}

		prod, err := newProduction(lhsSym, rhsSyms)
		if err != nil {
			return nil, err
		}
		if _, exist := prods.findByID(prod.id); exist {
			b.addErr(semErrDuplicateProduction, p.Name)
			continue
		}
		prods.append(prod)

		if p.Action != nil {
			actions[prod.id] = p.Action
		}
	}

	for _, sym := range symTab.nonTerminalSymbols() {
		if _, ok := prods.findByLHS(sym); !ok {
			text, _ := symTab.toText(sym)
			b.addErr(semErrUnreachableNonTerminal, text)
		}
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return &Grammar{
		name: g.Name,
		lexSpec: &mlspec.LexSpec{
			Name:    g.Name,
			Entries: lexEntries,
		},
		skipLexKinds:         skipKinds,
		symbolTable:          symTab,
		productionSet:        prods,
		augmentedStartSymbol: augStartSym,
		actions:              actions,
		tokenValues:          tokenValues,
		sym2Pattern:          sym2Pattern,
	}, nil
}

func (b *Builder) addErr(cause error, detail string) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
	})
}

type Class string

const (
	ClassSLR  = Class("slr")
	ClassLALR = Class("lalr")
)

type compileConfig struct {
	class Class
}

type CompileOption func(config *compileConfig)

func SpecifyClass(class Class) CompileOption {
	return func(config *compileConfig) {
		config.class = class
	}
}

// Compile turns the internal representation into a compiled grammar: it
// compiles the lexical specification, runs the automaton construction for
// the requested class, and emits the parsing table. The report is returned
// even when table construction fails so callers can render the conflicts;
// in that case the compiled grammar is nil and the error lists every
// conflict.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{
		class: ClassLALR,
	}
	for _, opt := range opts {
		opt(config)
	}

	lexSpec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, nil, fmt.Errorf(b.String())
		}
		return nil, nil, err
	}

	kind2Term := make([]int, len(lexSpec.KindNames))
	term2Kind := make([]int, gram.symbolTable.termNum.Int())
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = symbolNil.num().Int()
			term2Kind[symbolNil.num()] = mlspec.LexKindIDNil.Int()
			continue
		}

		sym, ok := gram.symbolTable.toSymbol(k.String())
		if !ok {
			return nil, nil, fmt.Errorf("terminal symbol '%v' was not found in a symbol table", k)
		}
		kind2Term[i] = sym.num().Int()
		term2Kind[sym.num()] = i

		for _, sk := range gram.skipLexKinds {
			if k != sk {
				continue
			}
			skip[i] = 1
			break
		}
	}

	terms, err := gram.symbolTable.terminalTexts()
	if err != nil {
		return nil, nil, err
	}

	nonTerms, err := gram.symbolTable.nonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	firstSet := newFirstSet(gram.productionSet)

	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		return nil, nil, err
	}

	var automaton *lr0Automaton
	switch config.class {
	case ClassSLR:
		followSet, err := genFollowSet(gram.productionSet, firstSet)
		if err != nil {
			return nil, nil, err
		}

		slr1, err := genSLR1Automaton(lr0, gram.productionSet, followSet)
		if err != nil {
			return nil, nil, err
		}

		automaton = slr1.lr0Automaton
	case ClassLALR:
		lalr1, err := genLALR1Automaton(lr0, gram.productionSet, firstSet)
		if err != nil {
			return nil, nil, err
		}

		automaton = lalr1.lr0Automaton
	default:
		return nil, nil, fmt.Errorf("unknown parser class: %v", config.class)
	}

	b := &lrTableBuilder{
		automaton:    automaton,
		prods:        gram.productionSet,
		termCount:    gram.symbolTable.termNum.Int(),
		nonTermCount: gram.symbolTable.nonTermNum.Int(),
		symTab:       gram.symbolTable,
	}
	tab, err := b.build()
	if err != nil {
		return nil, nil, err
	}

	report, err := b.genReport(gram)
	if err != nil {
		return nil, nil, err
	}

	if len(b.conflicts) > 0 {
		return nil, report, b.conflictErrors()
	}

	action := make([]int, len(tab.actionTable))
	for i, e := range tab.actionTable {
		action[i] = int(e)
	}
	goTo := make([]int, len(tab.goToTable))
	for i, e := range tab.goToTable {
		goTo[i] = int(e)
	}

	prodCount := gram.productionSet.count() + 1
	lhsSyms := make([]int, prodCount)
	altSymCounts := make([]int, prodCount)
	semActs := make([]spec.SemanticAction, prodCount)
	for _, p := range gram.productionSet.getAllProductions() {
		lhsSyms[p.num] = p.lhs.num().Int()
		altSymCounts[p.num] = p.rhsLen
		semActs[p.num] = gram.actions[p.id]
	}

	tokenValues := make([]spec.TokenValue, gram.symbolTable.termNum.Int())
	for sym, value := range gram.tokenValues {
		tokenValues[sym.num()] = value
	}

	return &spec.CompiledGrammar{
		Name: gram.name,
		LexicalSpecification: &spec.LexicalSpecification{
			Lexer: "maleeni",
			Maleeni: &spec.Maleeni{
				Spec:           lexSpec,
				KindToTerminal: kind2Term,
				TerminalToKind: term2Kind,
				Skip:           skip,
			},
		},
		ParsingTable: &spec.ParsingTable{
			Class:                   string(config.class),
			Action:                  action,
			GoTo:                    goTo,
			StateCount:              tab.stateCount,
			InitialState:            tab.InitialState.Int(),
			StartProduction:         productionNumStart.Int(),
			LHSSymbols:              lhsSyms,
			AlternativeSymbolCounts: altSymCounts,
			Terminals:               terms,
			TerminalCount:           tab.terminalCount,
			NonTerminals:            nonTerms,
			NonTerminalCount:        tab.nonTerminalCount,
			EOFSymbol:               symbolEOF.num().Int(),
			ExpectedTerminals:       tab.expectedTerminals,
		},
		SemanticActions: semActs,
		TokenValues:     tokenValues,
	}, report, nil
}

// conflictErrors converts the recorded conflicts into construction errors
// naming the state, the trigger symbol, and the competing entries.
func (b *lrTableBuilder) conflictErrors() verr.SpecErrors {
	var errs verr.SpecErrors
	for _, con := range b.conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			errs = append(errs, &verr.SpecError{
				Cause:  semErrShiftReduceConflict,
				Detail: fmt.Sprintf("state %v: shift %v / reduce %v on %v", c.state, c.nextState, c.prodNum, b.symbolToText(c.sym)),
			})
		case *reduceReduceConflict:
			errs = append(errs, &verr.SpecError{
				Cause:  semErrReduceReduceConflict,
				Detail: fmt.Sprintf("state %v: reduce %v / reduce %v on %v", c.state, c.prodNum1, c.prodNum2, b.symbolToText(c.sym)),
			})
		}
	}
	return errs
}

func (b *lrTableBuilder) symbolToText(sym symbol) string {
	if sym.isNil() {
		return "<nil>"
	}
	if sym.isEOF() {
		return symbolNameEOF
	}
	text, ok := b.symTab.toText(sym)
	if !ok {
		return fmt.Sprintf("<symbol not found: %v>", sym)
	}
	return text
}

func writeCompileError(w *strings.Builder, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
