package driver

import "github.com/grackle-lang/grackle/spec"

// Grammar is the driver's view of a compiled grammar: the parsing table,
// the per-production side tables, and the semantic bindings.
type Grammar interface {
	// InitialState returns the initial state of the parser.
	InitialState() int

	// StartProduction returns the number of the augmented start production.
	// Reducing it means acceptance.
	StartProduction() int

	// Action returns the packed action entry for a (state, terminal) pair:
	// a negative value shifts to state -n, a positive value reduces
	// production n, and zero is the empty cell.
	Action(state int, terminal int) int

	// GoTo returns the state to transit to when a production whose LHS is
	// `lhs` is reduced, or zero when the cell is empty.
	GoTo(state int, lhs int) int

	// LHS returns the LHS symbol number of a production.
	LHS(prod int) int

	// AlternativeSymbolCount returns the arity of a production.
	AlternativeSymbolCount(prod int) int

	TerminalCount() int

	// EOF returns the terminal number of the EOF symbol.
	EOF() int

	// Terminal and NonTerminal return symbol names by number.
	Terminal(terminal int) string
	NonTerminal(nonTerminal int) string

	// ExpectedTerminals returns the terminal numbers a state has a non-empty
	// action cell for.
	ExpectedTerminals(state int) []int

	// SemanticAction returns the semantic action of a production, or nil
	// when the production drives the default tree semantics.
	SemanticAction(prod int) spec.SemanticAction

	// TokenValue returns the lexeme converter of a terminal, or nil when
	// tokens yield default tree leaves.
	TokenValue(terminal int) spec.TokenValue
}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) Grammar {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) InitialState() int {
	return g.g.ParsingTable.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.ParsingTable.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) int {
	return g.g.ParsingTable.Action[state*g.g.ParsingTable.TerminalCount+terminal]
}

func (g *grammarImpl) GoTo(state int, lhs int) int {
	return g.g.ParsingTable.GoTo[state*g.g.ParsingTable.NonTerminalCount+lhs]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.ParsingTable.LHSSymbols[prod]
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.ParsingTable.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.ParsingTable.TerminalCount
}

func (g *grammarImpl) EOF() int {
	return g.g.ParsingTable.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.ParsingTable.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.ParsingTable.NonTerminals[nonTerminal]
}

func (g *grammarImpl) ExpectedTerminals(state int) []int {
	return g.g.ParsingTable.ExpectedTerminals[state]
}

func (g *grammarImpl) SemanticAction(prod int) spec.SemanticAction {
	if g.g.SemanticActions == nil {
		return nil
	}
	return g.g.SemanticActions[prod]
}

func (g *grammarImpl) TokenValue(terminal int) spec.TokenValue {
	if g.g.TokenValues == nil {
		return nil
	}
	return g.g.TokenValues[terminal]
}
