package spec

import "fmt"

// ValueType describes the semantic value a symbol carries. The core never
// interprets a value type; it only records the descriptors so the layer
// type-checking semantic actions can rely on them.
type ValueType string

const ValueTypeNil = ValueType("")

func SequenceOf(t ValueType) ValueType {
	return "[]" + t
}

func OptionalOf(t ValueType) ValueType {
	return t + "?"
}

// SemanticAction consumes the values of a production's body symbols and
// yields the value of its head. `ctx` is the semantic context the caller
// passed to the parser; the core threads it through unchanged.
type SemanticAction func(ctx interface{}, values []interface{}) (interface{}, error)

// TokenValue converts a lexeme into the semantic value of a terminal.
// A terminal without a TokenValue yields a default tree leaf (a
// *driver.Node carrying the lexeme and position).
type TokenValue func(lexeme []byte) (interface{}, error)

// Opt is the value of an optional occurrence `X?`.
type Opt struct {
	Set   bool
	Value interface{}
}

// Variant is the value of an inline alternation `N { V1, V2, ... }`.
// Name identifies the variant symbol the input actually matched.
type Variant struct {
	Name  string
	Value interface{}
}

type Terminal struct {
	Name    string
	Pattern string

	// When Literal is true, Pattern is matched literally instead of being
	// interpreted as a regular expression.
	Literal bool

	// Skipped terminals are recognized by the lexer but never reach the parser.
	Skip bool

	Type  ValueType
	Value TokenValue
}

type NonTerminal struct {
	Name string
	Type ValueType
}

type Production struct {
	Name   string
	LHS    string
	RHS    []BodyItem
	Action SemanticAction
}

// Grammar is the enriched grammar a front end hands to the builder.
// The builder guarantees nothing about it; validation happens when it is
// turned into the internal representation.
type Grammar struct {
	Name         string
	Terminals    []*Terminal
	NonTerminals []*NonTerminal
	Start        string
	Productions  []*Production
}

// BodyItem is one element of a production body: a plain symbol reference or
// one of the EBNF sugar constructs the desugarer rewrites away.
type BodyItem interface {
	fmt.Stringer
	bodyItem()
}

type Ref struct {
	Name string
}

func (i *Ref) bodyItem() {}

func (i *Ref) String() string {
	return i.Name
}

type Repetition struct {
	Item BodyItem
}

func (i *Repetition) bodyItem() {}

func (i *Repetition) String() string {
	return fmt.Sprintf("%v*", i.Item)
}

type Optional struct {
	Item BodyItem
}

func (i *Optional) bodyItem() {}

func (i *Optional) String() string {
	return fmt.Sprintf("%v?", i.Item)
}

type Alternation struct {
	Name     string
	Variants []string
}

func (i *Alternation) bodyItem() {}

func (i *Alternation) String() string {
	var vs string
	for n, v := range i.Variants {
		if n > 0 {
			vs += ", "
		}
		vs += v
	}
	return fmt.Sprintf("%v { %v }", i.Name, vs)
}
