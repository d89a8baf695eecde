package spec

import (
	"encoding/json"
	"fmt"
	"io"
)

// The JSON grammar definition the CLI consumes. It carries no semantic
// actions; a grammar compiled from a definition drives the default tree
// semantics at parse time.

type grammarDef struct {
	Name         string            `json:"name"`
	Terminals    []*terminalDef    `json:"terminals"`
	NonTerminals []*nonTerminalDef `json:"non_terminals"`
	Start        string            `json:"start"`
	Productions  []*productionDef  `json:"productions"`
}

type terminalDef struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Literal bool   `json:"literal"`
	Skip    bool   `json:"skip"`
}

type nonTerminalDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type productionDef struct {
	Name string         `json:"name"`
	LHS  string         `json:"lhs"`
	RHS  []*bodyItemDef `json:"rhs"`
}

// bodyItemDef is a tagged union; exactly one field may be set.
type bodyItemDef struct {
	Symbol      string          `json:"symbol,omitempty"`
	Star        *bodyItemDef    `json:"star,omitempty"`
	Optional    *bodyItemDef    `json:"optional,omitempty"`
	Alternation *alternationDef `json:"alternation,omitempty"`
}

type alternationDef struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// Parse reads a JSON grammar definition and builds the enriched grammar
// value the builder consumes.
func Parse(src io.Reader) (*Grammar, error) {
	d := json.NewDecoder(src)
	d.DisallowUnknownFields()
	var def grammarDef
	err := d.Decode(&def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse a grammar definition: %w", err)
	}

	g := &Grammar{
		Name:  def.Name,
		Start: def.Start,
	}
	for _, t := range def.Terminals {
		g.Terminals = append(g.Terminals, &Terminal{
			Name:    t.Name,
			Pattern: t.Pattern,
			Literal: t.Literal,
			Skip:    t.Skip,
		})
	}
	for _, nt := range def.NonTerminals {
		g.NonTerminals = append(g.NonTerminals, &NonTerminal{
			Name: nt.Name,
			Type: ValueType(nt.Type),
		})
	}
	for _, p := range def.Productions {
		var rhs []BodyItem
		for i, item := range p.RHS {
			bi, err := item.bodyItem()
			if err != nil {
				return nil, fmt.Errorf("production %v, element %v: %w", p.Name, i, err)
			}
			rhs = append(rhs, bi)
		}
		g.Productions = append(g.Productions, &Production{
			Name: p.Name,
			LHS:  p.LHS,
			RHS:  rhs,
		})
	}

	return g, nil
}

func (d *bodyItemDef) bodyItem() (BodyItem, error) {
	var item BodyItem
	count := 0
	if d.Symbol != "" {
		item = &Ref{Name: d.Symbol}
		count++
	}
	if d.Star != nil {
		inner, err := d.Star.bodyItem()
		if err != nil {
			return nil, err
		}
		item = &Repetition{Item: inner}
		count++
	}
	if d.Optional != nil {
		inner, err := d.Optional.bodyItem()
		if err != nil {
			return nil, err
		}
		item = &Optional{Item: inner}
		count++
	}
	if d.Alternation != nil {
		item = &Alternation{
			Name:     d.Alternation.Name,
			Variants: d.Alternation.Variants,
		}
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("a body element must have exactly one of 'symbol', 'star', 'optional', or 'alternation'")
	}
	return item, nil
}
