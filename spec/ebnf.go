package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// Desugar rewrites the EBNF sugar constructs in production bodies into plain
// BNF. Each occurrence of `X*`, `X?`, or `N { V1, V2, ... }` is replaced by a
// fresh auxiliary non-terminal with generated productions and synthesized
// semantic actions:
//
//	X*              Aux → Aux X | ε    yields []interface{}
//	X?              Aux → X | ε        yields Opt
//	N { V1, V2 }    Aux → V1 | V2      yields Variant
//
// The rewrite runs bottom-up, so nested sugar like `(X*)?` composes. Every
// occurrence site gets its own auxiliary non-terminal; the generated names
// derive deterministically from the production name and the item path, so
// re-expanding the same grammar yields the same names. The host production
// keeps its semantic action unchanged.
//
// A grammar whose bodies contain no sugar is returned unchanged up to
// isomorphism. The input grammar is never modified.
func Desugar(g *Grammar) (*Grammar, error) {
	d := &desugarer{
		out: &Grammar{
			Name:         g.Name,
			Terminals:    g.Terminals,
			NonTerminals: append([]*NonTerminal{}, g.NonTerminals...),
			Start:        g.Start,
		},
		types: map[string]ValueType{},
	}
	for _, term := range g.Terminals {
		d.types[term.Name] = term.Type
	}
	for _, nt := range g.NonTerminals {
		d.types[nt.Name] = nt.Type
	}

	for _, prod := range g.Productions {
		body := make([]BodyItem, len(prod.RHS))
		d.path = []string{prod.Name}
		for i, item := range prod.RHS {
			d.push(strconv.Itoa(i))
			sym, err := d.expand(item)
			d.pop()
			if err != nil {
				return nil, err
			}
			body[i] = &Ref{Name: sym}
		}
		d.out.Productions = append(d.out.Productions, &Production{
			Name:   prod.Name,
			LHS:    prod.LHS,
			RHS:    body,
			Action: prod.Action,
		})
	}

	return d.out, nil
}

type desugarer struct {
	out   *Grammar
	types map[string]ValueType

	// path is the identifier stack the generated names derive from. It always
	// starts with the name of the production being rewritten.
	path []string
}

func (d *desugarer) push(part string) {
	d.path = append(d.path, part)
}

func (d *desugarer) pop() {
	d.path = d.path[:len(d.path)-1]
}

func (d *desugarer) gen(suffix string) string {
	return "__" + strings.Join(d.path, "") + suffix
}

// expand rewrites one body item and returns the name of the symbol that
// replaces it. Plain references pass through; sugar constructs leave their
// auxiliary productions in d.out.
func (d *desugarer) expand(item BodyItem) (string, error) {
	switch it := item.(type) {
	case *Ref:
		return it.Name, nil
	case *Repetition:
		d.push("Rep")
		elem, err := d.expand(it.Item)
		d.pop()
		if err != nil {
			return "", err
		}

		aux, err := d.defineAux(d.gen("Rep"), SequenceOf(d.types[elem]))
		if err != nil {
			return "", err
		}
		d.out.Productions = append(d.out.Productions,
			&Production{
				Name:   d.gen("More"),
				LHS:    aux,
				RHS:    []BodyItem{&Ref{Name: aux}, &Ref{Name: elem}},
				Action: appendAction,
			},
			&Production{
				Name:   d.gen("Done"),
				LHS:    aux,
				Action: emptySequenceAction,
			},
		)
		return aux, nil
	case *Optional:
		d.push("Opt")
		elem, err := d.expand(it.Item)
		d.pop()
		if err != nil {
			return "", err
		}

		aux, err := d.defineAux(d.gen("Opt"), OptionalOf(d.types[elem]))
		if err != nil {
			return "", err
		}
		d.out.Productions = append(d.out.Productions,
			&Production{
				Name:   d.gen("Some"),
				LHS:    aux,
				RHS:    []BodyItem{&Ref{Name: elem}},
				Action: someAction,
			},
			&Production{
				Name:   d.gen("None"),
				LHS:    aux,
				Action: noneAction,
			},
		)
		return aux, nil
	case *Alternation:
		if len(it.Variants) == 0 {
			return "", fmt.Errorf("an alternation needs at least one variant: %v", it.Name)
		}

		aux, err := d.defineAux(d.gen(it.Name), ValueType(it.Name))
		if err != nil {
			return "", err
		}
		for _, variant := range it.Variants {
			d.out.Productions = append(d.out.Productions, &Production{
				Name:   d.gen(it.Name + variant),
				LHS:    aux,
				RHS:    []BodyItem{&Ref{Name: variant}},
				Action: variantAction(variant),
			})
		}
		return aux, nil
	default:
		return "", fmt.Errorf("unknown body item: %v", item)
	}
}

func (d *desugarer) defineAux(name string, vt ValueType) (string, error) {
	if _, defined := d.types[name]; defined {
		return "", fmt.Errorf("generated symbol collides with an existing one: %v", name)
	}
	d.types[name] = vt
	d.out.NonTerminals = append(d.out.NonTerminals, &NonTerminal{
		Name: name,
		Type: vt,
	})
	return name, nil
}

func appendAction(_ interface{}, values []interface{}) (interface{}, error) {
	seq, ok := values[0].([]interface{})
	if !ok {
		return nil, fmt.Errorf("a repetition accumulator must be a sequence; got: %T", values[0])
	}
	return append(seq, values[1]), nil
}

func emptySequenceAction(_ interface{}, _ []interface{}) (interface{}, error) {
	return []interface{}{}, nil
}

func someAction(_ interface{}, values []interface{}) (interface{}, error) {
	return Opt{
		Set:   true,
		Value: values[0],
	}, nil
}

func noneAction(_ interface{}, _ []interface{}) (interface{}, error) {
	return Opt{}, nil
}

func variantAction(name string) SemanticAction {
	return func(_ interface{}, values []interface{}) (interface{}, error) {
		return Variant{
			Name:  name,
			Value: values[0],
		}, nil
	}
}
