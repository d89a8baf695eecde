package grammar

import (
	"fmt"
	"sort"

	"github.com/grackle-lang/grackle/spec"
)

// genReport renders the automaton, the per-state actions, and the recorded
// conflicts into a serializable description.
func (b *lrTableBuilder) genReport(gram *Grammar) (*spec.Report, error) {
	var terms []*spec.TerminalDesc
	{
		termSyms := b.symTab.terminalSymbols()
		terms = make([]*spec.TerminalDesc, len(termSyms)+2)

		terms[symbolEOF.num()] = &spec.TerminalDesc{
			Number: symbolEOF.num().Int(),
			Name:   symbolNameEOF,
		}

		for _, sym := range termSyms {
			name, ok := b.symTab.toText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate terminal descriptions: symbol not found: %v", sym)
			}
			terms[sym.num()] = &spec.TerminalDesc{
				Number:  sym.num().Int(),
				Name:    name,
				Pattern: gram.sym2Pattern[sym],
			}
		}
	}

	var nonTerms []*spec.NonTerminalDesc
	{
		nonTermSyms := b.symTab.nonTerminalSymbols()
		nonTerms = make([]*spec.NonTerminalDesc, len(nonTermSyms)+2)

		startName, _ := b.symTab.toText(symbolStart)
		nonTerms[symbolStart.num()] = &spec.NonTerminalDesc{
			Number: symbolStart.num().Int(),
			Name:   startName,
		}

		for _, sym := range nonTermSyms {
			name, ok := b.symTab.toText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate non-terminal descriptions: symbol not found: %v", sym)
			}
			nonTerms[sym.num()] = &spec.NonTerminalDesc{
				Number: sym.num().Int(),
				Name:   name,
			}
		}
	}

	prods := make([]*spec.ProductionDesc, b.prods.count()+1)
	for _, prod := range b.prods.getAllProductions() {
		rhs := make([]int, len(prod.rhs))
		for i, sym := range prod.rhs {
			if sym.isTerminal() {
				rhs[i] = sym.num().Int()
			} else {
				rhs[i] = sym.num().Int() * -1
			}
		}
		prods[prod.num] = &spec.ProductionDesc{
			Number: prod.num.Int(),
			LHS:    prod.lhs.num().Int(),
			RHS:    rhs,
		}
	}

	conflicts := map[stateNum][]conflict{}
	for _, con := range b.conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			conflicts[c.state] = append(conflicts[c.state], c)
		case *reduceReduceConflict:
			conflicts[c.state] = append(conflicts[c.state], c)
		}
	}

	states := make([]*spec.State, len(b.automaton.states))
	for _, state := range b.automaton.states {
		kernel := make([]*spec.Item, len(state.items))
		for i, item := range state.items {
			prod, ok := b.prods.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("failed to generate a report: production not found: %v", item.prod)
			}
			kernel[i] = &spec.Item{
				Production: prod.num.Int(),
				Dot:        item.dot,
			}
		}
		sort.Slice(kernel, func(i, j int) bool {
			if kernel[i].Production != kernel[j].Production {
				return kernel[i].Production < kernel[j].Production
			}
			return kernel[i].Dot < kernel[j].Dot
		})

		var shift []*spec.Transition
		var reduce []*spec.Reduce
		var goTo []*spec.Transition
		{
			for sym, kID := range state.next {
				nextState := b.automaton.states[kID]
				tran := &spec.Transition{
					Symbol: sym.num().Int(),
					State:  nextState.num.Int(),
				}
				if sym.isTerminal() {
					shift = append(shift, tran)
				} else {
					goTo = append(goTo, tran)
				}
			}
			sort.Slice(shift, func(i, j int) bool {
				return shift[i].Symbol < shift[j].Symbol
			})
			sort.Slice(goTo, func(i, j int) bool {
				return goTo[i].Symbol < goTo[j].Symbol
			})

			for prodID := range state.reducible {
				prod, ok := b.prods.findByID(prodID)
				if !ok {
					return nil, fmt.Errorf("failed to generate a report: production not found: %v", prodID)
				}

				item := findItemByProduction(state, prodID)
				if item == nil {
					continue
				}

				las := make([]int, 0, len(item.lookAhead.symbols))
				for a := range item.lookAhead.symbols {
					las = append(las, a.num().Int())
				}
				sort.Ints(las)

				reduce = append(reduce, &spec.Reduce{
					LookAhead:  las,
					Production: prod.num.Int(),
				})
			}
			sort.Slice(reduce, func(i, j int) bool {
				return reduce[i].Production < reduce[j].Production
			})
		}

		var srConflict []*spec.SRConflict
		var rrConflict []*spec.RRConflict
		for _, con := range conflicts[state.num] {
			switch c := con.(type) {
			case *shiftReduceConflict:
				srConflict = append(srConflict, &spec.SRConflict{
					Symbol:     c.sym.num().Int(),
					State:      c.nextState.Int(),
					Production: c.prodNum.Int(),
				})
			case *reduceReduceConflict:
				rrConflict = append(rrConflict, &spec.RRConflict{
					Symbol:      c.sym.num().Int(),
					Production1: c.prodNum1.Int(),
					Production2: c.prodNum2.Int(),
				})
			}
		}

		states[state.num] = &spec.State{
			Number:     state.num.Int(),
			Kernel:     kernel,
			Shift:      shift,
			Reduce:     reduce,
			GoTo:       goTo,
			SRConflict: srConflict,
			RRConflict: rrConflict,
		}
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}
