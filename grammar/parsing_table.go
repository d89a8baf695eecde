package grammar

import (
	"fmt"
	"sort"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

// actionEntry packs a table action into an int: negative values shift to
// state -n, positive values reduce production n, zero is the empty cell.
// Acceptance is the reduction of the augmented production; the driver
// recognizes it by the production number.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

// goToEntry packs a goto cell: the target state number, or zero for the
// empty cell. The initial state is never a goto target, so zero is
// unambiguous.
type goToEntry uint

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state     stateNum
	sym       symbol
	nextState stateNum
	prodNum   productionNum
}

func (c *shiftReduceConflict) conflict() {
}

type reduceReduceConflict struct {
	state    stateNum
	sym      symbol
	prodNum1 productionNum
	prodNum2 productionNum
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	// expectedTerminals[state] lists the terminal numbers for which the state
	// has a non-empty action cell. The driver uses it for error messages.
	expectedTerminals [][]int

	InitialState stateNum
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.num().Int()
	t.goToTable[pos] = newGoToEntry(nextState)
}

type lrTableBuilder struct {
	automaton    *lr0Automaton
	prods        *productionSet
	termCount    int
	nonTermCount int
	symTab       *symbolTable

	conflicts []conflict
}

// build emits the action and goto tables from an automaton whose items
// already carry look-ahead symbols. Conflicting cells keep their first
// entry; every collision is recorded so the caller can fail construction
// with the complete list.
func (b *lrTableBuilder) build() (*ParsingTable, error) {
	initialState := b.automaton.states[b.automaton.initialState]
	ptab := &ParsingTable{
		actionTable:       make([]actionEntry, len(b.automaton.states)*b.termCount),
		goToTable:         make([]goToEntry, len(b.automaton.states)*b.nonTermCount),
		stateCount:        len(b.automaton.states),
		terminalCount:     b.termCount,
		nonTerminalCount:  b.nonTermCount,
		expectedTerminals: make([][]int, len(b.automaton.states)),
		InitialState:      initialState.num,
	}

	for _, state := range b.automaton.states {
		var eTerms []int

		for sym, kID := range state.next {
			nextState := b.automaton.states[kID]
			if sym.isTerminal() {
				eTerms = append(eTerms, sym.num().Int())
				b.writeShiftAction(ptab, state.num, sym, nextState.num)
			} else {
				ptab.writeGoTo(state.num, sym, nextState.num)
			}
		}

		for prodID := range state.reducible {
			reducibleProd, ok := b.prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodID)
			}

			reducibleItem := findItemByProduction(state, prodID)
			if reducibleItem == nil {
				return nil, fmt.Errorf("reducible item not found; state: %v, production: %v", state.num, reducibleProd.num)
			}

			for a := range reducibleItem.lookAhead.symbols {
				eTerms = append(eTerms, a.num().Int())
				b.writeReduceAction(ptab, state.num, a, reducibleProd.num)
			}
		}

		sort.Ints(eTerms)
		ptab.expectedTerminals[state.num] = eTerms
	}

	b.sortConflicts()

	return ptab, nil
}

func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym symbol, nextState stateNum) {
	act := tab.readAction(state.Int(), sym.num().Int())
	if !act.isEmpty() {
		ty, _, p := act.describe()
		if ty == ActionTypeReduce {
			b.conflicts = append(b.conflicts, &shiftReduceConflict{
				state:     state,
				sym:       sym,
				nextState: nextState,
				prodNum:   p,
			})
			return
		}
	}
	tab.writeAction(state.Int(), sym.num().Int(), newShiftActionEntry(nextState))
}

func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym symbol, prod productionNum) {
	act := tab.readAction(state.Int(), sym.num().Int())
	if !act.isEmpty() {
		ty, s, p := act.describe()
		switch ty {
		case ActionTypeReduce:
			if p == prod {
				return
			}
			b.conflicts = append(b.conflicts, &reduceReduceConflict{
				state:    state,
				sym:      sym,
				prodNum1: p,
				prodNum2: prod,
			})
		case ActionTypeShift:
			b.conflicts = append(b.conflicts, &shiftReduceConflict{
				state:     state,
				sym:       sym,
				nextState: s,
				prodNum:   prod,
			})
		}
		return
	}
	tab.writeAction(state.Int(), sym.num().Int(), newReduceActionEntry(prod))
}

// sortConflicts orders the recorded conflicts by state and trigger symbol
// so that reports don't depend on map iteration order.
func (b *lrTableBuilder) sortConflicts() {
	key := func(c conflict) (stateNum, symbol) {
		switch c := c.(type) {
		case *shiftReduceConflict:
			return c.state, c.sym
		case *reduceReduceConflict:
			return c.state, c.sym
		}
		return 0, symbolNil
	}
	sort.SliceStable(b.conflicts, func(i, j int) bool {
		si, yi := key(b.conflicts[i])
		sj, yj := key(b.conflicts[j])
		if si != sj {
			return si < sj
		}
		return yi < yj
	})
}
