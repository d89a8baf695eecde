package grammar

import "fmt"

type stateAndLRItem struct {
	kernelID kernelID
	itemID   lrItemID
}

type propagation struct {
	src  *stateAndLRItem
	dest []*stateAndLRItem
}

type lalr1Automaton struct {
	*lr0Automaton
}

// genLALR1Automaton computes LALR(1) look-aheads over the LR(0) skeleton
// using the spontaneous/propagated dichotomy: for each kernel item, the
// closure is taken with a propagation marker as its look-ahead; closure
// items that still carry the marker establish propagation edges, the
// others donate their look-aheads spontaneously. The edges are then closed
// by fixpoint.
func genLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet) (*lalr1Automaton, error) {
	// The initial item [S' →・S] receives the EOF look-ahead spontaneously.
	iniState := lr0.states[lr0.initialState]
	iniState.items[0].lookAhead.symbols = map[symbol]struct{}{
		symbolEOF: {},
	}

	var props []*propagation
	for _, state := range lr0.states {
		for _, kItem := range state.items {
			kItem.lookAhead.propagation = true

			items, err := genLALR1Closure(kItem, prods, first)
			if err != nil {
				return nil, err
			}

			var propDests []*stateAndLRItem
			for _, item := range items {
				if item.reducible {
					p, ok := prods.findByID(item.prod)
					if !ok {
						return nil, fmt.Errorf("production not found: %v", item.prod)
					}

					// A reducible item over an empty production never moves to a
					// successor state, so its look-aheads accumulate on the
					// state's own ε-production item.
					if p.isEmpty() {
						reducibleItem := findItemByID(state.emptyProdItems, item.id)
						if reducibleItem == nil {
							return nil, fmt.Errorf("reducible item not found: %v", item.id)
						}

						if item.lookAhead.propagation {
							propDests = append(propDests, &stateAndLRItem{
								kernelID: state.id,
								itemID:   item.id,
							})
						} else {
							if reducibleItem.lookAhead.symbols == nil {
								reducibleItem.lookAhead.symbols = map[symbol]struct{}{}
							}
							for a := range item.lookAhead.symbols {
								reducibleItem.lookAhead.symbols[a] = struct{}{}
							}
						}
					}

					continue
				}

				nextKID := state.next[item.dottedSymbol]
				var nextItemID lrItemID
				{
					p, ok := prods.findByID(item.prod)
					if !ok {
						return nil, fmt.Errorf("production not found: %v", item.prod)
					}
					it, err := newLR0Item(p, item.dot+1)
					if err != nil {
						return nil, fmt.Errorf("failed to generate an item ID: %v", err)
					}
					nextItemID = it.id
				}

				if item.lookAhead.propagation {
					propDests = append(propDests, &stateAndLRItem{
						kernelID: nextKID,
						itemID:   nextItemID,
					})
				} else {
					nextState := lr0.states[nextKID]
					nextItem := findItemByID(nextState.items, nextItemID)
					if nextItem == nil {
						return nil, fmt.Errorf("item not found: %v", nextItemID)
					}

					if nextItem.lookAhead.symbols == nil {
						nextItem.lookAhead.symbols = map[symbol]struct{}{}
					}
					for a := range item.lookAhead.symbols {
						nextItem.lookAhead.symbols[a] = struct{}{}
					}
				}
			}
			if len(propDests) == 0 {
				continue
			}

			props = append(props, &propagation{
				src: &stateAndLRItem{
					kernelID: state.id,
					itemID:   kItem.id,
				},
				dest: propDests,
			})
		}
	}

	err := propagateLookAhead(lr0, props)
	if err != nil {
		return nil, fmt.Errorf("failed to propagate look-ahead symbols: %v", err)
	}

	return &lalr1Automaton{
		lr0Automaton: lr0,
	}, nil
}

// genLALR1Closure takes the closure of a single kernel item carrying the
// propagation marker. Each generated item carries either one concrete
// look-ahead symbol or the marker; FIRST of the tail after the dotted
// non-terminal decides which, and a nullable tail lets the marker through.
func genLALR1Closure(srcItem *lrItem, prods *productionSet, first *firstSet) ([]*lrItem, error) {
	items := []*lrItem{}
	knownItems := map[lrItemID]map[symbol]struct{}{}
	knownItemsProp := map[lrItemID]struct{}{}
	uncheckedItems := []*lrItem{}
	items = append(items, srcItem)
	uncheckedItems = append(uncheckedItems, srcItem)
	for len(uncheckedItems) > 0 {
		nextUncheckedItems := []*lrItem{}
		for _, item := range uncheckedItems {
			if !item.dottedSymbol.isNonTerminal() {
				continue
			}

			p, ok := prods.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("production not found: %v", item.prod)
			}

			fst, err := first.find(p, item.dot+1)
			if err != nil {
				return nil, err
			}

			ps, _ := prods.findByLHS(item.dottedSymbol)
			for _, prod := range ps {
				var lookAhead []symbol
				{
					lookAhead = make([]symbol, 0, len(fst.symbols)+len(item.lookAhead.symbols))
					for s := range fst.symbols {
						lookAhead = append(lookAhead, s)
					}
					if fst.empty {
						for a := range item.lookAhead.symbols {
							lookAhead = append(lookAhead, a)
						}
					}
				}

				for _, a := range lookAhead {
					newItem, err := newLR0Item(prod, 0)
					if err != nil {
						return nil, err
					}
					if knownLAs, exist := knownItems[newItem.id]; exist {
						if _, exist := knownLAs[a]; exist {
							continue
						}
					}

					newItem.lookAhead.symbols = map[symbol]struct{}{
						a: {},
					}

					items = append(items, newItem)
					if knownItems[newItem.id] == nil {
						knownItems[newItem.id] = map[symbol]struct{}{}
					}
					knownItems[newItem.id][a] = struct{}{}
					nextUncheckedItems = append(nextUncheckedItems, newItem)
				}

				if fst.empty && item.lookAhead.propagation {
					newItem, err := newLR0Item(prod, 0)
					if err != nil {
						return nil, err
					}
					if _, exist := knownItemsProp[newItem.id]; exist {
						continue
					}

					newItem.lookAhead.propagation = true

					items = append(items, newItem)
					knownItemsProp[newItem.id] = struct{}{}
					nextUncheckedItems = append(nextUncheckedItems, newItem)
				}
			}
		}
		uncheckedItems = nextUncheckedItems
	}

	return items, nil
}

// propagateLookAhead floods look-ahead symbols along the propagation edges
// until no set grows. Cycles in the propagation graph need no special
// treatment; monotone growth over finite sets terminates.
func propagateLookAhead(lr0 *lr0Automaton, props []*propagation) error {
	for {
		changed := false
		for _, prop := range props {
			srcState, ok := lr0.states[prop.src.kernelID]
			if !ok {
				return fmt.Errorf("source state not found: %v", prop.src.kernelID)
			}
			srcItem := findItemByID(srcState.items, prop.src.itemID)
			if srcItem == nil {
				srcItem = findItemByID(srcState.emptyProdItems, prop.src.itemID)
				if srcItem == nil {
					return fmt.Errorf("source item not found: %v", prop.src.itemID)
				}
			}

			for _, dest := range prop.dest {
				destState, ok := lr0.states[dest.kernelID]
				if !ok {
					return fmt.Errorf("destination state not found: %v", dest.kernelID)
				}
				destItem := findItemByID(destState.items, dest.itemID)
				if destItem == nil {
					destItem = findItemByID(destState.emptyProdItems, dest.itemID)
					if destItem == nil {
						return fmt.Errorf("destination item not found: %v", dest.itemID)
					}
				}

				for a := range srcItem.lookAhead.symbols {
					if _, ok := destItem.lookAhead.symbols[a]; ok {
						continue
					}

					if destItem.lookAhead.symbols == nil {
						destItem.lookAhead.symbols = map[symbol]struct{}{}
					}

					destItem.lookAhead.symbols[a] = struct{}{}
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return nil
}

func findItemByID(items []*lrItem, id lrItemID) *lrItem {
	for _, item := range items {
		if item.id == id {
			return item
		}
	}
	return nil
}
