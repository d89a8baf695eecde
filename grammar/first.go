package grammar

import "fmt"

type firstEntry struct {
	symbols map[symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol]struct{}{},
	}
}

func (e *firstEntry) add(sym symbol) {
	e.symbols[sym] = struct{}{}
}

func (e *firstEntry) addEmpty() {
	e.empty = true
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) {
	if target == nil {
		return
	}
	for sym := range target.symbols {
		e.add(sym)
	}
}

// firstSet computes FIRST on demand. Descent through left-recursive
// productions is cut off by a visited set of production ids; a result
// computed with an empty visited set is complete and is memoized per
// symbol. Sequence results are never memoized.
type firstSet struct {
	prods *productionSet
	memo  map[symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	return &firstSet{
		prods: prods,
		memo:  map[symbol]*firstEntry{},
	}
}

// find computes FIRST of the tail of a production's RHS starting at head.
// FIRST of an empty sequence is the empty set with the empty flag on.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	if head >= prod.rhsLen {
		entry := newFirstEntry()
		entry.addEmpty()
		return entry, nil
	}
	return fst.seqFirst(prod.rhs[head:], map[productionID]struct{}{})
}

func (fst *firstSet) findBySymbol(sym symbol) (*firstEntry, error) {
	if sym.isTerminal() {
		entry := newFirstEntry()
		entry.add(sym)
		return entry, nil
	}
	return fst.symbolFirst(sym, map[productionID]struct{}{})
}

func (fst *firstSet) seqFirst(seq []symbol, visited map[productionID]struct{}) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range seq {
		if sym.isTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e, err := fst.symbolFirst(sym, visited)
		if err != nil {
			return nil, err
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) symbolFirst(sym symbol, visited map[productionID]struct{}) (*firstEntry, error) {
	if e, ok := fst.memo[sym]; ok {
		return e, nil
	}

	prods, ok := fst.prods.findByLHS(sym)
	if !ok {
		return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
	}

	// Only a computation that starts with no pruned productions sees every
	// derivation, so only that result may be cached.
	complete := len(visited) == 0

	entry := newFirstEntry()
	for _, prod := range prods {
		if _, done := visited[prod.id]; done {
			continue
		}
		visited[prod.id] = struct{}{}

		e, err := fst.seqFirst(prod.rhs, visited)
		if err != nil {
			return nil, err
		}
		entry.mergeExceptEmpty(e)
		if e.empty {
			entry.addEmpty()
		}
	}

	if complete {
		fst.memo[sym] = entry
	}
	return entry, nil
}
