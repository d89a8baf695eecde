package grammar

import "fmt"

type followEntry struct {
	symbols map[symbol]struct{}
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol]struct{}{},
	}
}

func (e *followEntry) add(sym symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for sym := range fst.symbols {
			if e.add(sym) {
				changed = true
			}
		}
	}

	if flw != nil {
		for sym := range flw.symbols {
			if e.add(sym) {
				changed = true
			}
		}
		if flw.eof {
			if e.addEOF() {
				changed = true
			}
		}
	}

	return changed
}

type followSet struct {
	set map[symbol]*followEntry
}

func (flw *followSet) find(sym symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW of every non-terminal by fixpoint: FIRST of
// the tail after each occurrence flows in, and when the tail is nullable
// the FOLLOW of the enclosing LHS flows through.
func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := &followSet{
		set: map[symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}

	for {
		more := false
		for ntsym, e := range flw.set {
			if ntsym.isStart() {
				if e.addEOF() {
					more = true
				}
			}
			for _, prod := range prods.getAllProductions() {
				for i, sym := range prod.rhs {
					if sym != ntsym {
						continue
					}
					fst, err := first.find(prod, i+1)
					if err != nil {
						return nil, err
					}
					if e.merge(fst, nil) {
						more = true
					}
					if fst.empty {
						lhsFlw, err := flw.find(prod.lhs)
						if err != nil {
							return nil, err
						}
						if e.merge(nil, lhsFlw) {
							more = true
						}
					}
				}
			}
		}
		if !more {
			break
		}
	}

	return flw, nil
}
