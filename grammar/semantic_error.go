package grammar

import "errors"

var (
	semErrNoGrammarName          = errors.New("name is missing")
	semErrNoProduction           = errors.New("a grammar needs at least one production")
	semErrNoStartSymbol          = errors.New("a grammar needs just one start symbol")
	semErrStartNotNonTerminal    = errors.New("a start symbol must be a non-terminal symbol")
	semErrUndefinedSym           = errors.New("undefined symbol")
	semErrUnreachableNonTerminal = errors.New("a non-terminal symbol has no production")
	semErrDuplicateProduction    = errors.New("duplicate production")
	semErrDuplicateTerminal      = errors.New("duplicate terminal")
	semErrDuplicateNonTerminal   = errors.New("duplicate non-terminal")
	semErrDuplicateName          = errors.New("duplicate names are not allowed between terminals and non-terminals")
	semErrEmptyPattern           = errors.New("a terminal needs a pattern")
	semErrShiftReduceConflict    = errors.New("shift/reduce conflict")
	semErrReduceReduceConflict   = errors.New("reduce/reduce conflict")
)
