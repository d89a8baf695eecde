package driver

import (
	"fmt"
	"strings"
)

// SyntaxError reports the first point where the input stopped matching the
// grammar: the faulting state, the offending token (nil at end of input),
// and the terminals the state had actions for. The stack snapshots let
// callers render the parse context at failure.
type SyntaxError struct {
	State    int
	Token    Token
	EOF      bool
	Expected []string

	StateStack     []int
	SemanticValues []interface{}
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.EOF {
		fmt.Fprintf(&b, "unexpected end of input")
	} else {
		row, col := e.Token.Position()
		fmt.Fprintf(&b, "%v:%v: unexpected token: '%v'", row+1, col+1, string(e.Token.Lexeme()))
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ", expected: %v", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// LexicalError surfaces a token-source failure along with the parser state
// at the point the lexer gave up.
type LexicalError struct {
	State int
	Cause error
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error: %v", e.Cause)
}

func (e *LexicalError) Unwrap() error {
	return e.Cause
}
