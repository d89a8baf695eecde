package driver

import (
	"io"

	mldriver "github.com/nihei9/maleeni/driver"

	"github.com/grackle-lang/grackle/spec"
)

// Token is one unit of input. End of input is a token whose EOF method
// reports true.
type Token interface {
	// TerminalID returns the terminal number the token is tagged with.
	TerminalID() int

	// Lexeme returns the matched text.
	Lexeme() []byte

	// EOF returns true when the token stream is exhausted.
	EOF() bool

	// Invalid returns true when the token is an error token the lexer could
	// not match.
	Invalid() bool

	// Skip returns true when the parser must discard the token.
	Skip() bool

	// Position returns the row and column the token starts at.
	Position() (int, int)
}

// TokenStream is the parser's input: an iterator over tokens. The parser
// consumes tokens strictly in the order the stream delivers them.
type TokenStream interface {
	Next() (Token, error)
}

type token struct {
	terminalID int
	skip       bool
	tok        *mldriver.Token
}

func (t *token) TerminalID() int {
	return t.terminalID
}

func (t *token) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *token) EOF() bool {
	return t.tok.EOF
}

func (t *token) Invalid() bool {
	return t.tok.Invalid
}

func (t *token) Skip() bool {
	return t.skip
}

func (t *token) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
}

// NewTokenStream runs the compiled grammar's lexical specification over a
// source and yields tokens tagged with terminal numbers.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.LexicalSpecification.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: g.LexicalSpecification.Maleeni.KindToTerminal,
		skip:           g.LexicalSpecification.Maleeni.Skip,
	}, nil
}

func (l *tokenStream) Next() (Token, error) {
	tok, err := l.lex.Next()
	if err != nil {
		return nil, err
	}
	return &token{
		terminalID: l.kindToTerminal[tok.KindID],
		skip:       l.skip[tok.KindID] > 0,
		tok:        tok,
	}, nil
}
