package driver

import "fmt"

type ParserOption func(p *Parser) error

// SemanticContext sets the opaque value the parser passes to every
// semantic action invocation.
func SemanticContext(ctx interface{}) ParserOption {
	return func(p *Parser) error {
		p.ctx = ctx
		return nil
	}
}

// semanticFrame pairs a state-stack entry with the semantic value the
// corresponding symbol carries. fromToken records whether the value came
// from a shift or from a reduce.
type semanticFrame struct {
	fromToken bool
	value     interface{}
}

// Parser is the table-driven shift/reduce driver. It owns its two stacks
// exclusively for the duration of a parse; the tables are shared immutable
// state. The state stack is always one entry longer than the semantic
// stack.
type Parser struct {
	gram       Grammar
	ts         TokenStream
	ctx        interface{}
	stateStack []int
	semStack   []*semanticFrame
}

func NewParser(gram Grammar, ts TokenStream, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		gram: gram,
		ts:   ts,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse drives the per-token loop until the input is exhausted, then
// drains the remaining reductions on the EOF column until acceptance. The
// result is the semantic value of the start symbol.
func (p *Parser) Parse() (interface{}, error) {
	p.stateStack = []int{p.gram.InitialState()}
	p.semStack = []*semanticFrame{}

	tok, err := p.nextToken()
	if err != nil {
		return nil, err
	}

	// Consuming: within a single token, reductions run before the shift
	// that finally consumes it.
	for !tok.EOF() {
		terminal := tok.TerminalID()
		act := p.gram.Action(p.top(), terminal)
		switch {
		case act < 0: // Shift
			v, err := p.tokenValue(terminal, tok)
			if err != nil {
				return nil, err
			}
			p.push(act*-1, &semanticFrame{
				fromToken: true,
				value:     v,
			})

			tok, err = p.nextToken()
			if err != nil {
				return nil, err
			}
		case act > 0: // Reduce, then re-feed the same token.
			err := p.reduce(act)
			if err != nil {
				return nil, err
			}
		default:
			return nil, p.syntaxError(tok)
		}
	}

	// Draining
	for {
		act := p.gram.Action(p.top(), p.gram.EOF())
		if act <= 0 {
			return nil, p.syntaxError(nil)
		}
		if act == p.gram.StartProduction() { // Accept
			return p.semStack[len(p.semStack)-1].value, nil
		}
		err := p.reduce(act)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) nextToken() (Token, error) {
	for {
		tok, err := p.ts.Next()
		if err != nil {
			return nil, &LexicalError{
				State: p.top(),
				Cause: err,
			}
		}
		if tok.Invalid() {
			row, col := tok.Position()
			return nil, &LexicalError{
				State: p.top(),
				Cause: fmt.Errorf("invalid token: %v:%v: '%v'", row+1, col+1, string(tok.Lexeme())),
			}
		}
		if tok.Skip() {
			continue
		}
		return tok, nil
	}
}

func (p *Parser) tokenValue(terminal int, tok Token) (interface{}, error) {
	if conv := p.gram.TokenValue(terminal); conv != nil {
		v, err := conv(tok.Lexeme())
		if err != nil {
			row, col := tok.Position()
			return nil, fmt.Errorf("%v:%v: failed to make a token value: %w", row+1, col+1, err)
		}
		return v, nil
	}
	return p.tokenNode(terminal, tok), nil
}

// reduce pops one production's worth of frames, runs its semantic action,
// and pushes the goto state with the resulting head value.
func (p *Parser) reduce(prodNum int) error {
	n := p.gram.AlternativeSymbolCount(prodNum)
	lhs := p.gram.LHS(prodNum)

	frames := p.semStack[len(p.semStack)-n:]
	var value interface{}
	if act := p.gram.SemanticAction(prodNum); act != nil {
		values := make([]interface{}, n)
		for i, f := range frames {
			values[i] = f.value
		}
		v, err := act(p.ctx, values)
		if err != nil {
			return fmt.Errorf("semantic action failed: production %v: %w", prodNum, err)
		}
		value = v
	} else {
		value = p.nonTerminalNode(lhs, frames)
	}

	p.pop(n)

	next := p.gram.GoTo(p.top(), lhs)
	if next == 0 {
		// Unreachable with a consistently built table.
		return fmt.Errorf("goto not found; state: %v, non-terminal: %v", p.top(), p.gram.NonTerminal(lhs))
	}
	p.push(next, &semanticFrame{
		value: value,
	})

	return nil
}

func (p *Parser) syntaxError(tok Token) *SyntaxError {
	var expected []string
	for _, t := range p.gram.ExpectedTerminals(p.top()) {
		expected = append(expected, p.gram.Terminal(t))
	}

	values := make([]interface{}, len(p.semStack))
	for i, f := range p.semStack {
		values[i] = f.value
	}

	return &SyntaxError{
		State:          p.top(),
		Token:          tok,
		EOF:            tok == nil,
		Expected:       expected,
		StateStack:     append([]int{}, p.stateStack...),
		SemanticValues: values,
	}
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int, frame *semanticFrame) {
	p.stateStack = append(p.stateStack, state)
	p.semStack = append(p.semStack, frame)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
	p.semStack = p.semStack[:len(p.semStack)-n]
}
