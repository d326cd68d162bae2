package expr

import (
	"strings"
)

// MaxDepth bounds parenthesis and sign nesting.
const MaxDepth = 64

// MaxOperations bounds the number of binary operators in one expression.
// Left-associative chains are not nested, so MaxDepth alone does not limit
// the height of the tree.
const MaxOperations = 1024

type parser struct {
	toks  []token
	pos   int
	depth int
	ops   int
}

// Parse builds a syntax tree from an infix arithmetic expression.
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/' | '//' | '%') unary)*
//	unary   := ('+' | '-') unary | power
//	power   := primary ('**' unary)?
//	primary := NUMBER | '(' expr ')'
func Parse(src string) (Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errorf("expression is empty")
	}

	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		return nil, errorf("unexpected %q at position %d", tok.text, tok.pos)
	}

	return node, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(ops ...Op) (Op, bool) {
	tok := p.peek()
	if tok.kind != tokOp {
		return 0, false
	}
	for _, op := range ops {
		if tok.op == op {
			return op, true
		}
	}
	return 0, false
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return errorf("expression is nested deeper than %d levels", MaxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) fold() error {
	p.ops++
	if p.ops > MaxOperations {
		return errorf("expression has more than %d operations", MaxOperations)
	}
	return nil
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.isOp(OpAdd, OpSub)
		if !ok {
			return left, nil
		}
		p.advance()
		if err := p.fold(); err != nil {
			return nil, err
		}

		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.isOp(OpMul, OpDiv, OpFloorDiv, OpMod)
		if !ok {
			return left, nil
		}
		p.advance()
		if err := p.fold(); err != nil {
			return nil, err
		}

		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

func (p *parser) unary() (Node, error) {
	op, ok := p.isOp(OpAdd, OpSub)
	if !ok {
		return p.power()
	}
	p.advance()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Unary{Op: op, X: operand}, nil
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}

	if _, ok := p.isOp(OpPow); !ok {
		return base, nil
	}
	p.advance()
	if err := p.fold(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	exponent, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, X: base, Y: exponent}, nil
}

func (p *parser) primary() (Node, error) {
	tok := p.advance()

	switch tok.kind {
	case tokNumber:
		return &Number{Value: tok.value}, nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokRParen {
			if closing.kind == tokEOF {
				return nil, errorf("missing closing parenthesis")
			}
			return nil, errorf("expected ')' at position %d, found %q", closing.pos, closing.text)
		}
		return inner, nil
	case tokEOF:
		return nil, errorf("unexpected end of expression")
	default:
		return nil, errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
}
