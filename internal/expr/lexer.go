package expr

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	op    Op
	value float64
	pos   int
	text  string
}

type lexer struct {
	src string
	pos int
}

func tokenize(src string) ([]token, error) {
	lx := &lexer{src: src}
	var toks []token

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) peekRune(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos+offset:])
	return r
}

func (lx *lexer) next() (token, error) {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		lx.pos += size
	}

	start := lx.pos
	if start >= len(lx.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	r, size := utf8.DecodeRuneInString(lx.src[start:])

	switch {
	case isDigit(r) || (r == '.' && isDigit(lx.peekRune(1))):
		return lx.number()
	case r == '(':
		lx.pos += size
		return token{kind: tokLParen, pos: start, text: "("}, nil
	case r == ')':
		lx.pos += size
		return token{kind: tokRParen, pos: start, text: ")"}, nil
	case r == '+':
		return lx.op(OpAdd, 1), nil
	case r == '-':
		return lx.op(OpSub, 1), nil
	case r == '%':
		return lx.op(OpMod, 1), nil
	case r == '*':
		if lx.peekRune(1) == '*' {
			return lx.op(OpPow, 2), nil
		}
		return lx.op(OpMul, 1), nil
	case r == '/':
		if lx.peekRune(1) == '/' {
			return lx.op(OpFloorDiv, 2), nil
		}
		return lx.op(OpDiv, 1), nil
	case r == '_' || unicode.IsLetter(r):
		name := lx.word()
		return token{}, errorf("names are not allowed: %q at position %d", name, start)
	case r == '"' || r == '\'':
		return token{}, errorf("string literals are not allowed at position %d", start)
	default:
		return token{}, errorf("unsupported character %q at position %d", r, start)
	}
}

func (lx *lexer) op(op Op, width int) token {
	tok := token{kind: tokOp, op: op, pos: lx.pos, text: lx.src[lx.pos : lx.pos+width]}
	lx.pos += width
	return tok
}

func (lx *lexer) word() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		lx.pos += size
	}
	return lx.src[start:lx.pos]
}

func (lx *lexer) number() (token, error) {
	start := lx.pos
	lx.digits()

	if lx.peekRune(0) == '.' {
		lx.pos++
		lx.digits()
	}

	if c := lx.peekRune(0); c == 'e' || c == 'E' {
		mark := lx.pos
		lx.pos++
		if s := lx.peekRune(0); s == '+' || s == '-' {
			lx.pos++
		}
		if !isDigit(lx.peekRune(0)) {
			lx.pos = mark
			return token{}, errorf("malformed exponent in number at position %d", start)
		}
		lx.digits()
	}

	if c := lx.peekRune(0); c == '_' || c == '.' || unicode.IsLetter(c) {
		return token{}, errorf("invalid number literal %q at position %d", lx.src[start:lx.pos]+string(c), start)
	}

	text := lx.src[start:lx.pos]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, errorf("invalid number literal %q at position %d", text, start)
	}

	return token{kind: tokNumber, value: value, pos: start, text: text}, nil
}

func (lx *lexer) digits() {
	for lx.pos < len(lx.src) && isDigit(rune(lx.src[lx.pos])) {
		lx.pos++
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
