package expr

import (
	"strconv"
)

type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

var opSymbols = map[Op]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
}

func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Node is a syntax tree node. The only implementations are Number, Unary and
// Binary; the parser cannot produce anything else.
type Node interface {
	String() string
	node()
}

type Number struct {
	Value float64
}

// Unary is a sign applied to an operand. Only OpAdd and OpSub are valid.
type Unary struct {
	Op Op
	X  Node
}

type Binary struct {
	Op   Op
	X, Y Node
}

func (*Number) node() {}
func (*Unary) node()  {}
func (*Binary) node() {}

func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *Unary) String() string {
	return "(" + n.Op.String() + n.X.String() + ")"
}

func (n *Binary) String() string {
	return "(" + n.X.String() + " " + n.Op.String() + " " + n.Y.String() + ")"
}
