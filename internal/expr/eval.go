package expr

import (
	"math"
)

// Evaluate parses and evaluates expression. The whole expression is parsed
// and checked before any arithmetic runs.
func Evaluate(expression string) (float64, error) {
	node, err := Parse(expression)
	if err != nil {
		return 0, err
	}
	return Eval(node)
}

func Eval(node Node) (float64, error) {
	var (
		result float64
		err    error
	)

	switch n := node.(type) {
	case *Number:
		result = n.Value
	case *Unary:
		result, err = evalUnary(n)
	case *Binary:
		result, err = evalBinary(n)
	default:
		return 0, errorf("unsupported node %T", node)
	}
	if err != nil {
		return 0, err
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, errorf("result is not a finite number")
	}
	return result, nil
}

func evalUnary(n *Unary) (float64, error) {
	x, err := Eval(n.X)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case OpAdd:
		return x, nil
	case OpSub:
		return -x, nil
	default:
		return 0, errorf("unsupported unary operator %s", n.Op)
	}
}

func evalBinary(n *Binary) (float64, error) {
	x, err := Eval(n.X)
	if err != nil {
		return 0, err
	}
	y, err := Eval(n.Y)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return 0, errorf("division by zero")
		}
		return x / y, nil
	case OpFloorDiv:
		if y == 0 {
			return 0, errorf("integer division or modulo by zero")
		}
		return math.Floor(x / y), nil
	case OpMod:
		if y == 0 {
			return 0, errorf("integer division or modulo by zero")
		}
		return floorMod(x, y), nil
	case OpPow:
		if x == 0 && y < 0 {
			return 0, errorf("zero cannot be raised to a negative power")
		}
		return math.Pow(x, y), nil
	default:
		return 0, errorf("unsupported operator %s", n.Op)
	}
}

// floorMod returns a remainder with the sign of the divisor.
func floorMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}
