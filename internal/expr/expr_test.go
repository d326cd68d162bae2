package expr

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"3 + 4 * 2", 11},
		{"3 * (4 + 2)", 18},
		{"2+2", 4},
		{"10 / 4", 2.5},
		{"2 ** 3 ** 2", 512},
		{"-2 ** 2", -4},
		{"2 ** -1", 0.5},
		{"(-2) ** 2", 4},
		{"7 // 2", 3},
		{"-7 // 2", -4},
		{"7 % 3", 1},
		{"-7 % 3", 2},
		{"7 % -3", -2},
		{"2 * 3 % 4", 2},
		{"(1 + 2) * -3", -9},
		{"--3", 3},
		{"+5", 5},
		{".5 + 1.", 1.5},
		{"1e3 / 10", 100},
		{"  ( ( 1 ) )  ", 1},
		{"8 - 3 - 2", 3},
		{"100 / 10 / 5", 2},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEvaluateRejects(t *testing.T) {
	tests := []struct {
		name string
		expr string
		msg  string
	}{
		{"empty", "", "expression is empty"},
		{"blank", "   ", "expression is empty"},
		{"division by zero", "1/0", "division by zero"},
		{"floor division by zero", "1 // 0", "modulo by zero"},
		{"modulo by zero", "5 % 0", "modulo by zero"},
		{"zero to negative power", "0 ** -1", "negative power"},
		{"import", "__import__('os')", "names are not allowed"},
		{"call", "open('x')", "names are not allowed"},
		{"name", "x + 1", "names are not allowed"},
		{"string literal", "'a' * 3", "string literals are not allowed"},
		{"comparison", "1 < 2", "unsupported character"},
		{"bitwise", "1 & 2", "unsupported character"},
		{"equality", "1 == 1", "unsupported character"},
		{"subscript", "[1]", "unsupported character"},
		{"unclosed paren", "(1 + 2", "missing closing parenthesis"},
		{"dangling operator", "1 +", "unexpected end of expression"},
		{"juxtaposed numbers", "2 3", `unexpected "3"`},
		{"empty parens", "()", `unexpected ")"`},
		{"bad exponent", "1e", "malformed exponent"},
		{"number suffix", "2x", "invalid number literal"},
		{"two decimal points", "1.2.3", "invalid number literal"},
		{"overflow", "10 ** 400", "not a finite number"},
		{"complex result", "(-8) ** 0.5", "not a finite number"},
		{"too deep", strings.Repeat("(", MaxDepth+1) + "1" + strings.Repeat(")", MaxDepth+1), "nested deeper"},
		{"long sum", "1" + strings.Repeat("+1", 200_000), "more than 1024 operations"},
		{"long product", "1" + strings.Repeat("*1", MaxOperations+1), "more than 1024 operations"},
		{"ops split across parens", "(1" + strings.Repeat("+1", MaxOperations/2) + ")" + strings.Repeat("-1", MaxOperations/2+1), "more than 1024 operations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.Error(t, err)
			assert.Zero(t, got)
			assert.True(t, errors.Is(err, ErrInvalidExpression))
			assert.True(t, strings.HasPrefix(err.Error(), "Invalid expression: "), err.Error())
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseShape(t *testing.T) {
	tests := map[string]string{
		"1 + 2 * 3":   "(1 + (2 * 3))",
		"-2 ** 2":     "(-(2 ** 2))",
		"2 ** 3 ** 2": "(2 ** (3 ** 2))",
		"8 - 3 - 2":   "((8 - 3) - 2)",
		"7 // 2 % 3":  "((7 // 2) % 3)",
	}

	for src, want := range tests {
		node, err := Parse(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, node.String(), src)
	}
}

func TestParseAcceptsNestingUpToLimit(t *testing.T) {
	src := strings.Repeat("(", MaxDepth) + "1" + strings.Repeat(")", MaxDepth)
	got, err := Evaluate(src)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestParseAcceptsOperationsUpToLimit(t *testing.T) {
	got, err := Evaluate("0" + strings.Repeat("+1", MaxOperations))
	require.NoError(t, err)
	assert.Equal(t, float64(MaxOperations), got)
}

func TestEvalRejectsForeignNode(t *testing.T) {
	_, err := Eval(nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)
}

func TestEvaluateIsDeterministicUnderConcurrency(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]float64, 32)

	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Evaluate("3 * (4 + 2) ** 2 / 7")
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
