package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/wgomg/agenthub/internal/expr"
)

type Math struct {
	token string
}

// NewMath returns the token-guarded evaluator. Callers must present token.
func NewMath(token string) *Math {
	return &Math{token: token}
}

func (m *Math) Name() string {
	return "math"
}

func (m *Math) Run(_ context.Context, in Input) (any, error) {
	if in.Params.String("token", "TOKEN") != m.token {
		return nil, fail(ErrUnauthorized, "Invalid token. Access denied.")
	}

	expression := in.Params.String("expression", "EXPRESSION")
	if strings.TrimSpace(expression) == "" {
		return nil, fail(ErrMissingParameter, "Expression cannot be empty.")
	}

	result, err := expr.Evaluate(expression)
	if err != nil {
		return nil, &Failure{Msg: err.Error(), Err: err}
	}

	return map[string]any{"result": result}, nil
}

// Calculator evaluates an expression and shares it through the relay first.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Name() string {
	return "calculator"
}

func (c *Calculator) Run(ctx context.Context, in Input) (any, error) {
	expression := in.Params.String("expression", "EXPRESSION")
	if expression == "" {
		return nil, fail(ErrMissingParameter, "EXPRESSION is not set.")
	}

	shared := map[string]any{
		"expression":      expression,
		"previous_result": nil,
	}

	updated, err := in.Relay.SendContext(ctx, shared)
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %w", ErrRelay, err), "Failed to update context: %v", err)
	}

	result, err := expr.Evaluate(expression)
	if err != nil {
		return nil, fail(err, "Failed to evaluate expression: %v", err)
	}

	return map[string]any{"result": result, "context": updated}, nil
}
