package expr

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is matched by every error returned from Parse, Eval
// and Evaluate.
var ErrInvalidExpression = errors.New("invalid expression")

type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return "Invalid expression: " + e.Msg
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidExpression
}

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
