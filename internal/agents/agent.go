package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/wgomg/agenthub/internal/relay"
)

var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrRelay            = errors.New("relay failure")
)

// Agent is a named unit of work invoked by the HTTP, MCP and CLI surfaces.
type Agent interface {
	Name() string
	Run(ctx context.Context, in Input) (any, error)
}

// Input carries everything a single invocation needs. Nothing about a
// request outlives the call.
type Input struct {
	Params Params
	Relay  relay.Relay
}

// Failure is an error the agent reports to its caller. Msg is shown verbatim
// in the "error" field of the response.
type Failure struct {
	Msg string
	Err error
}

func (f *Failure) Error() string {
	return f.Msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(err error, format string, args ...any) *Failure {
	return &Failure{Msg: fmt.Sprintf(format, args...), Err: err}
}

// Params holds the raw parameters of one invocation: query values, a JSON
// body or CLI key=value pairs.
type Params map[string]any

// Lookup returns the first key present. Exact matches win over
// case-insensitive ones.
func (p Params) Lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := p[key]; ok {
			return v, true
		}
	}
	for _, key := range keys {
		for k, v := range p {
			if strings.EqualFold(k, key) {
				return v, true
			}
		}
	}
	return nil, false
}

// String returns the parameter as a string, or "" when it is absent or has
// no string form.
func (p Params) String(keys ...string) string {
	v, ok := p.Lookup(keys...)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func (p Params) Int(def int, keys ...string) (int, error) {
	v, ok := p.Lookup(keys...)
	if !ok || v == nil || v == "" {
		return def, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %v", ErrInvalidParameter, keys[0], err)
	}
	return n, nil
}

type funcAgent struct {
	name string
	run  func(ctx context.Context, in Input) (any, error)
}

func (f *funcAgent) Name() string {
	return f.name
}

func (f *funcAgent) Run(ctx context.Context, in Input) (any, error) {
	return f.run(ctx, in)
}

// NewFunc adapts a plain function into an Agent.
func NewFunc(name string, run func(ctx context.Context, in Input) (any, error)) Agent {
	return &funcAgent{name: name, run: run}
}
