package relay

import (
	"context"
	"maps"
)

// Local is the in-process relay used when no endpoint is configured. It hands
// every context back unchanged and keeps nothing between calls, so one
// request's context never leaks into another.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Enabled() bool {
	return false
}

// SendContext returns a copy of data.
func (l *Local) SendContext(ctx context.Context, data map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return maps.Clone(data), nil
}

// GetResponse always returns an empty map; nothing was sent anywhere.
func (l *Local) GetResponse(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return map[string]any{}, nil
}
