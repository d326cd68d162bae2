package utils

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const reqIDKey ctxKey = "reqid"

func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, reqIDKey, reqID)
}

// RequestID returns the id stored by WithRequestID, or "" outside a request.
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(reqIDKey).(string)
	return reqID
}
