package relay

import (
	"context"
	"fmt"

	"github.com/wgomg/agenthub/internal/config"
	"github.com/wgomg/agenthub/internal/utils"
)

// Relay forwards an opaque context blob to an external service and returns
// whatever the service hands back.
type Relay interface {
	SendContext(ctx context.Context, data map[string]any) (map[string]any, error)
	GetResponse(ctx context.Context) (map[string]any, error)
	// Enabled reports whether a remote endpoint is behind the relay.
	Enabled() bool
}

type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("relay API error %d: %s", e.StatusCode, e.Message)
}

type sendRequest struct {
	Context map[string]any `json:"context"`
}

// New returns an HTTP relay when an endpoint is configured and a Local relay otherwise.
func New(cfg *config.Config, logger *utils.Logger) (Relay, error) {
	if !cfg.RelayEnabled() {
		logger.Info(nil, "Relay endpoint not configured, using local relay")
		return NewLocal(), nil
	}

	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info(nil, "Relaying agent context to %s", cfg.Relay.Endpoint)
	return client, nil
}
