package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wgomg/agenthub/internal/config"
	"github.com/wgomg/agenthub/internal/utils"
	"github.com/wgomg/agenthub/internal/utils/httputils"
)

// Client talks to a remote context relay. Transport failures and non-2xx
// answers are logged and degrade to the caller's own context, so an
// unavailable relay never fails an agent. Undecodable answers are errors.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *utils.Logger
}

func NewClient(cfg *config.Config, logger *utils.Logger) (*Client, error) {
	if cfg.Relay.Endpoint == "" || cfg.Relay.APIKey == "" {
		return nil, fmt.Errorf("RELAY_ENDPOINT and RELAY_API_KEY are required")
	}

	return &Client{
		baseURL: cfg.Relay.Endpoint,
		apiKey:  cfg.Relay.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

func (c *Client) Enabled() bool {
	return true
}

func (c *Client) SendContext(ctx context.Context, data map[string]any) (map[string]any, error) {
	reqID := utils.RequestID(ctx)
	url := fmt.Sprintf("%s/send", c.baseURL)

	body, err := json.Marshal(sendRequest{Context: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode context: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	c.logger.Debug(&reqID, "Sending context to relay %s", url)
	updated, err := c.do(req, reqID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if isDecodeError(err) {
			return nil, err
		}
		c.logger.Warn(&reqID, "Error sending context to relay, keeping original context: %v", err)
		return data, nil
	}

	return updated, nil
}

func (c *Client) GetResponse(ctx context.Context) (map[string]any, error) {
	reqID := utils.RequestID(ctx)
	url := fmt.Sprintf("%s/response", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAuthHeaders(req)

	c.logger.Debug(&reqID, "Fetching relay response from %s", url)
	response, err := c.do(req, reqID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if isDecodeError(err) {
			return nil, err
		}
		c.logger.Warn(&reqID, "Error getting response from relay: %v", err)
		return map[string]any{}, nil
	}

	return response, nil
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("failed to decode relay response: %v", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

func isDecodeError(err error) bool {
	_, ok := err.(*decodeError)
	return ok
}

func (c *Client) do(req *http.Request, reqID string) (map[string]any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	_, err = httputils.LogResponseBody(resp, c.logger, reqID)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleAPIError(resp)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &decodeError{err: err}
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return payload, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
}

func (c *Client) handleAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Body:       string(body),
	}
}
