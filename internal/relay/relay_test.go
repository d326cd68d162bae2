package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgomg/agenthub/internal/config"
	"github.com/wgomg/agenthub/internal/utils"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Relay.Endpoint = server.URL
	cfg.Relay.APIKey = "secret"

	client, err := NewClient(cfg, utils.NewDiscardLogger())
	require.NoError(t, err)
	return client
}

func TestClientSendContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/send", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1 + 1", body.Context["expression"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expression": "1 + 1", "previous_result": 2}`))
	})

	updated, err := client.SendContext(context.Background(), map[string]any{"expression": "1 + 1"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated["previous_result"])
	assert.True(t, client.Enabled())
}

func TestClientSendContextKeepsOriginalOnHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	original := map[string]any{"hypothesis": "h"}
	updated, err := client.SendContext(context.Background(), original)
	require.NoError(t, err)
	assert.Equal(t, original, updated)
}

func TestClientSendContextRejectsUndecodableAnswer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.SendContext(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestClientGetResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/response", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"final_answer": "yes"}`))
	})

	response, err := client.GetResponse(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"final_answer": "yes"}, response)
}

func TestClientGetResponseIsEmptyOnHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	response, err := client.GetResponse(context.Background())
	require.NoError(t, err)
	assert.Empty(t, response)
}

func TestClientReturnsContextErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SendContext(ctx, map[string]any{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientRequiresEndpointAndKey(t *testing.T) {
	_, err := NewClient(config.Default(), utils.NewDiscardLogger())
	assert.Error(t, err)
}

func TestNewPicksLocalWithoutEndpoint(t *testing.T) {
	r, err := New(config.Default(), utils.NewDiscardLogger())
	require.NoError(t, err)
	assert.IsType(t, &Local{}, r)
	assert.False(t, r.Enabled())
}

func TestLocal(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	empty, err := l.GetResponse(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	data := map[string]any{"k": "v"}
	updated, err := l.SendContext(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, data, updated)

	updated["k"] = "changed"
	assert.Equal(t, "v", data["k"])

	// Nothing sent earlier is handed back later.
	after, err := l.GetResponse(ctx)
	require.NoError(t, err)
	assert.Empty(t, after)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.SendContext(canceled, data)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = l.GetResponse(canceled)
	assert.ErrorIs(t, err, context.Canceled)
}
