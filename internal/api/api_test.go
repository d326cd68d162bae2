package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgomg/agenthub/internal/agents"
	"github.com/wgomg/agenthub/internal/config"
	"github.com/wgomg/agenthub/internal/relay"
	"github.com/wgomg/agenthub/internal/utils"
	"github.com/wgomg/agenthub/internal/utils/httputils"
)

type failingAgent struct{}

func (failingAgent) Name() string { return "broken" }

func (failingAgent) Run(context.Context, agents.Input) (any, error) {
	return nil, assert.AnError
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := utils.NewDiscardLogger()
	registry, err := agents.NewDefaultRegistry(config.Default(), relay.NewLocal(), logger)
	require.NoError(t, err)

	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)

	return NewRouter(NewHandler(logger, registry, doc), nil, logger)
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestSystemRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Hello World Agent System!", body["message"])

	rec, body = do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok", "message": "Healthy"}, body)

	rec, _ = do(t, router, http.MethodGet, "/favicon.ico", "")
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec, body = do(t, router, http.MethodGet, "/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/agents/{name}")
}

func TestListAgents(t *testing.T) {
	rec, body := do(t, newTestRouter(t), http.MethodGet, "/agents", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := body["agents"].([]any)
	require.Len(t, list, 14)
	first := list[0].(map[string]any)
	assert.Equal(t, "hello_world", first["name"])
	assert.Equal(t, "Simple Agents", first["category"])
}

func TestRunAgentWithQuery(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodGet, "/agent/hello_world", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"agent": "hello_world", "result": "Hello, World from the agent!"}, body)

	query := url.Values{"token": {"MATH_SECRET"}, "expression": {"3*(4+2)"}}
	_, body = do(t, router, http.MethodGet, "/agent/math?"+query.Encode(), "")
	assert.Equal(t, map[string]any{"agent": "math", "result": map[string]any{"result": 18.0}}, body)

	_, body = do(t, router, http.MethodGet, "/math?token=nope&expression=1", "")
	assert.Equal(t, map[string]any{"agent": "math", "result": map[string]any{"error": "Invalid token. Access denied."}}, body)
}

func TestDirectRoutes(t *testing.T) {
	router := newTestRouter(t)

	query := url.Values{"TEXT_TO_SUMMARIZE": {"This is a very long text"}}
	_, body := do(t, router, http.MethodGet, "/summarizer?"+query.Encode(), "")
	result := body["result"].(map[string]any)
	assert.Equal(t, "This is a...", result["summary"])

	query = url.Values{"INPUT_TEXT": {"Hello, how are you?"}}
	_, body = do(t, router, http.MethodGet, "/classifier?"+query.Encode(), "")
	result = body["result"].(map[string]any)
	assert.Equal(t, "Greeting/Question", result["classification"])

	query = url.Values{
		"TEXT_TO_SUMMARIZE": {"apple banana cherry. apple banana grape. zebra yak xylophone. apple banana kiwi."},
		"num_sentences":     {"1"},
	}
	_, body = do(t, router, http.MethodGet, "/textrank_summarizer?"+query.Encode(), "")
	result = body["result"].(map[string]any)
	assert.Equal(t, "apple banana cherry.", result["summary"])

	_, body = do(t, router, http.MethodGet, "/textrank_summarizer", "")
	result = body["result"].(map[string]any)
	assert.Equal(t, "TEXT_TO_SUMMARIZE is not provided or is not a valid string.", result["error"])
}

func TestPostAgentLiftsResultAndContext(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodPost, "/agents/calculator", `{"expression": "3 + 4 * 2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "calculator", body["agent"])
	assert.Equal(t, 11.0, body["result"])
	assert.Equal(t, map[string]any{"expression": "3 + 4 * 2", "previous_result": nil}, body["context"])

	_, body = do(t, router, http.MethodPost, "/agents/multi_step_reasoning", `{"hypothesis": "h"}`)
	result := body["result"].(map[string]any)
	assert.Equal(t, "h refined refined refined refined refined", result["partial_hypothesis"])
	assert.Equal(t, map[string]any{}, body["context"])

	_, body = do(t, router, http.MethodPost, "/agents/calculator", `{}`)
	assert.Equal(t, map[string]any{"agent": "calculator", "result": map[string]any{"error": "EXPRESSION is not set."}}, body)
}

func TestPostAgentWithoutResultKeepsEnvelope(t *testing.T) {
	_, body := do(t, newTestRouter(t), http.MethodPost, "/agents/echo", `{}`)
	assert.Equal(t, map[string]any{"agent": "echo", "result": map[string]any{"message": "Echo from agent!"}}, body)
}

func TestDynamicAgent(t *testing.T) {
	_, body := do(t, newTestRouter(t), http.MethodPost, "/dynamic-agents/workflow_decisioning",
		`{"task_description": "fetch the data"}`)

	assert.Equal(t, "workflow_decisioning", body["agent"])
	result := body["result"].(map[string]any)
	assert.Contains(t, result["result"], "Aggregated result: Retrieved external dataset")
}

func TestErrors(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodGet, "/agent/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Agent not found"}, body)

	rec, _ = do(t, router, http.MethodPost, "/agents/calculator", `{"expression": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/agents/calculator", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec, _ = do(t, router, http.MethodDelete, "/agents", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	for _, target := range []string{"/does-not-exist", "/agent", "/agents/x/y"} {
		rec, body = do(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, map[string]any{"error": "Not found"}, body, target)
	}
}

func TestOversizedBodyIsRejected(t *testing.T) {
	router := newTestRouter(t)

	expression := "1" + strings.Repeat("+1", httputils.MaxBodyBytes)
	rec, body := do(t, router, http.MethodPost, "/agents/calculator", `{"expression": "`+expression+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, body["error"], "Request body exceeds")
}

func TestLongExpressionIsAnAgentError(t *testing.T) {
	router := newTestRouter(t)

	expression := "1" + strings.Repeat("+1", 5000)
	rec, body := do(t, router, http.MethodPost, "/agents/calculator", `{"expression": "`+expression+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	result := body["result"].(map[string]any)
	assert.Contains(t, result["error"], "more than 1024 operations")
}

func TestUnexpectedAgentErrorIs500(t *testing.T) {
	logger := utils.NewDiscardLogger()
	registry := agents.NewRegistry([]agents.CatalogEntry{{Name: "broken"}}, nil, logger)
	require.NoError(t, registry.Register(failingAgent{}))

	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)
	router := NewRouter(NewHandler(logger, registry, doc), nil, logger)

	rec, body := do(t, router, http.MethodGet, "/agent/broken", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error executing agent: "+assert.AnError.Error(), body["error"])
}

func TestMiddleware(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec, _ = do(t, router, http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	rec, _ = do(t, router, http.MethodOptions, "/agents/calculator", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")

	rec, _ = do(t, router, http.MethodOptions, "/does-not-exist", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, tt := range []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/does-not-exist", http.StatusNotFound},
		{http.MethodDelete, "/agents", http.StatusMethodNotAllowed},
	} {
		rec, _ = do(t, router, tt.method, tt.target, "")
		assert.Equal(t, tt.status, rec.Code, tt.target)
		assert.Len(t, rec.Header().Get("X-Request-ID"), 36, tt.target)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), tt.target)
	}
}
