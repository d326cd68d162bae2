package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wgomg/agenthub/internal/utils"
	"github.com/wgomg/agenthub/internal/utils/httputils"
)

// directAgents get a route of their own next to /agent/{name}.
var directAgents = []string{"math", "textrank_summarizer", "summarizer", "classifier"}

// NewRouter wires every route. mcp may be nil to leave /mcp unmounted.
// The middleware chain wraps the whole router so unmatched requests and
// preflights get a request id, CORS headers and an access log line too.
func NewRouter(handler *Handler, mcp http.Handler, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", handler.HandleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", handler.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/favicon.ico", handler.HandleFavicon).Methods(http.MethodGet)
	r.HandleFunc("/openapi.json", handler.HandleOpenAPI).Methods(http.MethodGet)

	r.HandleFunc("/agents", handler.HandleListAgents).Methods(http.MethodGet)
	r.HandleFunc("/agent/{name}", handler.HandleRunAgent).Methods(http.MethodGet)
	r.HandleFunc("/agents/{name}", handler.HandlePostAgent).Methods(http.MethodPost)
	r.HandleFunc("/dynamic-agents/{name}", handler.HandleDynamicAgent).Methods(http.MethodPost)

	for _, name := range directAgents {
		r.HandleFunc("/"+name, handler.HandleRunAgentFor(name)).Methods(http.MethodGet)
	}

	if mcp != nil {
		r.Handle("/mcp", mcp)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputils.JSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return requestIDMiddleware(
		loggingMiddleware(logger)(
			requestBodyMiddleware(logger, httputils.MaxBodyBytes)(
				corsMiddleware(r))))
}
