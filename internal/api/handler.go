package api

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"

	"github.com/wgomg/agenthub/internal/agents"
	"github.com/wgomg/agenthub/internal/utils"
	"github.com/wgomg/agenthub/internal/utils/httputils"
)

type Handler struct {
	logger   *utils.Logger
	registry *agents.Registry
	openapi  *openapi3.T
}

func NewHandler(logger *utils.Logger, registry *agents.Registry, doc *openapi3.T) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		openapi:  doc,
	}
}

func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, MessageResponse{Message: "Welcome to the Hello World Agent System!"})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, HealthResponse{Status: "ok", Message: "Healthy"})
}

func (h *Handler) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(favicon))
}

func (h *Handler) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, AgentsResponse{Agents: h.registry.List()})
}

func (h *Handler) HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, h.openapi)
}

// HandleRunAgent runs the agent named in the path with the query string as input.
func (h *Handler) HandleRunAgent(w http.ResponseWriter, r *http.Request) {
	h.runAgent(w, r, mux.Vars(r)["name"], queryParams(r), false)
}

// HandleRunAgentFor serves a fixed agent from its own route.
func (h *Handler) HandleRunAgentFor(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.runAgent(w, r, name, queryParams(r), false)
	}
}

// HandlePostAgent runs an agent with a JSON body and lifts "result" and
// "context" out of the agent's output.
func (h *Handler) HandlePostAgent(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeParams(w, r)
	if !ok {
		return
	}
	h.runAgent(w, r, mux.Vars(r)["name"], params, true)
}

func (h *Handler) HandleDynamicAgent(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeParams(w, r)
	if !ok {
		return
	}
	h.runAgent(w, r, mux.Vars(r)["name"], params, false)
}

func (h *Handler) runAgent(w http.ResponseWriter, r *http.Request, name string, params agents.Params, lift bool) {
	ctx := r.Context()
	reqID := utils.RequestID(ctx)

	output, err := h.registry.Run(ctx, name, params)
	if err != nil {
		var failure *agents.Failure
		switch {
		case errors.Is(err, agents.ErrAgentNotFound):
			h.fail(w, r, http.StatusNotFound, "Agent not found")
		case errors.As(err, &failure):
			h.respond(w, r, http.StatusOK, AgentResponse{Agent: name, Result: AgentError{Error: failure.Msg}})
		default:
			h.logger.Error(&reqID, "Error executing agent %s: %v", name, err)
			h.fail(w, r, http.StatusInternalServerError, "Error executing agent: "+err.Error())
		}
		return
	}

	if lift {
		if out, ok := output.(map[string]any); ok {
			if result, ok := out["result"]; ok {
				shared, ok := out["context"]
				if !ok || shared == nil {
					shared = map[string]any{}
				}
				h.respond(w, r, http.StatusOK, AgentContextResponse{Agent: name, Result: result, Context: shared})
				return
			}
		}
	}

	h.respond(w, r, http.StatusOK, AgentResponse{Agent: name, Result: output})
}

func (h *Handler) decodeParams(w http.ResponseWriter, r *http.Request) (agents.Params, bool) {
	reqID := utils.RequestID(r.Context())

	params := agents.Params{}
	if err := httputils.DecodeJSON(r, &params); err != nil {
		h.logger.Error(&reqID, "JSON decode error: %v", err)
		httputils.HandleError(w, err)
		return nil, false
	}
	return params, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	if err := httputils.JSONResponse(w, status, body); err != nil {
		reqID := utils.RequestID(r.Context())
		h.logger.Error(&reqID, "Error sending response: %v", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := httputils.JSONError(w, status, message); err != nil {
		reqID := utils.RequestID(r.Context())
		h.logger.Error(&reqID, "Error sending response: %v", err)
	}
}

// queryParams keeps the first value of every query parameter.
func queryParams(r *http.Request) agents.Params {
	query := r.URL.Query()
	params := make(agents.Params, len(query))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
