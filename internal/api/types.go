package api

import "github.com/wgomg/agenthub/internal/agents"

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type AgentsResponse struct {
	Agents []agents.CatalogEntry `json:"agents"`
}

// AgentResponse is the envelope every agent route answers with.
type AgentResponse struct {
	Agent  string `json:"agent"`
	Result any    `json:"result"`
}

// AgentContextResponse lifts "result" and "context" out of an agent's output.
type AgentContextResponse struct {
	Agent   string `json:"agent"`
	Result  any    `json:"result"`
	Context any    `json:"context"`
}

type AgentError struct {
	Error string `json:"error"`
}

const favicon = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 16 16">
    <rect width="16" height="16" fill="#4a90e2"/>
    <text x="2" y="12" font-size="10" fill="white">A</text>
</svg>`
