package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wgomg/agenthub/internal/agents"
	"github.com/wgomg/agenthub/internal/utils"
)

// ToolOutput is the structured content of every agent tool.
type ToolOutput struct {
	Agent  string `json:"agent" jsonschema:"name of the agent that ran"`
	Result any    `json:"result" jsonschema:"agent output"`
}

// Server exposes every registered agent as an MCP tool. Tool arguments are
// the agent parameters, exactly as in a POST body.
type Server struct {
	server   *mcp.Server
	registry *agents.Registry
	logger   *utils.Logger
}

func New(registry *agents.Registry, logger *utils.Logger, version string) *Server {
	s := &Server{
		server:   mcp.NewServer(&mcp.Implementation{Name: "agenthub", Version: version}, nil),
		registry: registry,
		logger:   logger,
	}

	for _, entry := range registry.List() {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        entry.Name,
			Description: describe(entry),
		}, s.toolHandler(entry.Name))
	}

	return s
}

// MCP returns the underlying server for in-process transports.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) toolHandler(name string) mcp.ToolHandlerFor[map[string]any, ToolOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, ToolOutput, error) {
		if utils.RequestID(ctx) == "" {
			ctx = utils.WithRequestID(ctx, utils.NewRequestID())
		}
		reqID := utils.RequestID(ctx)

		output, err := s.registry.Run(ctx, name, agents.Params(args))
		if err != nil {
			var failure *agents.Failure
			if errors.As(err, &failure) {
				return nil, ToolOutput{}, errors.New(failure.Msg)
			}
			return nil, ToolOutput{}, fmt.Errorf("agent %s failed: %w", name, err)
		}

		text, err := json.Marshal(output)
		if err != nil {
			s.logger.Error(&reqID, "Failed to encode output of %s: %v", name, err)
			return nil, ToolOutput{}, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, ToolOutput{Agent: name, Result: output}, nil
	}
}

func describe(entry agents.CatalogEntry) string {
	if entry.Instructions == "" {
		return entry.Description
	}
	return entry.Description + " " + entry.Instructions
}
