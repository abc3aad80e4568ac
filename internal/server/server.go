// Package server exposes the graph editing engine as an MCP server over
// stdio. Each tool maps onto one engine command and replies with the
// engine's JSON result envelope.
package server

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/engine"
)

// Server wraps one engine behind an MCP session.
type Server struct {
	mcpServer *mcp.Server
	engine    *engine.Engine
}

// New builds a server for the given engine and registers all tools.
func New(eng *engine.Engine, version string) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "graphforge",
			Version: version,
		}, nil),
		engine: eng,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Serving MCP over stdio.", "document", s.engine.Document().Name())
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// resultContent renders an engine result as the tool reply. Command
// failures travel in-band as a structured payload, never as a protocol
// error.
func resultContent(res engine.Result) (*mcp.CallToolResult, any, error) {
	body, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	out := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}
	if !res.Success {
		out.IsError = true
	}
	return out, nil, nil
}

func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
