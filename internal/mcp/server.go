// Package mcpserver exposes the canvas to AI agents over the Model Context
// Protocol: batch design mutations, selection, undo/redo, layout queries,
// and a state resource.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"canvas/internal/batch"
	"canvas/internal/importer"
	"canvas/internal/store"
)

// Server is the MCP server for the canvas.
type Server struct {
	mcp        *server.MCPServer
	store      *store.Store
	translator *batch.Translator
	importer   *importer.Importer
}

// Deps holds the dependencies injected from the app layer.
type Deps struct {
	Store      *store.Store
	Translator *batch.Translator
	Importer   *importer.Importer
}

// New creates and configures the MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		store:      deps.Store,
		translator: deps.Translator,
		importer:   deps.Importer,
	}

	s.mcp = server.NewMCPServer(
		"canvas-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerDesignTools()
	s.registerQueryTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
