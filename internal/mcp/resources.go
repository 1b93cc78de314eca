package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── canvas://state ─────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"canvas://state",
		"Canvas Document",
		mcp.WithMIMEType("application/json"),
	), s.handleStateResource)
}

func (s *Server) handleStateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc := s.store.Document()
	undoCount, redoCount := s.store.HistoryCounts()

	data, err := json.MarshalIndent(map[string]any{
		"document":  doc,
		"undoCount": undoCount,
		"redoCount": redoCount,
	}, "", "  ")
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "canvas://state",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
