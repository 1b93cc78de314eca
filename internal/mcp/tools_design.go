package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"canvas/internal/batch"
	"canvas/internal/domain"
	"canvas/internal/store"
)

func (s *Server) registerDesignTools() {
	// ── batch_design ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("batch_design",
		mcp.WithDescription("Create, update, delete, move, resize, or reparent design nodes on the canvas. "+
			"Pass a JSON array of operations; atomic batches apply all-or-nothing."),
		mcp.WithString("operations",
			mcp.Description(`JSON array of operations [{op:"add", node:{type, name, x?, y?, width?, height?, text?, className?, style?}} | {op:"update", nodeId, changes} | {op:"delete", nodeId} | {op:"move", nodeId, x, y} | {op:"resize", nodeId, width, height} | {op:"reparent", nodeId, newParentId}]`),
			mcp.Required(),
		),
		mcp.WithBoolean("atomic", mcp.Description("All-or-nothing (default true)")),
	), s.handleBatchDesign)

	// ── select_nodes ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_nodes",
		mcp.WithDescription("Replace the current selection. Pass an empty list to clear it."),
		mcp.WithString("nodeIds", mcp.Description("Comma-separated node IDs (empty clears the selection)")),
	), s.handleSelectNodes)

	// ── canvas_undo / canvas_redo ──────────────────────
	s.mcp.AddTool(mcp.NewTool("canvas_undo",
		mcp.WithDescription("Undo the most recent canvas mutation"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("canvas_redo",
		mcp.WithDescription("Redo the most recently undone canvas mutation"),
	), s.handleRedo)

	// ── import_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_document",
		mcp.WithDescription("Replace the whole canvas with a document loaded from a JSON file"),
		mcp.WithString("path", mcp.Description("Path to the document JSON file"), mcp.Required()),
	), s.handleImportDocument)
}

func (s *Server) handleBatchDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	opsJSON, _ := args["operations"].(string)
	if opsJSON == "" {
		return nil, fmt.Errorf("operations is required")
	}

	var ops []batch.Operation
	if err := parseJSON(opsJSON, &ops); err != nil {
		return nil, fmt.Errorf("parse operations: %w", err)
	}

	atomic := true
	if v, ok := args["atomic"].(bool); ok {
		atomic = v
	}

	result := s.translator.Apply(ops, atomic)
	return jsonResult(map[string]any{
		"success":   result.Success,
		"summary":   result.Summary,
		"errors":    result.Errors,
		"nodeCount": len(result.Document.Nodes),
	})
}

func (s *Server) handleSelectNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	raw, _ := args["nodeIds"].(string)

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		s.store.Apply(domain.Command{Type: domain.CommandClearSelection}, store.OriginAutomation)
		return textResult("selection cleared"), nil
	}
	doc := s.store.Apply(domain.Command{
		Type:    domain.CommandSetSelection,
		Payload: domain.CommandPayload{IDs: ids},
	}, store.OriginAutomation)
	return textResult(fmt.Sprintf("selected %d node(s)", len(doc.SelectedIDs))), nil
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if doc := s.store.Undo(); doc != nil {
		return textResult(fmt.Sprintf("undone; %d node(s) on canvas", len(doc.Nodes))), nil
	}
	return textResult("nothing to undo"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if doc := s.store.Redo(); doc != nil {
		return textResult(fmt.Sprintf("redone; %d node(s) on canvas", len(doc.Nodes))), nil
	}
	return textResult("nothing to redo"), nil
}

func (s *Server) handleImportDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if s.importer == nil {
		return nil, fmt.Errorf("import is not configured")
	}
	doc, err := s.importer.ImportFile(path)
	if err != nil {
		return nil, fmt.Errorf("import document: %w", err)
	}
	return textResult(fmt.Sprintf("imported %d node(s) from %s", len(doc.Nodes), path)), nil
}
