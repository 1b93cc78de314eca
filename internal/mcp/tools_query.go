package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"canvas/internal/domain"
)

func (s *Server) registerQueryTools() {
	// ── get_canvas_state ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_canvas_state",
		mcp.WithDescription("Get the full canvas document (nodes, root order, selection, viewport) plus history depths"),
	), s.handleGetCanvasState)

	// ── query_layout ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("query_layout",
		mcp.WithDescription("Query the node tree: the whole layout, a subtree rooted at nodeId, or nodes filtered by type and/or name substring"),
		mcp.WithString("nodeId", mcp.Description("Root of the subtree to return (optional)")),
		mcp.WithString("type", mcp.Description("Filter by node type: frame, text, button, image, card, form (optional)")),
		mcp.WithString("name", mcp.Description("Filter by case-insensitive name substring (optional)")),
	), s.handleQueryLayout)
}

// nodeSummary is the flattened tree entry returned by query_layout.
type nodeSummary struct {
	ID       string          `json:"id"`
	Type     domain.NodeType `json:"type"`
	Name     string          `json:"name"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	ParentID string          `json:"parentId,omitempty"`
	Children []nodeSummary   `json:"children,omitempty"`
}

func (s *Server) handleGetCanvasState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := s.store.Document()
	undoCount, redoCount := s.store.HistoryCounts()
	return jsonResult(map[string]any{
		"document":  doc,
		"undoCount": undoCount,
		"redoCount": redoCount,
	})
}

func (s *Server) handleQueryLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doc := s.store.Document()

	if nodeID, _ := args["nodeId"].(string); nodeID != "" {
		node := doc.Node(nodeID)
		if node == nil {
			return nil, fmt.Errorf("node not found: %s", nodeID)
		}
		return jsonResult(summarize(doc, node))
	}

	typeFilter, _ := args["type"].(string)
	nameFilter, _ := args["name"].(string)
	if typeFilter != "" || nameFilter != "" {
		var matches []nodeSummary
		for _, id := range treeOrder(doc) {
			node := doc.Node(id)
			if typeFilter != "" && string(node.Type) != typeFilter {
				continue
			}
			if nameFilter != "" && !strings.Contains(strings.ToLower(node.Name), strings.ToLower(nameFilter)) {
				continue
			}
			flat := summarize(doc, node)
			flat.Children = nil
			matches = append(matches, flat)
		}
		return jsonResult(matches)
	}

	roots := make([]nodeSummary, 0, len(doc.RootIDs))
	for _, id := range doc.RootIDs {
		if node := doc.Node(id); node != nil {
			roots = append(roots, summarize(doc, node))
		}
	}
	return jsonResult(roots)
}

// summarize builds the subtree rooted at node.
func summarize(doc *domain.Document, node *domain.Node) nodeSummary {
	sum := nodeSummary{
		ID:       node.ID,
		Type:     node.Type,
		Name:     node.Name,
		X:        node.X,
		Y:        node.Y,
		Width:    node.Width,
		Height:   node.Height,
		ParentID: node.ParentID,
	}
	for _, childID := range node.Children {
		if child := doc.Node(childID); child != nil {
			sum.Children = append(sum.Children, summarize(doc, child))
		}
	}
	return sum
}

// treeOrder walks roots depth-first, yielding every reachable node id in
// paint order.
func treeOrder(doc *domain.Document) []string {
	var order []string
	var walk func(id string)
	walk = func(id string) {
		node := doc.Node(id)
		if node == nil {
			return
		}
		order = append(order, id)
		for _, childID := range node.Children {
			walk(childID)
		}
	}
	for _, id := range doc.RootIDs {
		walk(id)
	}
	return order
}
