package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"canvas/internal/batch"
	"canvas/internal/domain"
	"canvas/internal/store"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	doc := domain.NewDocument()
	doc.Nodes = map[string]*domain.Node{
		"hero":  {ID: "hero", Type: domain.NodeFrame, Name: "Hero Section", Width: 400, Height: 300, Visible: true, Children: []string{"title"}},
		"title": {ID: "title", Type: domain.NodeText, Name: "Title", ParentID: "hero", Width: 100, Height: 30, Visible: true},
		"cta":   {ID: "cta", Type: domain.NodeButton, Name: "Call To Action", Width: 120, Height: 40, Visible: true},
	}
	doc.RootIDs = []string{"hero", "cta"}
	st := store.NewWithDocument(doc)
	s := New(Deps{Store: st, Translator: batch.New(st, nil)})
	return s, st
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestTreeOrder_DepthFirst(t *testing.T) {
	s, _ := testServer(t)
	order := treeOrder(s.store.Document())
	want := []string{"hero", "title", "cta"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestSummarize_BuildsSubtree(t *testing.T) {
	s, _ := testServer(t)
	doc := s.store.Document()
	sum := summarize(doc, doc.Node("hero"))
	if sum.ID != "hero" || len(sum.Children) != 1 || sum.Children[0].ID != "title" {
		t.Errorf("summary = %+v", sum)
	}
}

func TestHandleQueryLayout_Filters(t *testing.T) {
	s, _ := testServer(t)

	res, err := s.handleQueryLayout(context.Background(), callReq(map[string]any{"type": "text"}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, `"title"`) || strings.Contains(text, `"cta"`) {
		t.Errorf("type filter output:\n%s", text)
	}

	res, err = s.handleQueryLayout(context.Background(), callReq(map[string]any{"name": "action"}))
	if err != nil {
		t.Fatal(err)
	}
	text = resultText(t, res)
	if !strings.Contains(text, `"cta"`) {
		t.Errorf("name filter output:\n%s", text)
	}
}

func TestHandleQueryLayout_MissingNode(t *testing.T) {
	s, _ := testServer(t)
	if _, err := s.handleQueryLayout(context.Background(), callReq(map[string]any{"nodeId": "ghost"})); err == nil {
		t.Error("expected an error for an unknown nodeId")
	}
}

func TestHandleBatchDesign(t *testing.T) {
	s, st := testServer(t)
	ops := `[{"op":"move","nodeId":"cta","x":40,"y":40}]`
	res, err := s.handleBatchDesign(context.Background(), callReq(map[string]any{"operations": ops}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), `"success": true`) {
		t.Errorf("output:\n%s", resultText(t, res))
	}
	if got := st.Document().Nodes["cta"]; got.X != 36 || got.Y != 36 {
		t.Errorf("cta at (%g, %g), want snapped (36, 36)", got.X, got.Y)
	}
}

func TestHandleBatchDesign_RequiresOperations(t *testing.T) {
	s, _ := testServer(t)
	if _, err := s.handleBatchDesign(context.Background(), callReq(map[string]any{})); err == nil {
		t.Error("expected an error when operations is missing")
	}
}

func TestHandleSelectNodes(t *testing.T) {
	s, st := testServer(t)

	res, err := s.handleSelectNodes(context.Background(), callReq(map[string]any{"nodeIds": "hero, cta"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); got != "selected 2 node(s)" {
		t.Errorf("result = %q", got)
	}
	if got := st.Document().SelectedID; got != "cta" {
		t.Errorf("primary = %q", got)
	}

	res, err = s.handleSelectNodes(context.Background(), callReq(map[string]any{"nodeIds": ""}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); got != "selection cleared" {
		t.Errorf("result = %q", got)
	}
	if len(st.Document().SelectedIDs) != 0 {
		t.Error("selection should be cleared")
	}
}

func TestHandleUndoRedo(t *testing.T) {
	s, st := testServer(t)
	st.Apply(domain.Command{
		Type:    domain.CommandMove,
		Payload: domain.CommandPayload{ID: "cta", X: 72, Y: 72},
	}, store.OriginInteractive)

	res, err := s.handleUndo(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resultText(t, res), "undone") {
		t.Errorf("result = %q", resultText(t, res))
	}
	if got := st.Document().Nodes["cta"].X; got != 0 {
		t.Errorf("undo should restore x=0, got %g", got)
	}

	res, err = s.handleRedo(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if got := st.Document().Nodes["cta"].X; got != 72 {
		t.Errorf("redo should restore x=72, got %g", got)
	}

	res, err = s.handleRedo(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); got != "nothing to redo" {
		t.Errorf("result = %q", got)
	}
}
