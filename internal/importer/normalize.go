package importer

import (
	"sort"

	"canvas/internal/domain"
	"canvas/internal/editor"
)

// Normalize repairs an externally-produced document so the editor's
// invariants hold: nodes of unknown type are dropped, every node is
// sanitized, parent/child links are made mutually consistent, parentless
// nodes appear in the root order exactly once, the selection references only
// existing nodes, and the viewport zoom is clamped.
func Normalize(doc *domain.Document) *domain.Document {
	out := domain.NewDocument()
	out.Viewport = doc.Viewport.Clamped()

	for id, node := range doc.Nodes {
		if node == nil || id == "" {
			continue
		}
		c := node.Clone()
		c.ID = id
		if sanitized := editor.SanitizeNode(c); sanitized != nil {
			out.Nodes[id] = sanitized
		}
	}

	// Parent links: drop references to missing nodes or non-frame parents.
	for _, node := range out.Nodes {
		if node.ParentID == "" {
			continue
		}
		parent := out.Nodes[node.ParentID]
		if parent == nil || parent.Type != domain.NodeFrame {
			node.ParentID = ""
		}
	}

	// Children lists: keep the declared order for children whose parent
	// link agrees, then append any child the parent's list missed.
	for id, node := range out.Nodes {
		kept := make([]string, 0, len(node.Children))
		listed := map[string]bool{}
		for _, childID := range node.Children {
			child := out.Nodes[childID]
			if child == nil || child.ParentID != id || listed[childID] {
				continue
			}
			listed[childID] = true
			kept = append(kept, childID)
		}
		node.Children = kept
	}
	var unlisted []string
	for id, node := range out.Nodes {
		if node.ParentID == "" {
			continue
		}
		if !contains(out.Nodes[node.ParentID].Children, id) {
			unlisted = append(unlisted, id)
		}
	}
	sort.Strings(unlisted)
	for _, id := range unlisted {
		parent := out.Nodes[out.Nodes[id].ParentID]
		parent.Children = append(parent.Children, id)
	}

	// Root order: declared roots first (existing, parentless, deduplicated),
	// then any parentless node the declared order missed.
	seen := map[string]bool{}
	for _, id := range doc.RootIDs {
		node := out.Nodes[id]
		if node == nil || node.ParentID != "" || seen[id] {
			continue
		}
		seen[id] = true
		out.RootIDs = append(out.RootIDs, id)
	}
	var missed []string
	for id, node := range out.Nodes {
		if node.ParentID == "" && !seen[id] {
			missed = append(missed, id)
		}
	}
	sort.Strings(missed)
	out.RootIDs = append(out.RootIDs, missed...)

	for _, id := range doc.SelectedIDs {
		if out.Nodes[id] != nil {
			out.SelectedIDs = append(out.SelectedIDs, id)
		}
	}
	if doc.SelectedID != "" && out.Nodes[doc.SelectedID] != nil {
		out.SelectedID = doc.SelectedID
	} else if len(out.SelectedIDs) > 0 {
		out.SelectedID = out.SelectedIDs[len(out.SelectedIDs)-1]
	}

	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
