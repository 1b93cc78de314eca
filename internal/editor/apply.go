package editor

import "canvas/internal/domain"

// Apply is the pure transition function of the editor: it maps a document
// and a command to the next document. When the command has no effect, the
// input document is returned unchanged (same pointer), which is how callers
// detect a no-op without deep comparison.
func Apply(prev *domain.Document, cmd domain.Command) *domain.Document {
	switch cmd.Type {
	case domain.CommandSelect:
		return applySelect(prev, cmd.Payload.ID, cmd.Payload.Additive)
	case domain.CommandSelectAll:
		return applySelectAll(prev, cmd.Payload.IDs)
	case domain.CommandSetSelection:
		return applySetSelection(prev, cmd.Payload.IDs, cmd.Payload.Additive)
	case domain.CommandClearSelection:
		return applyClearSelection(prev)
	case domain.CommandMove:
		return applyMove(prev, cmd.Payload.ID, cmd.Payload.X, cmd.Payload.Y)
	case domain.CommandMoveMany:
		return applyMoveMany(prev, cmd.Payload.IDs, cmd.Payload.DeltaX, cmd.Payload.DeltaY)
	case domain.CommandUpdateMany:
		return applyUpdateMany(prev, cmd.Payload.IDs, cmd.Payload.Patch)
	case domain.CommandReorderRoots:
		return applyReorderRoots(prev, cmd.Payload.FromID, cmd.Payload.ToID)
	case domain.CommandAdd:
		return applyAdd(prev, cmd.Payload.Node)
	case domain.CommandRemoveMany:
		return applyRemoveMany(prev, cmd.Payload.IDs)
	case domain.CommandAddToFrame:
		return applyAddToFrame(prev, cmd.Payload.NodeID, cmd.Payload.FrameID)
	case domain.CommandRemoveFromFrame:
		return applyRemoveFromFrame(prev, cmd.Payload.NodeID)
	}
	return prev
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func filterIDs(ids []string, keep func(string) bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}

func applySelect(prev *domain.Document, id string, additive bool) *domain.Document {
	if prev.Node(id) == nil {
		return prev
	}

	if !additive {
		if len(prev.SelectedIDs) == 1 && prev.SelectedID == id {
			return prev
		}
		return prev.Mutate(func(next *domain.Document) {
			next.SelectedID = id
			next.SelectedIDs = []string{id}
		})
	}

	// Additive select toggles membership; the last element stays primary.
	var selected []string
	if contains(prev.SelectedIDs, id) {
		selected = filterIDs(prev.SelectedIDs, func(v string) bool { return v != id })
	} else {
		selected = append(append([]string(nil), prev.SelectedIDs...), id)
	}
	return prev.Mutate(func(next *domain.Document) {
		next.SelectedIDs = selected
		next.SelectedID = ""
		if len(selected) > 0 {
			next.SelectedID = selected[len(selected)-1]
		}
	})
}

func applySelectAll(prev *domain.Document, ids []string) *domain.Document {
	existing := filterIDs(ids, func(id string) bool { return prev.Node(id) != nil })
	return prev.Mutate(func(next *domain.Document) {
		next.SelectedIDs = existing
		next.SelectedID = ""
		if len(existing) > 0 {
			next.SelectedID = existing[0]
		}
	})
}

func applySetSelection(prev *domain.Document, ids []string, additive bool) *domain.Document {
	existing := filterIDs(ids, func(id string) bool { return prev.Node(id) != nil })
	if !additive {
		return prev.Mutate(func(next *domain.Document) {
			next.SelectedIDs = existing
			next.SelectedID = ""
			if len(existing) > 0 {
				next.SelectedID = existing[len(existing)-1]
			}
		})
	}
	merged := append([]string(nil), prev.SelectedIDs...)
	for _, id := range existing {
		if !contains(merged, id) {
			merged = append(merged, id)
		}
	}
	return prev.Mutate(func(next *domain.Document) {
		next.SelectedIDs = merged
		next.SelectedID = ""
		if len(merged) > 0 {
			next.SelectedID = merged[len(merged)-1]
		}
	})
}

func applyClearSelection(prev *domain.Document) *domain.Document {
	if len(prev.SelectedIDs) == 0 {
		return prev
	}
	return prev.Mutate(func(next *domain.Document) {
		next.SelectedID = ""
		next.SelectedIDs = nil
	})
}

func applyMove(prev *domain.Document, id string, x, y float64) *domain.Document {
	target := prev.Node(id)
	if target == nil || target.Locked {
		return prev
	}
	moved := target.Clone()
	moved.X = SnapToGrid(x)
	moved.Y = SnapToGrid(y)
	return prev.Mutate(func(next *domain.Document) {
		next.Nodes[id] = moved
	})
}

func applyMoveMany(prev *domain.Document, ids []string, dx, dy float64) *domain.Document {
	if len(ids) == 0 || (dx == 0 && dy == 0) {
		return prev
	}
	// Best-effort across the id set: locked or missing nodes are skipped.
	moved := map[string]*domain.Node{}
	for _, id := range ids {
		node := prev.Node(id)
		if node == nil || node.Locked {
			continue
		}
		c := node.Clone()
		c.X = SnapToGrid(node.X + dx)
		c.Y = SnapToGrid(node.Y + dy)
		moved[id] = c
	}
	if len(moved) == 0 {
		return prev
	}
	return prev.Mutate(func(next *domain.Document) {
		for id, n := range moved {
			next.Nodes[id] = n
		}
	})
}

func applyUpdateMany(prev *domain.Document, ids []string, patch *domain.NodePatch) *domain.Document {
	if len(ids) == 0 {
		return prev
	}
	updated := map[string]*domain.Node{}
	for _, id := range ids {
		node := prev.Node(id)
		if node == nil {
			continue
		}
		updated[id] = mergePatch(node, SanitizePatch(patch, node))
	}
	if len(updated) == 0 {
		return prev
	}
	return prev.Mutate(func(next *domain.Document) {
		for id, n := range updated {
			next.Nodes[id] = n
		}
	})
}

func applyReorderRoots(prev *domain.Document, fromID, toID string) *domain.Document {
	if fromID == toID {
		return prev
	}
	fromIndex, toIndex := -1, -1
	for i, id := range prev.RootIDs {
		if id == fromID {
			fromIndex = i
		}
		if id == toID {
			toIndex = i
		}
	}
	if fromIndex < 0 || toIndex < 0 {
		return prev
	}
	return prev.Mutate(func(next *domain.Document) {
		roots := append([]string(nil), prev.RootIDs...)
		roots = append(roots[:fromIndex], roots[fromIndex+1:]...)
		// Insert at the position toID occupied before removal.
		rest := append([]string(nil), roots[toIndex:]...)
		roots = append(append(roots[:toIndex], fromID), rest...)
		next.RootIDs = roots
	})
}

func applyAdd(prev *domain.Document, node *domain.Node) *domain.Document {
	sanitized := SanitizeNode(node)
	if sanitized == nil || prev.Node(sanitized.ID) != nil {
		return prev
	}
	return prev.Mutate(func(next *domain.Document) {
		next.Nodes[sanitized.ID] = sanitized
		next.RootIDs = append(next.RootIDs, sanitized.ID)
		next.SelectedID = sanitized.ID
		next.SelectedIDs = []string{sanitized.ID}
	})
}

func applyRemoveMany(prev *domain.Document, ids []string) *domain.Document {
	removing := map[string]bool{}
	for _, id := range ids {
		removing[id] = true
	}
	if len(removing) == 0 {
		return prev
	}

	removed := 0
	next := prev.Mutate(func(next *domain.Document) {
		seen := map[string]bool{}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			node := next.Nodes[id]
			if node == nil {
				continue
			}
			// Detach from the parent's children list.
			if node.ParentID != "" {
				if parent := next.Nodes[node.ParentID]; parent != nil {
					next.Nodes[node.ParentID] = parent.WithoutChild(id)
				}
			}
			// Orphan the node's own children.
			for _, childID := range node.Children {
				if child := next.Nodes[childID]; child != nil {
					c := child.Clone()
					c.ParentID = ""
					next.Nodes[childID] = c
				}
			}
			delete(next.Nodes, id)
			removed++
		}

		roots := filterIDs(next.RootIDs, func(id string) bool { return !removing[id] })
		// Promote surviving direct children of removed nodes to roots,
		// preserving relative order, unless they already are roots.
		for _, id := range ids {
			node := prev.Node(id)
			if node == nil {
				continue
			}
			for _, childID := range node.Children {
				if next.Nodes[childID] != nil && !contains(roots, childID) {
					roots = append(roots, childID)
				}
			}
		}
		next.RootIDs = roots

		selected := filterIDs(next.SelectedIDs, func(id string) bool { return !removing[id] })
		next.SelectedIDs = selected
		switch {
		case len(selected) > 0:
			next.SelectedID = selected[0]
		case len(roots) > 0:
			next.SelectedID = roots[0]
		default:
			next.SelectedID = ""
		}
	})
	if removed == 0 {
		return prev
	}
	return next
}

func applyAddToFrame(prev *domain.Document, nodeID, frameID string) *domain.Document {
	node := prev.Node(nodeID)
	frame := prev.Node(frameID)
	if node == nil || frame == nil || frame.Type != domain.NodeFrame || nodeID == frameID {
		return prev
	}
	if node.ParentID == frameID {
		return prev
	}
	return prev.Mutate(func(next *domain.Document) {
		if node.ParentID != "" {
			if oldParent := next.Nodes[node.ParentID]; oldParent != nil {
				next.Nodes[node.ParentID] = oldParent.WithoutChild(nodeID)
			}
		}
		attached := node.Clone()
		attached.ParentID = frameID
		next.Nodes[nodeID] = attached
		next.Nodes[frameID] = next.Nodes[frameID].WithChild(nodeID)
		next.RootIDs = filterIDs(next.RootIDs, func(id string) bool { return id != nodeID })
	})
}

func applyRemoveFromFrame(prev *domain.Document, nodeID string) *domain.Document {
	node := prev.Node(nodeID)
	if node == nil || node.ParentID == "" {
		return prev
	}
	parent := prev.Node(node.ParentID)
	if parent == nil {
		return prev
	}
	return prev.Mutate(func(next *domain.Document) {
		next.Nodes[node.ParentID] = parent.WithoutChild(nodeID)
		detached := node.Clone()
		detached.ParentID = ""
		next.Nodes[nodeID] = detached
		next.RootIDs = append(next.RootIDs, nodeID)
	})
}
