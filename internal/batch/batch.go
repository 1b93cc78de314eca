// Package batch translates the declarative operation lists supplied by
// automation clients into editor commands and applies them against the
// document store, optionally all-or-nothing.
package batch

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"canvas/internal/domain"
	"canvas/internal/editor"
	"canvas/internal/store"
)

// Operation is one loosely-typed entry of a batch request.
type Operation struct {
	Op          string         `json:"op"`
	Node        *NodeSpec      `json:"node,omitempty"`
	NodeID      string         `json:"nodeId,omitempty"`
	Changes     map[string]any `json:"changes,omitempty"`
	X           *float64       `json:"x,omitempty"`
	Y           *float64       `json:"y,omitempty"`
	Width       *float64       `json:"width,omitempty"`
	Height      *float64       `json:"height,omitempty"`
	NewParentID *string        `json:"newParentId,omitempty"`
}

// NodeSpec describes a node to add. Position defaults to the origin and
// size to 200x100 when omitted.
type NodeSpec struct {
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	X         *float64          `json:"x,omitempty"`
	Y         *float64          `json:"y,omitempty"`
	Width     *float64          `json:"width,omitempty"`
	Height    *float64          `json:"height,omitempty"`
	Text      string            `json:"text,omitempty"`
	ClassName string            `json:"className,omitempty"`
	Style     map[string]string `json:"style,omitempty"`
	ParentID  string            `json:"parentId,omitempty"`
}

// Result is the structured outcome of a batch. Validation failures are
// reported here as data, never as raised errors.
type Result struct {
	Document *domain.Document `json:"-"`
	Commands []domain.Command `json:"commands,omitempty"`
	Summary  string           `json:"summary"`
	Success  bool             `json:"success"`
	Errors   []string         `json:"errors"`
}

// IDGenerator produces ids for nodes created by add operations. Injected so
// tests can supply deterministic ids.
type IDGenerator func() string

// NewID is the default generator.
func NewID() string {
	return "node_" + uuid.New().String()
}

// Translator converts operations into commands and applies them to a store.
type Translator struct {
	store *store.Store
	genID IDGenerator
}

func New(st *store.Store, genID IDGenerator) *Translator {
	if genID == nil {
		genID = NewID
	}
	return &Translator{store: st, genID: genID}
}

// Apply validates and translates ops in input order, then applies the
// resulting commands as one store mutation. With atomic set, the first
// validation failure aborts the whole batch and the document is left
// untouched.
func (t *Translator) Apply(ops []Operation, atomic bool) Result {
	// All ids are validated against the pre-batch document: translation
	// happens before any command executes.
	doc := t.store.Document()

	var commands []domain.Command
	var errors []string
	var parts []string

	for i, op := range ops {
		cmd, desc, err := t.translate(doc, op)
		if err != nil {
			msg := fmt.Sprintf("operation %d (%s): %v", i, op.Op, err)
			errors = append(errors, msg)
			if atomic {
				return Result{
					Document: doc,
					Summary:  "atomic batch failed: " + msg,
					Success:  false,
					Errors:   errors,
				}
			}
			continue
		}
		commands = append(commands, cmd)
		parts = append(parts, desc)
	}

	if len(commands) == 0 {
		summary := "no operations to apply"
		if len(errors) > 0 {
			summary = "all operations failed: " + strings.Join(errors, "; ")
		}
		return Result{
			Document: doc,
			Summary:  summary,
			Success:  len(errors) == 0,
			Errors:   errors,
		}
	}

	final := t.store.ApplyAll(commands, store.OriginAutomation)

	summary := strings.Join(parts, "; ")
	if len(errors) > 0 {
		summary = fmt.Sprintf("partial success (%d/%d): %s. Errors: %s",
			len(commands), len(ops), summary, strings.Join(errors, "; "))
	} else {
		summary = fmt.Sprintf("%d operation(s) applied: %s", len(commands), summary)
	}
	return Result{
		Document: final,
		Commands: commands,
		Summary:  summary,
		Success:  len(errors) == 0,
		Errors:   errors,
	}
}

func (t *Translator) translate(doc *domain.Document, op Operation) (domain.Command, string, error) {
	switch op.Op {
	case "add":
		if op.Node == nil {
			return domain.Command{}, "", fmt.Errorf("missing node")
		}
		spec := op.Node
		node := &domain.Node{
			ID:        t.genID(),
			Type:      domain.NodeType(spec.Type),
			Name:      spec.Name,
			X:         floatOr(spec.X, 0),
			Y:         floatOr(spec.Y, 0),
			Width:     floatOr(spec.Width, 200),
			Height:    floatOr(spec.Height, 100),
			Text:      spec.Text,
			ClassName: spec.ClassName,
			Style:     spec.Style,
			Visible:   true,
		}
		if editor.SanitizeNode(node) == nil {
			return domain.Command{}, "", fmt.Errorf("invalid node type: %s", spec.Type)
		}
		desc := fmt.Sprintf("added %s %q", spec.Type, spec.Name)
		return domain.Command{Type: domain.CommandAdd, Payload: domain.CommandPayload{Node: node}}, desc, nil

	case "update":
		if op.NodeID == "" {
			return domain.Command{}, "", fmt.Errorf("missing nodeId")
		}
		if op.Changes == nil {
			return domain.Command{}, "", fmt.Errorf("missing changes")
		}
		if doc.Node(op.NodeID) == nil {
			return domain.Command{}, "", fmt.Errorf("node not found: %s", op.NodeID)
		}
		cmd := domain.Command{
			Type: domain.CommandUpdateMany,
			Payload: domain.CommandPayload{
				IDs:   []string{op.NodeID},
				Patch: domain.PatchFromMap(op.Changes),
			},
		}
		return cmd, fmt.Sprintf("updated node %s", op.NodeID), nil

	case "delete":
		if op.NodeID == "" {
			return domain.Command{}, "", fmt.Errorf("missing nodeId")
		}
		if doc.Node(op.NodeID) == nil {
			return domain.Command{}, "", fmt.Errorf("node not found: %s", op.NodeID)
		}
		cmd := domain.Command{
			Type:    domain.CommandRemoveMany,
			Payload: domain.CommandPayload{IDs: []string{op.NodeID}},
		}
		return cmd, fmt.Sprintf("deleted node %s", op.NodeID), nil

	case "move":
		if op.NodeID == "" {
			return domain.Command{}, "", fmt.Errorf("missing nodeId")
		}
		if op.X == nil || op.Y == nil {
			return domain.Command{}, "", fmt.Errorf("missing x/y")
		}
		if doc.Node(op.NodeID) == nil {
			return domain.Command{}, "", fmt.Errorf("node not found: %s", op.NodeID)
		}
		cmd := domain.Command{
			Type:    domain.CommandMove,
			Payload: domain.CommandPayload{ID: op.NodeID, X: *op.X, Y: *op.Y},
		}
		return cmd, fmt.Sprintf("moved node %s to (%g, %g)", op.NodeID, *op.X, *op.Y), nil

	case "resize":
		if op.NodeID == "" {
			return domain.Command{}, "", fmt.Errorf("missing nodeId")
		}
		if op.Width == nil || op.Height == nil {
			return domain.Command{}, "", fmt.Errorf("missing width/height")
		}
		if doc.Node(op.NodeID) == nil {
			return domain.Command{}, "", fmt.Errorf("node not found: %s", op.NodeID)
		}
		cmd := domain.Command{
			Type: domain.CommandUpdateMany,
			Payload: domain.CommandPayload{
				IDs:   []string{op.NodeID},
				Patch: &domain.NodePatch{Width: op.Width, Height: op.Height},
			},
		}
		return cmd, fmt.Sprintf("resized node %s to %gx%g", op.NodeID, *op.Width, *op.Height), nil

	case "reparent":
		if op.NodeID == "" {
			return domain.Command{}, "", fmt.Errorf("missing nodeId")
		}
		if doc.Node(op.NodeID) == nil {
			return domain.Command{}, "", fmt.Errorf("node not found: %s", op.NodeID)
		}
		if op.NewParentID == nil || *op.NewParentID == "" {
			cmd := domain.Command{
				Type:    domain.CommandRemoveFromFrame,
				Payload: domain.CommandPayload{NodeID: op.NodeID},
			}
			return cmd, fmt.Sprintf("reparented node %s to root", op.NodeID), nil
		}
		if doc.Node(*op.NewParentID) == nil {
			return domain.Command{}, "", fmt.Errorf("parent node not found: %s", *op.NewParentID)
		}
		cmd := domain.Command{
			Type:    domain.CommandAddToFrame,
			Payload: domain.CommandPayload{NodeID: op.NodeID, FrameID: *op.NewParentID},
		}
		return cmd, fmt.Sprintf("reparented node %s to %s", op.NodeID, *op.NewParentID), nil
	}

	return domain.Command{}, "", fmt.Errorf("unknown operation: %s", op.Op)
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
