package domain

import "encoding/json"

type NodeType string

const (
	NodeFrame  NodeType = "frame"
	NodeText   NodeType = "text"
	NodeButton NodeType = "button"
	NodeImage  NodeType = "image"
	NodeCard   NodeType = "card"
	NodeForm   NodeType = "form"
)

// AllowedNodeTypes is the closed set of node types the editor accepts.
var AllowedNodeTypes = []NodeType{NodeFrame, NodeText, NodeButton, NodeImage, NodeCard, NodeForm}

// ValidNodeType reports whether t is one of the allowed node types.
func ValidNodeType(t NodeType) bool {
	for _, allowed := range AllowedNodeTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

type LayoutMode string

const (
	LayoutNone       LayoutMode = "none"
	LayoutFlexRow    LayoutMode = "flex-row"
	LayoutFlexColumn LayoutMode = "flex-column"
)

// Node is a single design element on the canvas.
// Geometry is in document units; width and height are always >= 1.
type Node struct {
	ID        string            `json:"id"`
	Type      NodeType          `json:"type"`
	Name      string            `json:"name"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Text      string            `json:"text,omitempty"`
	ClassName string            `json:"className,omitempty"`
	Style     map[string]string `json:"style,omitempty"`
	Src       string            `json:"src,omitempty"`
	Locked    bool              `json:"locked,omitempty"`
	Visible   bool              `json:"visible"`

	// Child node IDs (frame containers only)
	Children []string `json:"children,omitempty"`
	// Parent node ID (set when inside a frame)
	ParentID string `json:"parentId,omitempty"`

	// Flex layout attributes (meaningful only on frame containers)
	LayoutMode    LayoutMode `json:"layoutMode,omitempty"`
	LayoutGap     float64    `json:"layoutGap,omitempty"`
	LayoutAlign   string     `json:"layoutAlign,omitempty"`
	LayoutJustify string     `json:"layoutJustify,omitempty"`
	// Padding as [top, right, bottom, left]
	LayoutPadding []float64 `json:"layoutPadding,omitempty"`
}

// UnmarshalJSON defaults Visible to true when the key is absent, so nodes
// arriving over the wire without the flag render visible.
func (n *Node) UnmarshalJSON(data []byte) error {
	type alias Node
	aux := alias{Visible: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Node(aux)
	return nil
}

// Clone returns a deep copy of the node. Children, style, and padding are
// copied so the clone never aliases the original's slices or maps.
func (n *Node) Clone() *Node {
	c := *n
	if n.Children != nil {
		c.Children = append([]string(nil), n.Children...)
	}
	if n.Style != nil {
		c.Style = make(map[string]string, len(n.Style))
		for k, v := range n.Style {
			c.Style[k] = v
		}
	}
	if n.LayoutPadding != nil {
		c.LayoutPadding = append([]float64(nil), n.LayoutPadding...)
	}
	return &c
}

// WithoutChild returns a copy of the node with childID removed from its
// children list.
func (n *Node) WithoutChild(childID string) *Node {
	c := n.Clone()
	filtered := c.Children[:0]
	for _, id := range c.Children {
		if id != childID {
			filtered = append(filtered, id)
		}
	}
	c.Children = filtered
	return c
}

// WithChild returns a copy of the node with childID appended to its
// children list.
func (n *Node) WithChild(childID string) *Node {
	c := n.Clone()
	c.Children = append(c.Children, childID)
	return c
}
