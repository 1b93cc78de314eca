package domain

const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Viewport is the pan/zoom state of the canvas view.
type Viewport struct {
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
	Zoom float64 `json:"zoom"`
}

// Clamped returns the viewport with zoom forced into [MinZoom, MaxZoom].
// A zero zoom (e.g. from a partially-filled import) resets to 1.
func (v Viewport) Clamped() Viewport {
	if v.Zoom == 0 {
		v.Zoom = 1
	}
	if v.Zoom < MinZoom {
		v.Zoom = MinZoom
	}
	if v.Zoom > MaxZoom {
		v.Zoom = MaxZoom
	}
	return v
}

// Document is the complete editor state. It is treated as immutable: every
// mutation builds a new Document sharing untouched nodes with its
// predecessor, so pointer equality detects "nothing changed".
type Document struct {
	Nodes       map[string]*Node `json:"nodeMap"`
	RootIDs     []string         `json:"rootIds"`
	SelectedID  string           `json:"selectedId,omitempty"`
	SelectedIDs []string         `json:"selectedIds"`
	Viewport    Viewport         `json:"viewport"`
}

// NewDocument returns an empty document with a default viewport.
func NewDocument() *Document {
	return &Document{
		Nodes:    map[string]*Node{},
		Viewport: Viewport{Zoom: 1},
	}
}

// Node returns the node for id, or nil.
func (d *Document) Node(id string) *Node {
	return d.Nodes[id]
}

// shallow returns a copy of the document with freshly copied container
// slices and node map. Node pointers are shared; callers replace individual
// entries with clones before modifying them.
func (d *Document) shallow() *Document {
	c := *d
	c.Nodes = make(map[string]*Node, len(d.Nodes))
	for id, n := range d.Nodes {
		c.Nodes[id] = n
	}
	c.RootIDs = append([]string(nil), d.RootIDs...)
	c.SelectedIDs = append([]string(nil), d.SelectedIDs...)
	return &c
}

// Mutate hands a shallow copy of the document to fn and returns it.
// The copy's slices and node map are safe to rearrange; individual nodes
// must still be cloned before editing.
func (d *Document) Mutate(fn func(next *Document)) *Document {
	next := d.shallow()
	fn(next)
	return next
}
