package domain

type CommandType string

const (
	CommandSelect          CommandType = "select"
	CommandSelectAll       CommandType = "selectAll"
	CommandSetSelection    CommandType = "setSelection"
	CommandClearSelection  CommandType = "clearSelection"
	CommandMove            CommandType = "move"
	CommandMoveMany        CommandType = "moveMany"
	CommandUpdateMany      CommandType = "updateMany"
	CommandReorderRoots    CommandType = "reorderRoots"
	CommandAdd             CommandType = "add"
	CommandRemoveMany      CommandType = "removeMany"
	CommandAddToFrame      CommandType = "addToFrame"
	CommandRemoveFromFrame CommandType = "removeFromFrame"
)

// Command is an atomic, serializable state-transition descriptor. Which
// payload fields are meaningful depends on Type; the rest stay zero.
type Command struct {
	Type    CommandType    `json:"type"`
	Payload CommandPayload `json:"payload,omitzero"`
}

// CommandPayload carries the arguments for every command kind in one flat
// envelope, matching the wire format.
type CommandPayload struct {
	ID       string     `json:"id,omitempty"`
	IDs      []string   `json:"ids,omitempty"`
	Additive bool       `json:"additive,omitempty"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	DeltaX   float64    `json:"deltaX,omitempty"`
	DeltaY   float64    `json:"deltaY,omitempty"`
	Patch    *NodePatch `json:"patch,omitempty"`
	FromID   string     `json:"fromId,omitempty"`
	ToID     string     `json:"toId,omitempty"`
	Node     *Node      `json:"node,omitempty"`
	NodeID   string     `json:"nodeId,omitempty"`
	FrameID  string     `json:"frameId,omitempty"`
}

// NodePatch is a partial node update. Nil fields are untouched; the id and
// type of a node can never be patched.
type NodePatch struct {
	Name      *string           `json:"name,omitempty"`
	Text      *string           `json:"text,omitempty"`
	ClassName *string           `json:"className,omitempty"`
	Style     map[string]string `json:"style,omitempty"`
	Src       *string           `json:"src,omitempty"`
	Locked    *bool             `json:"locked,omitempty"`
	Visible   *bool             `json:"visible,omitempty"`
	X         *float64          `json:"x,omitempty"`
	Y         *float64          `json:"y,omitempty"`
	Width     *float64          `json:"width,omitempty"`
	Height    *float64          `json:"height,omitempty"`
}

// PatchFromMap builds a NodePatch from loosely-typed changes, keeping only
// values of the right dynamic type. The id and type keys are dropped so a
// client can never rewrite a node's identity through a patch.
func PatchFromMap(changes map[string]any) *NodePatch {
	p := &NodePatch{}
	for key, value := range changes {
		switch key {
		case "name":
			if s, ok := value.(string); ok {
				p.Name = &s
			}
		case "text":
			if s, ok := value.(string); ok {
				p.Text = &s
			}
		case "className":
			if s, ok := value.(string); ok {
				p.ClassName = &s
			}
		case "src":
			if s, ok := value.(string); ok {
				p.Src = &s
			}
		case "style":
			switch style := value.(type) {
			case map[string]string:
				p.Style = style
			case map[string]any:
				kept := map[string]string{}
				for k, v := range style {
					if s, ok := v.(string); ok {
						kept[k] = s
					}
				}
				p.Style = kept
			}
		case "locked":
			if b, ok := value.(bool); ok {
				p.Locked = &b
			}
		case "visible":
			if b, ok := value.(bool); ok {
				p.Visible = &b
			}
		case "x":
			if f, ok := toFloat(value); ok {
				p.X = &f
			}
		case "y":
			if f, ok := toFloat(value); ok {
				p.Y = &f
			}
		case "width":
			if f, ok := toFloat(value); ok {
				p.Width = &f
			}
		case "height":
			if f, ok := toFloat(value); ok {
				p.Height = &f
			}
		}
	}
	return p
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Empty reports whether the patch changes nothing.
func (p *NodePatch) Empty() bool {
	return p == nil || (p.Name == nil && p.Text == nil && p.ClassName == nil &&
		p.Style == nil && p.Src == nil && p.Locked == nil && p.Visible == nil &&
		p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil)
}
