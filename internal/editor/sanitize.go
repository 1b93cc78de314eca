package editor

import (
	"math"

	"canvas/internal/domain"
)

// GridSize is the snap quantum for node positions, in document units.
const GridSize = 18

// Field length caps applied on add and on every patch. Excess is truncated,
// never rejected.
const (
	MaxNameLen      = 80
	MaxTextLen      = 1000
	MaxClassNameLen = 500
	MaxSrcLen       = 2000
)

// SnapToGrid quantizes v to the nearest multiple of GridSize.
func SnapToGrid(v float64) float64 {
	return math.Round(v/GridSize) * GridSize
}

// sanitizeNumber rounds v to an integer, falling back when v is not finite.
func sanitizeNumber(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Round(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// SanitizeNode normalizes a node for insertion: caps string lengths, rounds
// geometry, floors size at 1x1, clones the style map, and defaults the
// visibility flag. Returns nil when the node type is not allowed.
func SanitizeNode(n *domain.Node) *domain.Node {
	if n == nil || !domain.ValidNodeType(n.Type) {
		return nil
	}
	c := n.Clone()
	c.Name = truncate(c.Name, MaxNameLen)
	c.Text = truncate(c.Text, MaxTextLen)
	c.ClassName = truncate(c.ClassName, MaxClassNameLen)
	c.Src = truncate(c.Src, MaxSrcLen)
	if c.Style == nil {
		c.Style = map[string]string{}
	}
	c.X = sanitizeNumber(c.X, 0)
	c.Y = sanitizeNumber(c.Y, 0)
	c.Width = math.Max(1, sanitizeNumber(c.Width, 1))
	c.Height = math.Max(1, sanitizeNumber(c.Height, 1))
	return c
}

// SanitizePatch filters a patch against the node it will be merged into:
// strings are truncated, numbers rounded with the current value as fallback
// for non-finite input, width/height floored at 1, and the style map merged
// over the node's current style without aliasing the input.
func SanitizePatch(p *domain.NodePatch, current *domain.Node) *domain.NodePatch {
	next := &domain.NodePatch{}
	if p == nil {
		return next
	}
	if p.Name != nil {
		v := truncate(*p.Name, MaxNameLen)
		next.Name = &v
	}
	if p.Text != nil {
		v := truncate(*p.Text, MaxTextLen)
		next.Text = &v
	}
	if p.ClassName != nil {
		v := truncate(*p.ClassName, MaxClassNameLen)
		next.ClassName = &v
	}
	if p.Src != nil {
		v := truncate(*p.Src, MaxSrcLen)
		next.Src = &v
	}
	if p.Style != nil {
		merged := make(map[string]string, len(current.Style)+len(p.Style))
		for k, v := range current.Style {
			merged[k] = v
		}
		for k, v := range p.Style {
			merged[k] = v
		}
		next.Style = merged
	}
	if p.Locked != nil {
		v := *p.Locked
		next.Locked = &v
	}
	if p.Visible != nil {
		v := *p.Visible
		next.Visible = &v
	}
	if p.X != nil {
		v := sanitizeNumber(*p.X, current.X)
		next.X = &v
	}
	if p.Y != nil {
		v := sanitizeNumber(*p.Y, current.Y)
		next.Y = &v
	}
	if p.Width != nil {
		v := math.Max(1, sanitizeNumber(*p.Width, current.Width))
		next.Width = &v
	}
	if p.Height != nil {
		v := math.Max(1, sanitizeNumber(*p.Height, current.Height))
		next.Height = &v
	}
	return next
}

// mergePatch applies a sanitized patch onto a clone of node.
func mergePatch(node *domain.Node, p *domain.NodePatch) *domain.Node {
	c := node.Clone()
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Text != nil {
		c.Text = *p.Text
	}
	if p.ClassName != nil {
		c.ClassName = *p.ClassName
	}
	if p.Src != nil {
		c.Src = *p.Src
	}
	if p.Style != nil {
		c.Style = p.Style
	}
	if p.Locked != nil {
		c.Locked = *p.Locked
	}
	if p.Visible != nil {
		c.Visible = *p.Visible
	}
	if p.X != nil {
		c.X = *p.X
	}
	if p.Y != nil {
		c.Y = *p.Y
	}
	if p.Width != nil {
		c.Width = *p.Width
	}
	if p.Height != nil {
		c.Height = *p.Height
	}
	return c
}
