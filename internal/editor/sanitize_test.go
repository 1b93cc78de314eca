package editor_test

import (
	"math"
	"strings"
	"testing"

	"canvas/internal/domain"
	"canvas/internal/editor"
)

func TestSnapToGrid(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{8, 0},
		{9, 18},
		{18, 18},
		{27, 36},
		{-8, 0},
		{-10, -18},
		{100, 108},
	}
	for _, tc := range cases {
		if got := editor.SnapToGrid(tc.in); got != tc.want {
			t.Errorf("SnapToGrid(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}

func TestSnapToGrid_Idempotent(t *testing.T) {
	for _, v := range []float64{7, 29, -13, 991} {
		once := editor.SnapToGrid(v)
		if twice := editor.SnapToGrid(once); twice != once {
			t.Errorf("snap not idempotent for %g: %g then %g", v, once, twice)
		}
	}
}

func TestSanitizeNode_RejectsUnknownType(t *testing.T) {
	if editor.SanitizeNode(&domain.Node{ID: "a", Type: "widget"}) != nil {
		t.Error("unknown type should be rejected")
	}
	if editor.SanitizeNode(nil) != nil {
		t.Error("nil node should be rejected")
	}
}

func TestSanitizeNode_CapsAndDefaults(t *testing.T) {
	n := &domain.Node{
		ID:     "a",
		Type:   domain.NodeText,
		Name:   strings.Repeat("n", 200),
		Text:   strings.Repeat("t", 2000),
		X:      math.NaN(),
		Y:      4.6,
		Width:  0,
		Height: -5,
	}
	got := editor.SanitizeNode(n)
	if got == nil {
		t.Fatal("valid node rejected")
	}
	if len(got.Name) != editor.MaxNameLen {
		t.Errorf("name length = %d", len(got.Name))
	}
	if len(got.Text) != editor.MaxTextLen {
		t.Errorf("text length = %d", len(got.Text))
	}
	if got.X != 0 {
		t.Errorf("NaN x should fall back to 0, got %g", got.X)
	}
	if got.Y != 5 {
		t.Errorf("y should round, got %g", got.Y)
	}
	if got.Width != 1 || got.Height != 1 {
		t.Errorf("size should floor at 1x1, got %gx%g", got.Width, got.Height)
	}
	if got.Style == nil {
		t.Error("nil style should become an empty map")
	}
	if got == n {
		t.Error("sanitize must not return the input node")
	}
}

func TestSanitizePatch_NonFiniteFallsBackToCurrent(t *testing.T) {
	current := &domain.Node{ID: "a", Type: domain.NodeText, X: 36, Width: 200}
	x := math.Inf(1)
	w := math.NaN()
	p := editor.SanitizePatch(&domain.NodePatch{X: &x, Width: &w}, current)
	if p.X == nil || *p.X != 36 {
		t.Errorf("x should fall back to current, got %v", p.X)
	}
	if p.Width == nil || *p.Width != 200 {
		t.Errorf("width should fall back to current, got %v", p.Width)
	}
}

func TestSanitizePatch_StyleMergesWithoutAliasing(t *testing.T) {
	current := &domain.Node{
		ID:    "a",
		Type:  domain.NodeText,
		Style: map[string]string{"color": "red", "margin": "4px"},
	}
	in := map[string]string{"color": "blue"}
	p := editor.SanitizePatch(&domain.NodePatch{Style: in}, current)
	if p.Style["color"] != "blue" || p.Style["margin"] != "4px" {
		t.Errorf("merged style = %v", p.Style)
	}
	p.Style["extra"] = "x"
	if _, ok := in["extra"]; ok {
		t.Error("sanitized style must not alias the input map")
	}
	if _, ok := current.Style["extra"]; ok {
		t.Error("sanitized style must not alias the current style")
	}
}

func TestSanitizePatch_TruncatesStrings(t *testing.T) {
	current := &domain.Node{ID: "a", Type: domain.NodeText}
	long := strings.Repeat("c", editor.MaxClassNameLen+100)
	p := editor.SanitizePatch(&domain.NodePatch{ClassName: &long}, current)
	if p.ClassName == nil || len(*p.ClassName) != editor.MaxClassNameLen {
		t.Errorf("className should truncate to %d", editor.MaxClassNameLen)
	}
}

func TestSanitizePatch_NilPatchIsEmpty(t *testing.T) {
	p := editor.SanitizePatch(nil, &domain.Node{ID: "a", Type: domain.NodeText})
	if !p.Empty() {
		t.Error("nil patch should sanitize to an empty patch")
	}
}
