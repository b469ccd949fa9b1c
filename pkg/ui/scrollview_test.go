package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/treelist/pkg/treelist"
)

func TestScrollViewClampsAndNotifies(t *testing.T) {
	v := NewScrollView(10, 4)
	v.SetContentSize(treelist.Size{Width: 10, Height: 12})

	var got []int
	v.OnScroll(func(o int) { got = append(got, o) })

	v.SetScrollOffset(5)
	v.SetScrollOffset(5) // unchanged, no event
	v.SetScrollOffset(100)
	v.SetScrollOffset(-3)

	want := []int{5, 8, 0}
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestScrollViewUnrestricted(t *testing.T) {
	v := NewScrollView(10, 4)
	v.SetMovement(treelist.MovementUnrestricted)
	v.SetContentSize(treelist.Size{Width: 10, Height: 2})

	v.SetScrollOffset(7)
	if v.ScrollOffset() != 7 {
		t.Errorf("expected unrestricted offset 7, got %d", v.ScrollOffset())
	}
}

func TestScrollViewShrinkingContentReclamps(t *testing.T) {
	v := NewScrollView(10, 4)
	v.SetContentSize(treelist.Size{Width: 10, Height: 20})
	v.SetScrollOffset(16)

	v.SetContentSize(treelist.Size{Width: 10, Height: 6})
	if v.ScrollOffset() != 2 {
		t.Errorf("expected offset clamped to 2, got %d", v.ScrollOffset())
	}

	v.SetViewport(treelist.Size{Width: 10, Height: 10})
	if v.ScrollOffset() != 0 {
		t.Errorf("expected offset 0 once content fits, got %d", v.ScrollOffset())
	}
}

func TestScrollViewVerticalRender(t *testing.T) {
	v := NewScrollView(20, 3)
	v.SetContentSize(treelist.Size{Width: 20, Height: 5})

	p := NewParentCell(v, newTreeTestTheme(), treelist.Size{Width: 20, Height: 1})
	p.Bind(&treelist.ParentNode{Name: "alpha", Children: []any{"a"}})
	p.Activate()
	p.PositionAt(1)

	lines := strings.Split(ansi.Strip(v.View()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 20 {
			t.Errorf("row %d: expected width 20, got %d", i, w)
		}
	}
	if strings.TrimSpace(lines[0]) != "" || strings.TrimSpace(lines[2]) != "" {
		t.Errorf("expected only row 1 filled, got %q", lines)
	}
	if got := strings.TrimRight(lines[1], " "); got != "  ▸ alpha (1)" {
		t.Errorf("expected parent row %q, got %q", "  ▸ alpha (1)", got)
	}

	// scrolled by one, the parent moves to row 0
	v.SetScrollOffset(1)
	lines = strings.Split(ansi.Strip(v.View()), "\n")
	if !strings.Contains(lines[0], "alpha") {
		t.Errorf("expected parent on row 0 after scrolling, got %q", lines)
	}
}

func TestScrollViewInactiveCellsHidden(t *testing.T) {
	v := NewScrollView(20, 2)
	p := NewParentCell(v, newTreeTestTheme(), treelist.Size{Width: 20, Height: 1})
	p.Bind(&treelist.ParentNode{Name: "hidden"})
	p.PositionAt(0)

	if strings.Contains(ansi.Strip(v.View()), "hidden") {
		t.Error("inactive cell should not render")
	}
	if v.hitTest(0, 0) != nil {
		t.Error("inactive cell should not be hit")
	}
}

func TestScrollViewHorizontalRender(t *testing.T) {
	v := NewScrollView(10, 1)
	v.LockAxis(treelist.Horizontal)
	v.SetContentSize(treelist.Size{Width: 16, Height: 1})

	size := treelist.Size{Width: 8, Height: 1}
	a := NewChildCell(v, newTreeTestTheme(), size)
	a.Bind("ab")
	a.Activate()
	a.PositionAt(0)
	b := NewChildCell(v, newTreeTestTheme(), size)
	b.Bind("cd")
	b.Activate()
	b.PositionAt(8)

	v.SetScrollOffset(4)
	got := ansi.Strip(v.View())
	want := "─ ab   ├─ "
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestScrollViewHitTest(t *testing.T) {
	theme := newTreeTestTheme()

	v := NewScrollView(20, 4)
	v.SetContentSize(treelist.Size{Width: 20, Height: 10})
	c := NewChildCell(v, theme, treelist.Size{Width: 12, Height: 2})
	c.Activate()
	c.PositionAt(5)
	v.SetScrollOffset(4)

	tests := []struct {
		x, y int
		hit  bool
	}{
		{0, 0, false}, // content row 4
		{0, 1, true},  // content row 5
		{11, 2, true}, // content row 6, last column
		{12, 2, false},
		{0, 3, false},
		{-1, 1, false},
	}
	for _, tt := range tests {
		if got := v.hitTest(tt.x, tt.y) != nil; got != tt.hit {
			t.Errorf("hitTest(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.hit)
		}
	}

	h := NewScrollView(20, 3)
	h.LockAxis(treelist.Horizontal)
	h.SetContentSize(treelist.Size{Width: 40, Height: 3})
	p := NewParentCell(h, theme, treelist.Size{Width: 6, Height: 2})
	p.Activate()
	p.PositionAt(10)
	if h.hitTest(10, 1) != &p.cellView {
		t.Error("expected horizontal hit on the parent cell")
	}
	if h.hitTest(10, 2) != nil {
		t.Error("expected miss below the cell's cross extent")
	}
}

func TestScrollViewFocusMarker(t *testing.T) {
	v := NewScrollView(20, 2)
	v.SetContentSize(treelist.Size{Width: 20, Height: 2})
	theme := newTreeTestTheme()
	for i := 0; i < 2; i++ {
		c := NewChildCell(v, theme, treelist.Size{Width: 20, Height: 1})
		c.Bind("leaf")
		c.Activate()
		c.PositionAt(i)
	}

	v.SetFocus(1)
	lines := strings.Split(ansi.Strip(v.View()), "\n")
	if strings.HasPrefix(lines[0], "›") {
		t.Errorf("row 0 should not carry the pointer, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "›") {
		t.Errorf("row 1 should carry the pointer, got %q", lines[1])
	}
}
