package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/treelist/pkg/treelist"
)

// ScrollView is the terminal scroll container a TreeList lives in. It owns
// every cell view the list creates and composes the active ones into the
// visible window, rows for a vertical list and columns for a horizontal one.
//
// Elastic overscroll has no animation in a terminal, so MovementElastic
// clamps like MovementClamped.
type ScrollView struct {
	offset    int
	viewport  treelist.Size
	content   treelist.Size
	movement  treelist.Movement
	axis      treelist.Axis
	listeners []func(int)

	cells []*cellView
	focus int // content offset of the pointer cell, -1 for none
}

// NewScrollView returns an empty view with the given window size.
func NewScrollView(width, height int) *ScrollView {
	return &ScrollView{
		viewport: treelist.Size{Width: width, Height: height},
		movement: treelist.MovementElastic,
		focus:    -1,
	}
}

func (v *ScrollView) ScrollOffset() int { return v.offset }
func (v *ScrollView) Viewport() treelist.Size { return v.viewport }
func (v *ScrollView) ContentSize() treelist.Size { return v.content }
func (v *ScrollView) Movement() treelist.Movement { return v.movement }
func (v *ScrollView) SetMovement(m treelist.Movement) { v.movement = m }
func (v *ScrollView) Axis() treelist.Axis { return v.axis }
func (v *ScrollView) LockAxis(a treelist.Axis) { v.axis = a }
func (v *ScrollView) OnScroll(fn func(offset int)) { v.listeners = append(v.listeners, fn) }
func (v *ScrollView) Window() int { return v.viewport.Extent(v.axis) }
func (v *ScrollView) SetFocus(offset int) { v.focus = offset }

// MaxOffset is the largest offset that still fills the window.
func (v *ScrollView) MaxOffset() int {
	return max(0, v.content.Extent(v.axis)-v.viewport.Extent(v.axis))
}

// SetScrollOffset moves the window and notifies listeners when the offset
// actually changes.
func (v *ScrollView) SetScrollOffset(offset int) {
	if v.movement != treelist.MovementUnrestricted {
		offset = max(0, min(offset, v.MaxOffset()))
	}
	if offset == v.offset {
		return
	}
	v.offset = offset
	for _, fn := range v.listeners {
		fn(offset)
	}
}

// ScrollBy moves the window by delta along the locked axis.
func (v *ScrollView) ScrollBy(delta int) {
	v.SetScrollOffset(v.offset + delta)
}

func (v *ScrollView) SetContentSize(size treelist.Size) {
	v.content = size
	v.SetScrollOffset(v.offset)
}

// SetViewport resizes the window. Callers follow up with TreeList.Resize.
func (v *ScrollView) SetViewport(size treelist.Size) {
	v.viewport = size
	v.SetScrollOffset(v.offset)
}

func (v *ScrollView) register(c *cellView) {
	v.cells = append(v.cells, c)
}

// active returns the displayed cells in offset order.
func (v *ScrollView) active() []*cellView {
	out := make([]*cellView, 0, len(v.cells))
	for _, c := range v.cells {
		if c.active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].offset < out[j].offset })
	return out
}

// hitTest returns the active cell under window coordinate (x, y), or nil.
func (v *ScrollView) hitTest(x, y int) *cellView {
	if x < 0 || y < 0 || x >= v.viewport.Width || y >= v.viewport.Height {
		return nil
	}
	pos, cross := y+v.offset, x
	if v.axis == treelist.Horizontal {
		pos, cross = x+v.offset, y
	}
	for _, c := range v.cells {
		if !c.active {
			continue
		}
		if pos >= c.offset && pos < c.offset+c.size.Extent(v.axis) && cross < c.size.Cross(v.axis) {
			return c
		}
	}
	return nil
}

// cellAt returns the active cell positioned at content offset, or nil.
func (v *ScrollView) cellAt(offset int) *cellView {
	for _, c := range v.cells {
		if c.active && c.offset == offset {
			return c
		}
	}
	return nil
}

// View renders the window. Every row is exactly the viewport width.
func (v *ScrollView) View() string {
	w, h := v.viewport.Width, v.viewport.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	rows := make([]string, h)
	active := v.active()

	if v.axis == treelist.Vertical {
		for _, c := range active {
			top := c.offset - v.offset
			for i, line := range c.draw(c.offset == v.focus) {
				if r := top + i; r >= 0 && r < h {
					rows[r] = line
				}
			}
		}
	} else {
		type column struct {
			left, from, to int
			lines          []string
		}
		cols := make([]column, 0, len(active))
		for _, c := range active {
			left := c.offset - v.offset
			from, to := max(0, -left), min(c.size.Width, w-left)
			if from >= to {
				continue
			}
			cols = append(cols, column{left: left, from: from, to: to, lines: c.draw(c.offset == v.focus)})
		}
		for r := range rows {
			var sb strings.Builder
			x := 0
			for _, col := range cols {
				if start := max(col.left, 0); start > x {
					sb.WriteString(strings.Repeat(" ", start-x))
					x = start
				}
				line := ""
				if r < len(col.lines) {
					line = col.lines[r]
				}
				sb.WriteString(ansi.Cut(line, col.from, col.to))
				x += col.to - col.from
			}
			rows[r] = sb.String()
		}
	}

	for r := range rows {
		rows[r] = fit(rows[r], w)
	}
	return strings.Join(rows, "\n")
}

// fit truncates or pads s to exactly w display columns.
func fit(s string, w int) string {
	s = ansi.Truncate(s, w, "")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
