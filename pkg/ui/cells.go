package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treelist/pkg/treelist"
)

// cellView is the state every terminal cell shares. The concrete cell
// supplies draw, which returns size.Height lines of exactly size.Width
// columns.
type cellView struct {
	size   treelist.Size
	active bool
	offset int
	click  func()
	draw   func(focused bool) []string
}

func (c *cellView) Activate()             { c.active = true }
func (c *cellView) Deactivate()           { c.active = false }
func (c *cellView) PositionAt(offset int) { c.offset = offset }
func (c *cellView) OnClick(fn func())     { c.click = fn }

// Click dispatches to the listener the list registered, if any.
func (c *cellView) Click() {
	if c.click != nil {
		c.click()
	}
}

// ParentCellView renders a parent row: pointer marker, expand indicator and
// the parent's display name with its child count.
type ParentCellView struct {
	cellView
	theme    Theme
	node     *treelist.ParentNode
	label    string
	expanded bool
}

// NewParentCell creates a parent cell owned by v.
func NewParentCell(v *ScrollView, theme Theme, size treelist.Size) *ParentCellView {
	c := &ParentCellView{cellView: cellView{size: size}, theme: theme}
	c.draw = c.lines
	v.register(&c.cellView)
	return c
}

func (c *ParentCellView) Bind(node *treelist.ParentNode) {
	c.node = node
	c.Refresh()
}

// Refresh re-reads the display name, which may come from a NameFunc.
func (c *ParentCellView) Refresh() {
	c.label = ""
	if c.node != nil {
		c.label = fmt.Sprintf("%s (%d)", c.node.DisplayName(), len(c.node.Children))
	}
}

func (c *ParentCellView) SetExpandedVisual(expanded bool) { c.expanded = expanded }

// Label returns the text last pulled from the bound node.
func (c *ParentCellView) Label() string { return c.label }

// Expanded reports the expanded visual.
func (c *ParentCellView) Expanded() bool { return c.expanded }

// indicator returns the expand/collapse indicator for the bound node.
func (c *ParentCellView) indicator() string {
	if c.node == nil || len(c.node.Children) == 0 {
		return "•" // leaf
	}
	if c.expanded {
		return "▾"
	}
	return "▸"
}

func (c *ParentCellView) lines(focused bool) []string {
	marker, ind := " ", c.indicator()
	if focused {
		marker = "›"
	}
	prefixWidth := runewidth.StringWidth(marker) + 1 + runewidth.StringWidth(ind) + 1
	label := truncateLabel(c.label, c.size.Width-prefixWidth)

	style := c.theme.Parent
	if c.expanded {
		style = c.theme.ParentOpen
	}
	var sb strings.Builder
	sb.WriteString(c.theme.Pointer.Render(marker))
	sb.WriteString(" ")
	sb.WriteString(c.theme.Indicator.Render(ind))
	sb.WriteString(" ")
	sb.WriteString(style.Render(label))
	return padLines(sb.String(), c.size)
}

// ChildCellView renders one child value under a branch prefix.
type ChildCellView struct {
	cellView
	theme    Theme
	value    any
	label    string
	selected bool
}

// NewChildCell creates a child cell owned by v.
func NewChildCell(v *ScrollView, theme Theme, size treelist.Size) *ChildCellView {
	c := &ChildCellView{cellView: cellView{size: size}, theme: theme}
	c.draw = c.lines
	v.register(&c.cellView)
	return c
}

func (c *ChildCellView) Bind(value any) {
	c.value = value
	c.Refresh()
}

func (c *ChildCellView) Refresh() {
	c.label = ""
	if c.value != nil {
		c.label = fmt.Sprint(c.value)
	}
}

func (c *ChildCellView) SetSelectedVisual(selected bool) { c.selected = selected }

// Label returns the text last pulled from the bound value.
func (c *ChildCellView) Label() string { return c.label }

// Selected reports the selected visual.
func (c *ChildCellView) Selected() bool { return c.selected }

const branch = "├─ "

func (c *ChildCellView) lines(focused bool) []string {
	marker := " "
	if focused {
		marker = "›"
	}
	prefixWidth := runewidth.StringWidth(marker) + 2 + runewidth.StringWidth(branch)
	label := truncateLabel(c.label, c.size.Width-prefixWidth)

	style := c.theme.Child
	if c.selected {
		style = c.theme.Selected
	}
	var sb strings.Builder
	sb.WriteString(c.theme.Pointer.Render(marker))
	sb.WriteString("  ")
	sb.WriteString(c.theme.Indicator.Render(branch))
	sb.WriteString(style.Render(label))
	return padLines(sb.String(), c.size)
}

// truncateLabel shortens s to at most width display columns with an ellipsis.
func truncateLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// padLines places first on the first of size.Height lines, each exactly
// size.Width columns wide.
func padLines(first string, size treelist.Size) []string {
	out := make([]string, size.Height)
	for i := range out {
		line := ""
		if i == 0 {
			line = first
		}
		out[i] = fit(line, size.Width)
	}
	return out
}

// ParentPrototype describes parent cells for a TreeList hosted in v.
func ParentPrototype(v *ScrollView, theme Theme, size treelist.Size) treelist.Prototype[treelist.ParentCell] {
	return treelist.Prototype[treelist.ParentCell]{
		Size: size,
		New:  func() treelist.ParentCell { return NewParentCell(v, theme, size) },
	}
}

// ChildPrototype describes child cells for a TreeList hosted in v.
func ChildPrototype(v *ScrollView, theme Theme, size treelist.Size) treelist.Prototype[treelist.ChildCell] {
	return treelist.Prototype[treelist.ChildCell]{
		Size: size,
		New:  func() treelist.ChildCell { return NewChildCell(v, theme, size) },
	}
}
