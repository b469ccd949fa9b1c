package treelist

import "fmt"

// fakeScroll is an in-memory ScrollContainer.
type fakeScroll struct {
	offset    int
	viewport  Size
	content   Size
	movement  Movement
	axis      Axis
	listeners []func(int)
	events    int
}

func newFakeScroll(width, height int) *fakeScroll {
	return &fakeScroll{viewport: Size{Width: width, Height: height}, movement: MovementElastic}
}

func (f *fakeScroll) ScrollOffset() int { return f.offset }
func (f *fakeScroll) Viewport() Size { return f.viewport }
func (f *fakeScroll) Movement() Movement { return f.movement }
func (f *fakeScroll) SetMovement(m Movement) { f.movement = m }
func (f *fakeScroll) LockAxis(a Axis) { f.axis = a }
func (f *fakeScroll) OnScroll(fn func(int)) { f.listeners = append(f.listeners, fn) }

func (f *fakeScroll) maxOffset() int {
	m := f.content.Extent(f.axis) - f.viewport.Extent(f.axis)
	if m < 0 {
		return 0
	}
	return m
}

func (f *fakeScroll) SetScrollOffset(o int) {
	if f.movement == MovementClamped {
		o = max(0, min(o, f.maxOffset()))
	}
	if o == f.offset {
		return
	}
	f.offset = o
	f.events++
	for _, fn := range f.listeners {
		fn(o)
	}
}

func (f *fakeScroll) SetContentSize(s Size) {
	f.content = s
	f.SetScrollOffset(f.offset)
}

type fakeCell struct {
	id        int
	active    bool
	offset    int
	refreshes int
	click     func()
}

func (c *fakeCell) Activate() { c.active = true }
func (c *fakeCell) Deactivate() { c.active = false }
func (c *fakeCell) PositionAt(o int) { c.offset = o }
func (c *fakeCell) Refresh() { c.refreshes++ }
func (c *fakeCell) OnClick(fn func()) { c.click = fn }
func (c *fakeCell) Click() { c.click() }

type fakeParent struct {
	fakeCell
	node     *ParentNode
	expanded bool
}

func (c *fakeParent) Bind(n *ParentNode) { c.node = n }
func (c *fakeParent) SetExpandedVisual(e bool) { c.expanded = e }

type fakeChild struct {
	fakeCell
	value    any
	selected bool
}

func (c *fakeChild) Bind(v any) { c.value = v }
func (c *fakeChild) SetSelectedVisual(s bool) { c.selected = s }

// harness wires a TreeList to fakes and records every created cell.
type harness struct {
	list     *TreeList
	scroll   *fakeScroll
	parents  []*fakeParent
	children []*fakeChild
}

func newHarness(viewport Size, parentSize, childSize Size, opts Options) *harness {
	h := &harness{scroll: newFakeScroll(viewport.Width, viewport.Height)}
	parent := Prototype[ParentCell]{Size: parentSize, New: func() ParentCell {
		c := &fakeParent{fakeCell: fakeCell{id: len(h.parents)}}
		h.parents = append(h.parents, c)
		return c
	}}
	child := Prototype[ChildCell]{Size: childSize, New: func() ChildCell {
		c := &fakeChild{fakeCell: fakeCell{id: len(h.children)}}
		h.children = append(h.children, c)
		return c
	}}
	h.list = New(h.scroll, parent, child, opts)
	return h
}

// newLineHarness uses one-line cells in a vertical viewport of the given height.
func newLineHarness(height int, opts Options) *harness {
	return newHarness(Size{Width: 40, Height: height}, Size{Width: 40, Height: 1}, Size{Width: 40, Height: 1}, opts)
}

func (h *harness) activeParents() []*fakeParent {
	var out []*fakeParent
	for _, c := range h.parents {
		if c.active {
			out = append(out, c)
		}
	}
	return out
}

func (h *harness) activeChildren() []*fakeChild {
	var out []*fakeChild
	for _, c := range h.children {
		if c.active {
			out = append(out, c)
		}
	}
	return out
}

// parentCellFor returns the active fake cell bound to parent index p.
func (h *harness) parentCellFor(p int) *fakeParent {
	for _, hd := range h.list.parents.displayed {
		if hd.ParentIndex() == p {
			return hd.Cell().(*fakeParent)
		}
	}
	return nil
}

// childCellFor returns the active fake cell bound to (p, c).
func (h *harness) childCellFor(p, c int) *fakeChild {
	for _, hd := range h.list.children.displayed {
		if hd.ParentIndex() == p && hd.ChildIndex() == c {
			return hd.Cell().(*fakeChild)
		}
	}
	return nil
}

// makeTree builds parents with the given child counts.
func makeTree(counts ...int) []ParentNode {
	data := make([]ParentNode, len(counts))
	for i, n := range counts {
		data[i].Name = fmt.Sprintf("parent => %d", i)
		for j := 0; j < n; j++ {
			data[i].Children = append(data[i].Children, fmt.Sprintf("child => %d", j))
		}
	}
	return data
}

// expectedKeys computes the visible keys from scratch, independent of the
// pools, for the given expand predicate and scroll offset.
func expectedKeys(data []ParentNode, expanded func(int) bool, m metrics, origin, window int) []Key {
	var keys []Key
	for _, s := range computeLayout(data, expanded, m).slots {
		if Visible(s.Offset, s.Size.Extent(m.axis), origin, window) {
			keys = append(keys, s.Key())
		}
	}
	return keys
}
