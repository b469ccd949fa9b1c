package treelist

import "github.com/vanderheijden86/treelist/pkg/debug"

// rebuild releases every displayed cell and binds a fresh cell to each
// visible slot.
func (t *TreeList) rebuild() {
	rp := t.parents.releaseAll()
	rc := t.children.releaseAll()

	origin, window := t.window()
	t.layout.visible(t.opts.Axis, origin, window, t.bind)

	debug.Log("rebuild: origin=%d released=%d/%d displayed=%d/%d",
		origin, rp, rc, len(t.parents.displayed), len(t.children.displayed))
}

// reconcile is the scroll path. Cells whose slot is still on screen stay
// where they are; cells that left the window go back to their pool; slots
// that entered the window get a cell.
func (t *TreeList) reconcile() {
	if len(t.data) == 0 {
		return
	}
	origin, window := t.window()
	axis := t.opts.Axis

	covered := make(map[Key]struct{}, len(t.parents.displayed)+len(t.children.displayed))
	rp := t.parents.retain(func(h *Handle[ParentCell]) bool {
		s := h.slot
		if !Visible(s.Offset, s.Size.Extent(axis), origin, window) {
			return false
		}
		covered[s.Key()] = struct{}{}
		return true
	})
	rc := t.children.retain(func(h *Handle[ChildCell]) bool {
		s := h.slot
		if !Visible(s.Offset, s.Size.Extent(axis), origin, window) {
			return false
		}
		covered[s.Key()] = struct{}{}
		return true
	})

	added := 0
	t.layout.visible(axis, origin, window, func(s Slot) {
		if _, ok := covered[s.Key()]; ok {
			return
		}
		t.bind(s)
		added++
	})

	debug.LogIf(rp+rc+added > 0, "reconcile: origin=%d released=%d/%d acquired=%d",
		origin, rp, rc, added)
}

// bind acquires a cell for s and pushes the row's data and state into it.
func (t *TreeList) bind(s Slot) {
	switch s.Kind {
	case SlotParent:
		h := t.parents.acquire(s)
		h.cell.Bind(&t.data[s.ParentIndex])
		h.cell.SetExpandedVisual(t.IsExpanded(s.ParentIndex))
	case SlotChild:
		h := t.children.acquire(s)
		h.cell.Bind(t.data[s.ParentIndex].Children[s.ChildIndex])
		h.cell.SetSelectedVisual(t.isSelectedChild(s.ParentIndex, s.ChildIndex))
	}
}

// window returns the viewport origin and length along the scroll axis.
func (t *TreeList) window() (origin, window int) {
	return t.scroll.ScrollOffset(), t.viewport.Extent(t.opts.Axis)
}
