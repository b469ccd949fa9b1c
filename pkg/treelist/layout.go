package treelist

import "sort"

// metrics carries the fixed geometry a layout pass needs.
type metrics struct {
	axis          Axis
	parentSize    Size
	childSize     Size
	parentSpacing int
	childSpacing  int
}

// layout is the result of one forward scan over the tree.
type layout struct {
	slots  []Slot // traversal order, offsets non-decreasing
	extent int    // total content length along the scroll axis
}

// computeLayout lays out every parent and every child of an expanded parent.
// The cursor advances by each slot's extent plus the gap that follows it:
// child spacing inside an expanded group, parent spacing after a group or a
// collapsed parent. The extent ends at the last slot, so the trailing gap is
// never counted.
func computeLayout(data []ParentNode, expanded func(int) bool, m metrics) layout {
	var l layout
	parentExtent := m.parentSize.Extent(m.axis)
	childExtent := m.childSize.Extent(m.axis)

	pos := 0
	for p := range data {
		kids := len(data[p].Children)
		open := expanded(p) && kids > 0

		l.slots = append(l.slots, Slot{
			Kind:        SlotParent,
			ParentIndex: p,
			ChildIndex:  -1,
			Offset:      pos,
			Size:        m.parentSize,
		})
		l.extent = pos + parentExtent
		if open {
			pos += parentExtent + m.childSpacing
		} else {
			pos += parentExtent + m.parentSpacing
			continue
		}

		for c := 0; c < kids; c++ {
			l.slots = append(l.slots, Slot{
				Kind:        SlotChild,
				ParentIndex: p,
				ChildIndex:  c,
				Offset:      pos,
				Size:        m.childSize,
			})
			l.extent = pos + childExtent
			gap := m.childSpacing
			if c == kids-1 {
				gap = m.parentSpacing
			}
			pos += childExtent + gap
		}
	}
	return l
}

// contentSize is the size reported to the scroll container.
func (l layout) contentSize(m metrics) Size {
	if m.axis == Horizontal {
		return Size{Width: l.extent, Height: m.parentSize.Height}
	}
	return Size{Width: m.parentSize.Width, Height: l.extent}
}

// visible calls fn for every slot that intersects the viewport window, in
// offset order. Offsets are monotonic, so the scan starts at the first slot
// whose end lies past the window origin and stops at the first slot that
// starts beyond the window.
func (l layout) visible(axis Axis, origin, window int, fn func(Slot)) {
	first := sort.Search(len(l.slots), func(i int) bool {
		s := l.slots[i]
		return s.Offset+s.Size.Extent(axis) > origin
	})
	for _, s := range l.slots[first:] {
		if s.Offset >= origin+window {
			return
		}
		if Visible(s.Offset, s.Size.Extent(axis), origin, window) {
			fn(s)
		}
	}
}
