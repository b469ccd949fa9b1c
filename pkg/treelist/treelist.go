// Package treelist implements a virtualized two-level tree list.
//
// A TreeList lays out parents and the children of expanded parents along one
// scroll axis, and keeps a small pool of presentation cells bound to exactly
// the rows that intersect the scroll container's viewport. Structural changes
// (new data, expand/collapse) trigger a layout pass and a full rebind;
// scrolling only swaps the cells at the edges of the window.
//
// The list is single-threaded. Every method, and every callback it hands to
// its collaborators, must run on the host's event loop.
package treelist

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/vanderheijden86/treelist/pkg/debug"
)

// ErrNotConfigured is wrapped by every ConfigError.
var ErrNotConfigured = errors.New("treelist: not configured")

// ConfigError reports a missing or invalid collaborator found when the list
// first initializes.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("treelist: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrNotConfigured
}

// Options tunes layout and expand behaviour.
type Options struct {
	ParentSpacing int  // gap after a collapsed parent or an expanded group
	ChildSpacing  int  // gap between an expanded parent and its children, and between children
	SingleExpand  bool // only the selected parent is expanded
	Axis          Axis
}

// TreeList is the list controller. Create it with New; it binds to its
// scroll container lazily, on the first ShowTreeList or ForceRefresh.
type TreeList struct {
	scroll      ScrollContainer
	parentProto Prototype[ParentCell]
	childProto  Prototype[ChildCell]
	opts        Options

	// OnParentSelected fires when a click leaves a parent expanded. h is the
	// handle bound to that parent after the refresh the click caused.
	OnParentSelected func(node *ParentNode, index int, h *Handle[ParentCell])
	// OnChildSelected fires once per child click.
	OnChildSelected func(value any, index int, h *Handle[ChildCell])

	initialized bool
	busy        bool
	viewport    Size

	data     []ParentNode
	expanded map[int]bool
	selected Selection
	layout   layout

	parents  *pool[ParentCell]
	children *pool[ChildCell]
}

// New returns an uninitialized list. Collaborators are validated on first use.
func New(scroll ScrollContainer, parent Prototype[ParentCell], child Prototype[ChildCell], opts Options) *TreeList {
	return &TreeList{
		scroll:      scroll,
		parentProto: parent,
		childProto:  child,
		opts:        opts,
		expanded:    make(map[int]bool),
	}
}

// init binds the list to its scroll container. It fails without side
// effects when a collaborator is missing.
func (t *TreeList) init() error {
	if t.initialized {
		return nil
	}
	switch {
	case t.scroll == nil:
		return &ConfigError{Field: "scroll container", Reason: "is nil"}
	case !t.parentProto.valid():
		return &ConfigError{Field: "parent prototype", Reason: "needs a constructor and a positive size"}
	case !t.childProto.valid():
		return &ConfigError{Field: "child prototype", Reason: "needs a constructor and a positive size"}
	case t.opts.ParentSpacing < 0 || t.opts.ChildSpacing < 0:
		return &ConfigError{Field: "spacing", Reason: "must not be negative"}
	case t.opts.Axis != Vertical && t.opts.Axis != Horizontal:
		return &ConfigError{Field: "axis", Reason: fmt.Sprintf("unknown axis %d", t.opts.Axis)}
	}

	t.viewport = t.scroll.Viewport()
	if t.scroll.Movement() != MovementClamped {
		t.scroll.SetMovement(MovementClamped)
	}
	t.scroll.LockAxis(t.opts.Axis)
	t.scroll.OnScroll(t.onScroll)

	t.parents = newPool(t.parentProto.New, func(h *Handle[ParentCell]) {
		h.cell.OnClick(func() { t.clickParent(h) })
	})
	t.children = newPool(t.childProto.New, func(h *Handle[ChildCell]) {
		h.cell.OnClick(func() { t.clickChild(h) })
	})

	t.initialized = true
	debug.Log("init: axis=%s viewport=%dx%d", t.opts.Axis, t.viewport.Width, t.viewport.Height)
	return nil
}

// ShowTreeList replaces the data, expands and selects sel.Parent, selects
// sel.Child, scrolls back to the origin and redisplays.
func (t *TreeList) ShowTreeList(data []ParentNode, sel Selection) error {
	if err := t.init(); err != nil {
		return err
	}
	t.busy = true
	t.expanded[sel.Parent] = true
	t.selected = sel
	t.scroll.SetScrollOffset(0)
	t.parents.releaseAll()
	t.children.releaseAll()
	t.data = data
	t.busy = false

	t.refresh()
	return nil
}

// ForceRefresh recomputes the layout and rebinds every visible cell. A nil
// data slice keeps the current data; scroll offset and selection are kept.
func (t *TreeList) ForceRefresh(data []ParentNode) error {
	if err := t.init(); err != nil {
		return err
	}
	if data != nil {
		t.data = data
	}
	t.refresh()
	return nil
}

// Resize re-reads the viewport from the scroll container and redisplays.
// It is a no-op before initialization.
func (t *TreeList) Resize() {
	if !t.initialized {
		return
	}
	t.viewport = t.scroll.Viewport()
	t.refresh()
}

func (t *TreeList) refresh() {
	if t.busy {
		return
	}
	t.busy = true
	defer func() { t.busy = false }()

	start := time.Now()
	m := t.metrics()
	t.layout = computeLayout(t.data, t.IsExpanded, m)
	if debug.Enabled() {
		debug.LogTiming(fmt.Sprintf("layout (%d slots)", len(t.layout.slots)), time.Since(start))
	}

	t.scroll.SetContentSize(t.layout.contentSize(m))
	t.rebuild()
}

func (t *TreeList) metrics() metrics {
	return metrics{
		axis:          t.opts.Axis,
		parentSize:    t.parentProto.Size,
		childSize:     t.childProto.Size,
		parentSpacing: t.opts.ParentSpacing,
		childSpacing:  t.opts.ChildSpacing,
	}
}

func (t *TreeList) onScroll(int) {
	if !t.initialized || t.busy {
		return
	}
	t.busy = true
	defer func() { t.busy = false }()
	t.reconcile()
}

// RefreshParentItem asks displayed parent cells to re-pull their data.
// index -1 refreshes every displayed parent; an off-screen index is a no-op.
func (t *TreeList) RefreshParentItem(index int) {
	if !t.initialized {
		return
	}
	for _, h := range t.parents.displayed {
		if index == -1 || h.slot.ParentIndex == index {
			h.cell.Refresh()
		}
	}
}

// RefreshChildItem asks displayed child cells to re-pull their data.
// If either index is -1 every displayed child is refreshed.
func (t *TreeList) RefreshChildItem(parentIndex, childIndex int) {
	if !t.initialized {
		return
	}
	all := parentIndex == -1 || childIndex == -1
	for _, h := range t.children.displayed {
		if all || (h.slot.ParentIndex == parentIndex && h.slot.ChildIndex == childIndex) {
			h.cell.Refresh()
		}
	}
}

func (t *TreeList) clickParent(h *Handle[ParentCell]) {
	if t.busy || !h.active {
		return
	}
	idx := h.slot.ParentIndex
	t.selected.Parent = idx
	t.expanded[idx] = !t.IsExpanded(idx)
	t.refresh()

	if !t.IsExpanded(idx) || t.OnParentSelected == nil {
		return
	}
	cur := t.parents.find(func(x *Handle[ParentCell]) bool { return x.slot.ParentIndex == idx })
	t.OnParentSelected(&t.data[idx], idx, cur)
}

func (t *TreeList) clickChild(h *Handle[ChildCell]) {
	if t.busy || !h.active {
		return
	}
	p, c := h.slot.ParentIndex, h.slot.ChildIndex
	t.selected = Selection{Parent: p, Child: c}
	for _, other := range t.children.displayed {
		if other != h {
			other.cell.SetSelectedVisual(false)
		}
	}
	h.cell.SetSelectedVisual(true)

	if t.OnChildSelected != nil {
		t.OnChildSelected(t.data[p].Children[c], c, h)
	}
}

// IsExpanded reports whether parent i shows its children.
func (t *TreeList) IsExpanded(i int) bool {
	if t.opts.SingleExpand {
		return t.selected.Parent == i
	}
	return t.expanded[i]
}

func (t *TreeList) isSelectedChild(p, c int) bool {
	return t.selected.Parent == p && t.selected.Child == c
}

// Selection returns the selected (parent, child) pair.
func (t *TreeList) Selection() Selection { return t.selected }

// Data returns the current data slice.
func (t *TreeList) Data() []ParentNode { return t.data }

// Options returns the options the list was created with.
func (t *TreeList) Options() Options { return t.opts }

// ContentExtent returns the laid-out length along the scroll axis.
func (t *TreeList) ContentExtent() int { return t.layout.extent }

// Slots returns a copy of the current layout in offset order.
func (t *TreeList) Slots() []Slot { return slices.Clone(t.layout.slots) }

// Initialized reports whether the list has bound to its scroll container.
func (t *TreeList) Initialized() bool { return t.initialized }

// Displayed returns the keys of every displayed cell in offset order.
func (t *TreeList) Displayed() []Key {
	if !t.initialized {
		return nil
	}
	slots := make([]Slot, 0, len(t.parents.displayed)+len(t.children.displayed))
	for _, h := range t.parents.displayed {
		slots = append(slots, h.slot)
	}
	for _, h := range t.children.displayed {
		slots = append(slots, h.slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Offset != slots[j].Offset {
			return slots[i].Offset < slots[j].Offset
		}
		return slots[i].Kind < slots[j].Kind
	})
	keys := make([]Key, len(slots))
	for i, s := range slots {
		keys[i] = s.Key()
	}
	return keys
}

// Stats returns the parent and child pool counters.
func (t *TreeList) Stats() (parents, children PoolStats) {
	if !t.initialized {
		return PoolStats{}, PoolStats{}
	}
	return t.parents.stats(), t.children.stats()
}
