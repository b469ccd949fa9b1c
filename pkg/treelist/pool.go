package treelist

// Handle is a pooled cell together with the logical row it is bound to.
// Handles outlive their bindings: a released handle waits on the free stack
// and is rebound on the next acquire.
type Handle[C Cell] struct {
	cell   C
	slot   Slot
	active bool
}

// Cell returns the presentation cell behind the handle.
func (h *Handle[C]) Cell() C { return h.cell }

// Slot returns the slot the handle is currently bound to.
func (h *Handle[C]) Slot() Slot { return h.slot }

// ParentIndex returns the bound parent index.
func (h *Handle[C]) ParentIndex() int { return h.slot.ParentIndex }

// ChildIndex returns the bound child index, -1 for parent cells.
func (h *Handle[C]) ChildIndex() int { return h.slot.ChildIndex }

// Active reports whether the handle is currently displayed.
func (h *Handle[C]) Active() bool { return h.active }

// PoolStats counts the cells owned by one pool.
type PoolStats struct {
	Allocated int // every cell ever created; the pool never shrinks
	Free      int
	Displayed int
}

// pool is a free-list of cells of one kind plus the list of cells currently
// on screen.
type pool[C Cell] struct {
	newCell   func() C
	onCreate  func(h *Handle[C])
	free      []*Handle[C]
	displayed []*Handle[C]
	allocated int
}

func newPool[C Cell](newCell func() C, onCreate func(h *Handle[C])) *pool[C] {
	return &pool[C]{newCell: newCell, onCreate: onCreate}
}

// acquire hands out a cell bound to slot, positioned and active.
func (p *pool[C]) acquire(slot Slot) *Handle[C] {
	var h *Handle[C]
	if n := len(p.free); n > 0 {
		h = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		h = &Handle[C]{cell: p.newCell()}
		p.allocated++
		if p.onCreate != nil {
			p.onCreate(h)
		}
	}
	h.slot = slot
	h.active = true
	h.cell.Activate()
	h.cell.PositionAt(slot.Offset)
	p.displayed = append(p.displayed, h)
	return h
}

// deactivate hides h and pushes it on the free stack. The caller removes it
// from the displayed list.
func (p *pool[C]) deactivate(h *Handle[C]) {
	if !h.active {
		return
	}
	h.active = false
	h.cell.Deactivate()
	p.free = append(p.free, h)
}

// releaseAll returns every displayed cell to the free stack.
func (p *pool[C]) releaseAll() int {
	n := len(p.displayed)
	for i, h := range p.displayed {
		p.deactivate(h)
		p.displayed[i] = nil
	}
	p.displayed = p.displayed[:0]
	return n
}

// retain walks the displayed cells back to front and releases every cell
// for which keep returns false. Survivors keep their relative order.
func (p *pool[C]) retain(keep func(h *Handle[C]) bool) int {
	released := 0
	for i := len(p.displayed) - 1; i >= 0; i-- {
		h := p.displayed[i]
		if keep(h) {
			continue
		}
		p.deactivate(h)
		copy(p.displayed[i:], p.displayed[i+1:])
		p.displayed[len(p.displayed)-1] = nil
		p.displayed = p.displayed[:len(p.displayed)-1]
		released++
	}
	return released
}

// find returns the displayed handle matching pred, or nil.
func (p *pool[C]) find(pred func(h *Handle[C]) bool) *Handle[C] {
	for _, h := range p.displayed {
		if pred(h) {
			return h
		}
	}
	return nil
}

func (p *pool[C]) stats() PoolStats {
	return PoolStats{
		Allocated: p.allocated,
		Free:      len(p.free),
		Displayed: len(p.displayed),
	}
}
