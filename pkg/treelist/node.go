package treelist

// ParentNode is a root-level row with an ordered list of children.
// Its identity is its index in the slice handed to ShowTreeList.
type ParentNode struct {
	Name     string
	NameFunc func() string // optional, takes precedence over Name
	Children []any
}

// DisplayName returns the label a parent cell should show.
func (p *ParentNode) DisplayName() string {
	if p.NameFunc != nil {
		return p.NameFunc()
	}
	return p.Name
}

// Selection is the selected (parent, child) pair. The zero value selects
// the first child of the first parent.
type Selection struct {
	Parent int
	Child  int
}

// SlotKind tells parent slots from child slots.
type SlotKind int

const (
	SlotParent SlotKind = iota
	SlotChild
)

func (k SlotKind) String() string {
	if k == SlotChild {
		return "child"
	}
	return "parent"
}

// Slot is one laid-out row of the tree. Slots live until the next layout pass.
type Slot struct {
	Kind        SlotKind
	ParentIndex int
	ChildIndex  int // -1 for parent slots
	Offset      int
	Size        Size
}

// Key identifies the logical row a slot or displayed cell stands for.
type Key struct {
	Kind        SlotKind
	ParentIndex int
	ChildIndex  int
}

// Key returns the slot's logical identity.
func (s Slot) Key() Key {
	return Key{Kind: s.Kind, ParentIndex: s.ParentIndex, ChildIndex: s.ChildIndex}
}
