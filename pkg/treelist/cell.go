package treelist

// Axis is the direction the list scrolls in.
type Axis int

const (
	Vertical Axis = iota // rows stack top to bottom (default)
	Horizontal           // columns stack left to right
)

// String returns the config spelling of the axis.
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Size is a cell or viewport size in terminal cells.
type Size struct {
	Width  int
	Height int
}

// Extent returns the dimension along the given scroll axis.
func (s Size) Extent(axis Axis) int {
	if axis == Horizontal {
		return s.Width
	}
	return s.Height
}

// Cross returns the dimension perpendicular to the scroll axis.
func (s Size) Cross(axis Axis) int {
	if axis == Horizontal {
		return s.Height
	}
	return s.Width
}

// Movement is the overscroll behaviour of a scroll container.
type Movement int

const (
	MovementUnrestricted Movement = iota
	MovementElastic
	MovementClamped
)

// ScrollContainer is the host primitive the list scrolls inside.
// Offsets are distances along the locked axis, 0 at the content origin.
type ScrollContainer interface {
	ScrollOffset() int
	SetScrollOffset(offset int)
	Viewport() Size
	SetContentSize(size Size)
	Movement() Movement
	SetMovement(m Movement)
	LockAxis(axis Axis)
	OnScroll(fn func(offset int))
}

// Cell is the capability set shared by parent and child cells.
type Cell interface {
	Activate()
	Deactivate()
	PositionAt(offset int)
	Refresh()
	// OnClick registers the cell's single click listener. The list calls it
	// once, when the cell is created.
	OnClick(fn func())
}

// ParentCell renders one ParentNode.
type ParentCell interface {
	Cell
	Bind(node *ParentNode)
	SetExpandedVisual(expanded bool)
}

// ChildCell renders one child value.
type ChildCell interface {
	Cell
	Bind(value any)
	SetSelectedVisual(selected bool)
}

// Prototype describes how to make cells of one kind and how big they are.
type Prototype[C Cell] struct {
	Size Size
	New  func() C
}

func (p Prototype[C]) valid() bool {
	return p.New != nil && p.Size.Width > 0 && p.Size.Height > 0
}
