package treelist

// Visible reports whether the span [offset, offset+extent) intersects the
// viewport window [origin, origin+window). Offsets are distances along the
// scroll axis, so the same test serves both axes.
func Visible(offset, extent, origin, window int) bool {
	return offset+extent > origin && offset < origin+window
}
