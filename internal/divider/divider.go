// Package divider decides which items draw a trailing separator.
package divider

// LastVisible returns the index of the last item inside the visible window.
// Returns -1 for an empty list.
func LastVisible(clampedIndex, visibleCount, itemCount int) int {
	if itemCount <= 0 {
		return -1
	}
	return min(clampedIndex+max(1, visibleCount)-1, itemCount-1)
}

// Show reports whether item idx draws a trailing divider. The last visible item
// never does, so no line dangles against the viewport edge.
func Show(enabled bool, idx, clampedIndex, visibleCount, itemCount int) bool {
	return enabled && idx != LastVisible(clampedIndex, visibleCount, itemCount)
}

// Flags returns one flag per item for the current window position.
func Flags(enabled bool, clampedIndex, visibleCount, itemCount int) []bool {
	if itemCount <= 0 {
		return []bool{}
	}
	last := LastVisible(clampedIndex, visibleCount, itemCount)
	flags := make([]bool, itemCount)
	for i := range flags {
		flags[i] = enabled && i != last
	}
	return flags
}
