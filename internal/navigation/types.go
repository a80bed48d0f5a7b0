package navigation

// State holds all navigation-related state
type State struct {
	RawIndex     int
	ClampedIndex int
	MaxIndex     int
	ItemCount    int
	VisibleCount int
	StepSize     int
}

// CanGoPrevious reports whether a previous step would move the window
func (s State) CanGoPrevious() bool {
	return s.ClampedIndex > 0
}

// CanGoNext reports whether a next step would move the window
func (s State) CanGoNext() bool {
	return s.ClampedIndex < s.MaxIndex
}

// Direction represents movement directions
type Direction string

const (
	DirectionPrevious Direction = "prev"
	DirectionNext     Direction = "next"
	DirectionFirst    Direction = "first"
	DirectionLast     Direction = "last"
)

// IndexChangedFunc receives the new clamped index
type IndexChangedFunc func(clamped int)
