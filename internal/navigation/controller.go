// Package navigation owns the carousel index and clamps it against a moving maximum.
package navigation

// Controller handles all navigation logic.
// raw is the last requested index and may exceed the current maximum;
// the clamped index is always derived on read.
type Controller struct {
	raw          int
	itemCount    int
	visibleCount int
	step         int
	onChange     IndexChangedFunc
}

// NewController creates a controller at index 0
func NewController(itemCount, visibleCount, step int) *Controller {
	c := &Controller{}
	c.itemCount = max(0, itemCount)
	c.visibleCount = max(1, visibleCount)
	c.step = max(1, step)
	return c
}

// OnChange sets the callback invoked when the clamped index changes
func (c *Controller) OnChange(fn IndexChangedFunc) {
	c.onChange = fn
}

// Raw returns the last requested index
func (c *Controller) Raw() int {
	return c.raw
}

// MaxIndex returns the largest valid start index
func (c *Controller) MaxIndex() int {
	return MaxIndex(c.itemCount, c.visibleCount)
}

// Clamped returns the raw index bounded into [0, MaxIndex]
func (c *Controller) Clamped() int {
	return Clamp(c.raw, c.MaxIndex())
}

// CanGoPrevious reports whether Previous would move
func (c *Controller) CanGoPrevious() bool {
	return c.Clamped() > 0
}

// CanGoNext reports whether Next would move
func (c *Controller) CanGoNext() bool {
	return c.Clamped() < c.MaxIndex()
}

// State returns a snapshot of the navigation state
func (c *Controller) State() State {
	return State{
		RawIndex:     c.raw,
		ClampedIndex: c.Clamped(),
		MaxIndex:     c.MaxIndex(),
		ItemCount:    c.itemCount,
		VisibleCount: c.visibleCount,
		StepSize:     c.step,
	}
}

// Navigate handles navigation in a direction
func (c *Controller) Navigate(direction Direction) {
	switch direction {
	case DirectionPrevious:
		c.Previous()
	case DirectionNext:
		c.Next()
	case DirectionFirst:
		c.First()
	case DirectionLast:
		c.Last()
	}
}

// Previous moves the window back by one step. No-op at the start.
func (c *Controller) Previous() {
	c.apply(func() {
		c.raw = max(0, c.Clamped()-c.step)
	})
}

// Next moves the window forward by one step. No-op at the end.
func (c *Controller) Next() {
	c.apply(func() {
		c.raw = min(c.MaxIndex(), c.Clamped()+c.step)
	})
}

// First moves to the start of the track
func (c *Controller) First() {
	c.SetIndex(0)
}

// Last moves to the final window
func (c *Controller) Last() {
	c.apply(func() {
		c.raw = c.MaxIndex()
	})
}

// SetIndex records a requested index. It is clamped on read only, so the
// request survives until the maximum grows back.
func (c *Controller) SetIndex(index int) {
	c.apply(func() {
		c.raw = max(0, index)
	})
}

// SetBounds updates the item and visible counts. The raw index is kept.
func (c *Controller) SetBounds(itemCount, visibleCount int) {
	c.apply(func() {
		c.itemCount = max(0, itemCount)
		c.visibleCount = max(1, visibleCount)
	})
}

// SetStep updates the step size; values below 1 become 1
func (c *Controller) SetStep(step int) {
	c.step = max(1, step)
}

func (c *Controller) apply(mutate func()) {
	old := c.Clamped()
	mutate()
	if now := c.Clamped(); now != old && c.onChange != nil {
		c.onChange(now)
	}
}

// MaxIndex is max(0, itemCount - visibleCount)
func MaxIndex(itemCount, visibleCount int) int {
	return max(0, itemCount-visibleCount)
}

// Clamp bounds index into [0, maxIndex]
func Clamp(index, maxIndex int) int {
	if index < 0 {
		return 0
	}
	if index > maxIndex {
		return maxIndex
	}
	return index
}
