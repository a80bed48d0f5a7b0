package observer

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Wait once the cell has been closed.
var ErrClosed = errors.New("observer: cell closed")

// Cell is a single-writer, latest-value cell. Writes that arrive faster than the
// reader drains them are coalesced; the reader always sees the newest width.
type Cell struct {
	mu      sync.Mutex
	value   float64
	version uint64
	closed  bool
	changed chan struct{}
	done    chan struct{}
}

// NewCell creates an empty cell
func NewCell() *Cell {
	return &Cell{
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Set stores width and wakes the reader. Negative widths are stored as 0.
// Returns false when the value was dropped because the cell is closed or unchanged.
func (c *Cell) Set(width float64) bool {
	if !c.store(width) {
		return false
	}
	select {
	case c.changed <- struct{}{}:
	default:
		// a wakeup is already pending; the reader will load the new value
	}
	return true
}

func (c *Cell) store(width float64) bool {
	if width < 0 {
		width = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || (c.version > 0 && c.value == width) {
		return false
	}
	c.value = width
	c.version++
	return true
}

// Load returns the latest width and how many distinct values have been stored
func (c *Cell) Load() (float64, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.version
}

// Changes is signalled after each accepted Set
func (c *Cell) Changes() <-chan struct{} {
	return c.changed
}

// Done is closed when the cell is closed
func (c *Cell) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until a new width is stored, the cell is closed or ctx ends
func (c *Cell) Wait(ctx context.Context) (float64, error) {
	select {
	case <-c.changed:
		v, _ := c.Load()
		return v, nil
	case <-c.done:
		return 0, ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close stops the cell from accepting values. Safe to call more than once.
func (c *Cell) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

// Closed reports whether Close has been called
func (c *Cell) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
