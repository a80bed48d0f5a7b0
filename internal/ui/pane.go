package ui

import (
	"sync"
)

// Pane is the region of the terminal the track is drawn in. It is the observed
// host element: the model resizes it on every WindowSizeMsg and it notifies
// its listeners, so the observer never needs a global window signal.
type Pane struct {
	mu          sync.Mutex
	cols        int
	reserved    int
	cellWidthPx int
	listeners   map[int]func()
	nextID      int
}

// NewPane creates an unsized pane
func NewPane(cellWidthPx int) *Pane {
	return &Pane{
		cellWidthPx: max(1, cellWidthPx),
		listeners:   make(map[int]func()),
	}
}

// ContentWidth returns the track width in px
func (p *Pane) ContentWidth() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float64(p.cellsLocked() * p.cellWidthPx)
}

// Cells returns the track width in cells
func (p *Pane) Cells() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cellsLocked()
}

func (p *Pane) cellsLocked() int {
	return max(0, p.cols-p.reserved)
}

// OnResize registers fn; the returned func unregisters it
func (p *Pane) OnResize(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Resize sets the terminal width, the cells reserved for gutters and the
// px per cell. Listeners are notified when the content width changes.
func (p *Pane) Resize(cols, reserved, cellWidthPx int) {
	p.mu.Lock()
	before := p.cellsLocked() * p.cellWidthPx
	p.cols = max(0, cols)
	p.reserved = max(0, reserved)
	p.cellWidthPx = max(1, cellWidthPx)
	changed := p.cellsLocked()*p.cellWidthPx != before
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range fns {
		fn()
	}
}
