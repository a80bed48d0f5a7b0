// Package observer watches a host's content width and republishes changes.
package observer

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrAttached is returned when Attach is called on an observer that already has a host.
	ErrAttached = errors.New("observer: already attached")
	// ErrReleased is returned when Attach is called after Release.
	ErrReleased = errors.New("observer: released")
)

// Host is the element whose content-box width is observed.
type Host interface {
	ContentWidth() float64
}

// ResizeNotifier is implemented by hosts that push their own size changes.
// OnResize registers fn and returns a function that unregisters it.
type ResizeNotifier interface {
	OnResize(fn func()) (cancel func())
}

// WindowSignal subscribes fn to a global window-resize signal and returns a stop function.
type WindowSignal func(fn func()) (stop func())

// Mechanism names the way resizes are being observed
type Mechanism string

const (
	MechanismNone         Mechanism = "none"
	MechanismHost         Mechanism = "host"
	MechanismWindowSignal Mechanism = "window-signal"
)

// Observer reports a host's width on attach and after every resize.
type Observer struct {
	cell   *Cell
	signal WindowSignal
	logger *zap.Logger

	mu        sync.Mutex
	host      Host
	cancel    func()
	mechanism Mechanism

	once     sync.Once
	released atomic.Bool
}

// Option configures an Observer
type Option func(*Observer)

// WithWindowSignal replaces the fallback window-resize signal
func WithWindowSignal(s WindowSignal) Option {
	return func(o *Observer) {
		o.signal = s
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Observer) {
		o.logger = l
	}
}

// New creates an unattached observer
func New(opts ...Option) *Observer {
	o := &Observer{
		cell:      NewCell(),
		signal:    DefaultWindowSignal,
		logger:    zap.NewNop(),
		mechanism: MechanismNone,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Cell returns the cell widths are published to
func (o *Observer) Cell() *Cell {
	return o.cell
}

// Mechanism returns how the current host is observed
func (o *Observer) Mechanism() Mechanism {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mechanism
}

// Attach starts observing host and returns its current width.
// Hosts that implement ResizeNotifier are observed directly; all others fall back
// to the window-resize signal.
func (o *Observer) Attach(host Host) (float64, error) {
	if o.released.Load() {
		return 0, ErrReleased
	}

	o.mu.Lock()
	if o.host != nil {
		o.mu.Unlock()
		return 0, ErrAttached
	}
	o.host = host
	o.mu.Unlock()

	width := clampWidth(host.ContentWidth())
	o.cell.store(width)

	// Registration happens outside the lock: notifiers may call back synchronously.
	var cancel func()
	mechanism := MechanismNone
	if n, ok := host.(ResizeNotifier); ok {
		cancel = n.OnResize(o.measure)
		mechanism = MechanismHost
	} else if o.signal != nil {
		cancel = o.signal(o.measure)
		mechanism = MechanismWindowSignal
		o.logger.Debug("host has no resize notifier, using window signal")
	}

	o.mu.Lock()
	if o.released.Load() {
		// Release ran while we were registering; undo it here so it still happens once.
		o.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return width, ErrReleased
	}
	o.cancel = cancel
	o.mechanism = mechanism
	o.mu.Unlock()

	o.logger.Debug("attached", zap.Float64("width", width), zap.String("mechanism", string(mechanism)))
	return width, nil
}

// measure runs on the notifier's schedule
func (o *Observer) measure() {
	if o.released.Load() {
		return
	}
	o.mu.Lock()
	host := o.host
	o.mu.Unlock()
	if host == nil {
		return
	}
	o.cell.Set(host.ContentWidth())
}

// Release stops observation exactly once. Returns true for the call that released.
func (o *Observer) Release() bool {
	released := false
	o.once.Do(func() {
		o.released.Store(true)

		o.mu.Lock()
		cancel := o.cancel
		o.cancel = nil
		o.host = nil
		o.mechanism = MechanismNone
		o.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		o.cell.Close()
		released = true
		o.logger.Debug("released")
	})
	return released
}

// Released reports whether Release has run
func (o *Observer) Released() bool {
	return o.released.Load()
}

func clampWidth(w float64) float64 {
	if w < 0 {
		return 0
	}
	return w
}
