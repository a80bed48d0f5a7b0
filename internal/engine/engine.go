package engine

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"carousel/internal/breakpoint"
	"carousel/internal/eventbus"
	"carousel/internal/navigation"
	"carousel/internal/observer"
)

var (
	// ErrMounted is returned by Mount when a host is already mounted
	ErrMounted = errors.New("engine: already mounted")
	// ErrNotMounted is returned by WaitResize when no host is mounted
	ErrNotMounted = errors.New("engine: not mounted")
	// ErrUnknownBreakpoint is returned by SetBreakpoint for a name no tier has
	ErrUnknownBreakpoint = errors.New("engine: unknown breakpoint")
)

// ResizedMsg carries a container width observed for one mount
type ResizedMsg struct {
	WidthPx float64
	Mount   uint64
}

// Engine is the stateful carousel. It is owned by one goroutine (the host's update
// loop); only WaitResize may be called from elsewhere.
type Engine struct {
	cfg      Config
	resolver *breakpoint.Resolver
	nav      *navigation.Controller
	viewport Viewport
	vm       ViewModel

	mounted  bool
	obs      *observer.Observer
	obsOpts  []observer.Option
	mountSeq uint64

	// guards the fields WaitResize reads
	resizeMu   sync.Mutex
	resizeCell *observer.Cell
	resizeSeq  uint64

	onIndexChange func(int)
	bus           eventbus.EventBus
	logger        *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithIndexChange registers the callback invoked with the new clamped index
// each time it changes value
func WithIndexChange(fn func(int)) Option {
	return func(e *Engine) {
		e.onIndexChange = fn
	}
}

// WithBus publishes engine events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserverOptions passes opts to the observer created on each Mount
func WithObserverOptions(opts ...observer.Option) Option {
	return func(e *Engine) {
		e.obsOpts = append(e.obsOpts, opts...)
	}
}

// New creates an unmounted engine at index 0
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("engine")

	e.cfg = cfg.Normalized()
	e.resolver = breakpoint.NewResolver(e.cfg.Tiers)
	tier := resolveTier(e.resolver, e.viewport)
	e.nav = navigation.NewController(e.cfg.ItemCount, e.resolver.VisibleCount(tier), e.cfg.StepSize)
	e.vm = derive(e.cfg, e.resolver, e.viewport, e.nav.Raw())
	return e
}

// Config returns the active configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Viewport returns the current viewport state
func (e *Engine) Viewport() Viewport {
	return e.viewport
}

// ViewModel returns the model for the current state
func (e *Engine) ViewModel() ViewModel {
	vm := e.vm
	vm.DividerFlags = slices.Clone(e.vm.DividerFlags)
	return vm
}

// Navigation returns a snapshot of the navigation state
func (e *Engine) Navigation() navigation.State {
	return e.nav.State()
}

// Mounted reports whether a host is mounted
func (e *Engine) Mounted() bool {
	return e.mounted
}

// Mechanism reports how the mounted host is observed
func (e *Engine) Mechanism() observer.Mechanism {
	if !e.mounted {
		return observer.MechanismNone
	}
	return e.obs.Mechanism()
}

// Mount starts observing host. Its width is measured immediately and the view
// model reflects it before Mount returns.
func (e *Engine) Mount(host observer.Host) error {
	if e.mounted {
		return ErrMounted
	}
	obs := observer.New(append([]observer.Option{observer.WithLogger(e.logger)}, e.obsOpts...)...)
	width, err := obs.Attach(host)
	if err != nil {
		obs.Release()
		return err
	}

	e.obs = obs
	e.mounted = true
	e.mountSeq++

	e.resizeMu.Lock()
	e.resizeCell = obs.Cell()
	e.resizeSeq = e.mountSeq
	e.resizeMu.Unlock()

	e.logger.Debug("mounted",
		zap.Float64("containerWidthPx", width),
		zap.String("mechanism", string(obs.Mechanism())))

	e.viewport.ContainerWidthPx = width
	e.refresh()
	return nil
}

// Unmount releases observation. Returns false when nothing was mounted.
// Navigation state survives; the container width is forgotten.
func (e *Engine) Unmount() bool {
	if !e.mounted {
		return false
	}
	e.obs.Release()
	e.obs = nil
	e.mounted = false

	e.resizeMu.Lock()
	e.resizeCell = nil
	e.resizeMu.Unlock()

	e.logger.Debug("unmounted")
	e.viewport.ContainerWidthPx = 0
	e.refresh()
	return true
}

// WaitResize blocks until the mounted host reports a new width. It is safe to call
// from a goroutine other than the owner; apply the result with ApplyResize.
func (e *Engine) WaitResize(ctx context.Context) (ResizedMsg, error) {
	e.resizeMu.Lock()
	cell, seq := e.resizeCell, e.resizeSeq
	e.resizeMu.Unlock()
	if cell == nil {
		return ResizedMsg{}, ErrNotMounted
	}
	width, err := cell.Wait(ctx)
	if err != nil {
		if errors.Is(err, observer.ErrClosed) {
			return ResizedMsg{}, ErrNotMounted
		}
		return ResizedMsg{}, err
	}
	return ResizedMsg{WidthPx: width, Mount: seq}, nil
}

// ApplyResize adopts a width from WaitResize. Widths observed by an earlier
// mount, or arriving after Unmount, are ignored.
func (e *Engine) ApplyResize(msg ResizedMsg) bool {
	if !e.mounted || msg.Mount != e.mountSeq {
		return false
	}
	return e.SetContainerWidth(msg.WidthPx)
}

// SetContainerWidth records a measured container width. No-op while unmounted.
func (e *Engine) SetContainerWidth(px float64) bool {
	if !e.mounted {
		return false
	}
	px = max(0, px)
	if px == e.viewport.ContainerWidthPx {
		return false
	}
	e.viewport.ContainerWidthPx = px
	e.refresh()
	return true
}

// SetViewportWidth updates the width used for breakpoint resolution
func (e *Engine) SetViewportWidth(px float64) {
	px = max(0, px)
	if px == e.viewport.WidthPx {
		return
	}
	e.viewport.WidthPx = px
	e.refresh()
}

// SetBreakpoint pins the active tier by name. An empty name returns to
// width-based resolution.
func (e *Engine) SetBreakpoint(name string) error {
	if name != "" {
		if _, ok := e.resolver.ByName(name); !ok {
			return ErrUnknownBreakpoint
		}
	}
	if name == e.viewport.Breakpoint {
		return nil
	}
	e.viewport.Breakpoint = name
	e.refresh()
	return nil
}

// SetConfig applies a new configuration revision. The requested index is kept
// and re-clamped against the new bounds.
func (e *Engine) SetConfig(cfg Config) {
	cfg = cfg.Normalized()
	if !slices.Equal(cfg.Tiers, e.cfg.Tiers) {
		e.resolver = breakpoint.NewResolver(cfg.Tiers)
		if _, ok := e.resolver.ByName(e.viewport.Breakpoint); !ok {
			e.viewport.Breakpoint = ""
		}
	}
	e.cfg = cfg
	e.nav.SetStep(cfg.StepSize)

	e.logger.Debug("config applied",
		zap.Int("itemCount", cfg.ItemCount),
		zap.Int("gapPx", cfg.GapPx),
		zap.Int("stepSize", cfg.StepSize))
	e.publish(eventbus.ConfigAppliedEvent{
		ItemCount: cfg.ItemCount,
		GapPx:     cfg.GapPx,
		StepSize:  cfg.StepSize,
	})
	e.refresh()
}

// Previous moves back one step
func (e *Engine) Previous() {
	e.nav.Previous()
	e.refresh()
}

// Next moves forward one step
func (e *Engine) Next() {
	e.nav.Next()
	e.refresh()
}

// First moves to the first window
func (e *Engine) First() {
	e.nav.First()
	e.refresh()
}

// Last moves to the last window
func (e *Engine) Last() {
	e.nav.Last()
	e.refresh()
}

// SetIndex requests index; it is clamped on read
func (e *Engine) SetIndex(index int) {
	e.nav.SetIndex(index)
	e.refresh()
}

// Navigate dispatches a direction
func (e *Engine) Navigate(d navigation.Direction) {
	e.nav.Navigate(d)
	e.refresh()
}

// refresh re-derives the view model after any state change
func (e *Engine) refresh() {
	tier := resolveTier(e.resolver, e.viewport)
	e.nav.SetBounds(e.cfg.ItemCount, e.resolver.VisibleCount(tier))

	prev := e.vm
	e.vm = derive(e.cfg, e.resolver, e.viewport, e.nav.Raw())

	if prev.Breakpoint != e.vm.Breakpoint {
		e.logger.Debug("breakpoint changed", zap.String("from", prev.Breakpoint), zap.String("to", e.vm.Breakpoint))
		e.publish(eventbus.BreakpointChangedEvent{From: prev.Breakpoint, To: e.vm.Breakpoint})
	}
	if prev.ItemWidthPx != e.vm.ItemWidthPx || prev.VisibleCount != e.vm.VisibleCount {
		e.logger.Debug("layout changed",
			zap.Float64("containerWidthPx", e.viewport.ContainerWidthPx),
			zap.Float64("itemWidthPx", e.vm.ItemWidthPx),
			zap.Int("visibleCount", e.vm.VisibleCount),
			zap.Int("maxIndex", e.vm.MaxIndex))
		e.publish(eventbus.LayoutChangedEvent{
			ContainerWidthPx: e.viewport.ContainerWidthPx,
			ItemWidthPx:      e.vm.ItemWidthPx,
			VisibleCount:     e.vm.VisibleCount,
		})
	}
	// fired once e.vm already reflects the new index
	if prev.ClampedIndex != e.vm.ClampedIndex {
		e.indexChanged(prev.ClampedIndex, e.vm.ClampedIndex)
	}
}

func (e *Engine) indexChanged(old, clamped int) {
	e.logger.Debug("index changed", zap.Int("from", old), zap.Int("to", clamped))
	if e.onIndexChange != nil {
		e.onIndexChange(clamped)
	}
	e.publish(eventbus.IndexChangedEvent{OldIndex: old, NewIndex: clamped})
}

func (e *Engine) publish(event eventbus.DomainEvent) {
	if e.bus != nil {
		e.bus.Publish(event)
	}
}
