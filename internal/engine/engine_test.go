package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"carousel/internal/eventbus"
	"carousel/internal/navigation"
	"carousel/internal/observer"
)

type pane struct {
	mu       sync.Mutex
	width    float64
	listener func()
}

func (p *pane) ContentWidth() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width
}

func (p *pane) OnResize(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.listener = nil
	}
}

func (p *pane) resize(w float64) {
	p.mu.Lock()
	p.width = w
	fn := p.listener
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type fixedHost float64

func (h fixedHost) ContentWidth() float64 { return float64(h) }

func config(items int) Config {
	cfg := DefaultConfig()
	cfg.ItemCount = items
	return cfg
}

func TestMediumTierScenario(t *testing.T) {
	cfg := config(8)
	cfg.DividerEnabled = true
	e := New(cfg, WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, e.SetBreakpoint("md"))
	require.NoError(t, e.Mount(&pane{width: 994}))
	defer e.Unmount()

	vm := e.ViewModel()
	assert.Equal(t, 320.0, vm.ItemWidthPx)
	assert.Equal(t, 2672.0, vm.TrackWidthPx)
	assert.Equal(t, 3, vm.VisibleCount)
	assert.Equal(t, 5, vm.MaxIndex)
	assert.True(t, vm.ShowNavigation)

	e.SetIndex(3)
	vm = e.ViewModel()
	assert.Equal(t, 3, vm.ClampedIndex)
	assert.Equal(t, -1008.0, vm.TranslateXPx)
	assert.True(t, vm.CanGoPrevious)
	assert.True(t, vm.CanGoNext)
	assert.Equal(t, 3, vm.WindowStart)
	assert.Equal(t, 6, vm.WindowEnd)
	assert.Equal(t, []bool{true, true, true, true, true, false, true, true}, vm.DividerFlags)
}

func TestIndexChangeSeesCurrentViewModel(t *testing.T) {
	type seen struct {
		arg, clamped int
		translate    float64
		window       int
	}
	var got []seen
	var e *Engine
	e = New(config(8), WithIndexChange(func(i int) {
		vm := e.ViewModel()
		got = append(got, seen{arg: i, clamped: vm.ClampedIndex, translate: vm.TranslateXPx, window: vm.WindowStart})
	}))
	require.NoError(t, e.SetBreakpoint("md"))
	require.NoError(t, e.Mount(&pane{width: 994}))
	defer e.Unmount()

	e.Next()
	e.SetIndex(7)
	// lg shows four, so the requested 7 clamps to 4 implicitly
	require.NoError(t, e.SetBreakpoint("lg"))

	want := []seen{
		{arg: 1, clamped: 1, translate: -336, window: 1},
		{arg: 5, clamped: 5, translate: -1680, window: 5},
		{arg: 4, clamped: 4, translate: -4 * (e.ViewModel().ItemWidthPx + 16), window: 4},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(seen{})); diff != "" {
		t.Errorf("view model inside callback (-want +got):\n%s", diff)
	}
}

func TestNavigationSuppressedWhenEverythingFits(t *testing.T) {
	var changes []int
	e := New(config(3), WithIndexChange(func(i int) { changes = append(changes, i) }))
	e.SetViewportWidth(1200)
	require.NoError(t, e.Mount(fixedHost(1200)))
	defer e.Unmount()

	vm := e.ViewModel()
	assert.Equal(t, "lg", vm.Breakpoint)
	assert.Equal(t, 4, vm.VisibleCount)
	assert.Equal(t, 0, vm.MaxIndex)
	assert.False(t, vm.ShowNavigation)
	assert.False(t, vm.CanGoPrevious)
	assert.False(t, vm.CanGoNext)
	assert.Equal(t, 3, vm.WindowEnd)

	e.Next()
	e.Last()
	e.Previous()
	assert.Equal(t, 0, e.ViewModel().ClampedIndex)
	assert.Empty(t, changes)
}

func TestShrinkingTierRestoresRequestedIndex(t *testing.T) {
	var changes []int
	e := New(config(5), WithIndexChange(func(i int) { changes = append(changes, i) }))

	e.SetViewportWidth(1200)
	e.SetIndex(3)
	assert.Equal(t, 1, e.ViewModel().ClampedIndex)
	assert.Equal(t, 3, e.Navigation().RawIndex)

	e.SetViewportWidth(300)
	vm := e.ViewModel()
	assert.Equal(t, "xs", vm.Breakpoint)
	assert.Equal(t, 3, vm.ClampedIndex)
	assert.Equal(t, 4, vm.MaxIndex)
	assert.Equal(t, []int{1, 3}, changes)
}

func TestConfigChangeReclampsWithoutReset(t *testing.T) {
	var changes []int
	e := New(config(10), WithIndexChange(func(i int) { changes = append(changes, i) }))
	e.SetIndex(7)

	cfg := config(4)
	cfg.StepSize = 2
	e.SetConfig(cfg)
	assert.Equal(t, 3, e.ViewModel().ClampedIndex)

	e.SetConfig(config(10))
	assert.Equal(t, 7, e.ViewModel().ClampedIndex)
	assert.Equal(t, []int{7, 3, 7}, changes)

	cfg = config(10)
	cfg.StepSize = 2
	e.SetConfig(cfg)
	e.Previous()
	assert.Equal(t, 5, e.ViewModel().ClampedIndex)
}

func TestSetConfigNormalizes(t *testing.T) {
	e := New(Config{ItemCount: -3, GapPx: -8, StepSize: 0, NavPosition: "nowhere"})

	cfg := e.Config()
	assert.Equal(t, 0, cfg.ItemCount)
	assert.Equal(t, 0, cfg.GapPx)
	assert.Equal(t, 1, cfg.StepSize)
	assert.Equal(t, "inside", string(cfg.NavPosition))
	assert.Len(t, cfg.Tiers, 4)

	vm := e.ViewModel()
	assert.Empty(t, vm.DividerFlags)
	assert.Equal(t, 0, vm.WindowEnd)
	assert.Equal(t, 0.0, vm.TrackWidthPx)
}

func TestSetBreakpoint(t *testing.T) {
	e := New(config(6))
	assert.ErrorIs(t, e.SetBreakpoint("xxl"), ErrUnknownBreakpoint)

	require.NoError(t, e.SetBreakpoint("sm"))
	assert.Equal(t, 2, e.ViewModel().VisibleCount)

	e.SetViewportWidth(1200)
	assert.Equal(t, "sm", e.ViewModel().Breakpoint)

	require.NoError(t, e.SetBreakpoint(""))
	assert.Equal(t, "lg", e.ViewModel().Breakpoint)
}

func TestUnmeasuredContainerHasZeroWidth(t *testing.T) {
	e := New(config(4))
	assert.Equal(t, 0.0, e.ViewModel().ItemWidthPx)

	assert.False(t, e.SetContainerWidth(500), "width updates need a mounted host")
	assert.Equal(t, 0.0, e.ViewModel().ItemWidthPx)
}

func TestNarrowContainerHitsFloor(t *testing.T) {
	e := New(config(4))
	require.NoError(t, e.SetBreakpoint("lg"))
	require.NoError(t, e.Mount(fixedHost(100)))
	defer e.Unmount()

	assert.Equal(t, 50.0, e.ViewModel().ItemWidthPx)
}

func TestTranslateDecreasesWithIndex(t *testing.T) {
	e := New(config(12))
	require.NoError(t, e.SetBreakpoint("md"))
	require.NoError(t, e.Mount(fixedHost(994)))
	defer e.Unmount()

	prev := 1.0
	for i := 0; i <= e.ViewModel().MaxIndex; i++ {
		e.SetIndex(i)
		x := e.ViewModel().TranslateXPx
		assert.LessOrEqual(t, x, 0.0)
		assert.Less(t, x, prev, "index %d", i)
		prev = x
	}
}

func TestViewModelMatchesDerive(t *testing.T) {
	e := New(config(9))
	e.SetViewportWidth(800)
	require.NoError(t, e.Mount(fixedHost(760)))
	defer e.Unmount()
	e.Next()
	e.Next()

	got := e.ViewModel()
	want := Derive(e.Config(), e.Viewport(), e.Navigation())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("view model mismatch (-want +got):\n%s", diff)
	}
	again := Derive(e.Config(), e.Viewport(), e.Navigation())
	if diff := cmp.Diff(want, again); diff != "" {
		t.Errorf("Derive not idempotent (-first +second):\n%s", diff)
	}
}

func TestDeriveIgnoresStaleBounds(t *testing.T) {
	cfg := config(5)
	vp := Viewport{Breakpoint: "xs", ContainerWidthPx: 400}
	vm := Derive(cfg, vp, navigation.State{RawIndex: 3, MaxIndex: 1, ClampedIndex: 1})

	assert.Equal(t, 3, vm.ClampedIndex)
	assert.Equal(t, 4, vm.MaxIndex)
}

func TestViewModelIsACopy(t *testing.T) {
	cfg := config(3)
	cfg.DividerEnabled = true
	e := New(cfg)

	vm := e.ViewModel()
	require.Equal(t, []bool{false, true, true}, vm.DividerFlags)
	vm.DividerFlags[1] = false
	assert.True(t, e.ViewModel().DividerFlags[1])
}

func TestMountTwice(t *testing.T) {
	e := New(config(3))
	require.NoError(t, e.Mount(fixedHost(300)))
	defer e.Unmount()
	assert.ErrorIs(t, e.Mount(fixedHost(300)), ErrMounted)
}

func TestResizeFlow(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New(config(6), WithLogger(zaptest.NewLogger(t)))
	p := &pane{width: 400}
	require.NoError(t, e.Mount(p))
	assert.Equal(t, observer.MechanismHost, e.Mechanism())
	assert.Equal(t, 400.0, e.ViewModel().ItemWidthPx)

	p.resize(500)
	p.resize(700)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := e.WaitResize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 700.0, msg.WidthPx, "intermediate widths coalesce")
	assert.True(t, e.ApplyResize(msg))
	assert.Equal(t, 700.0, e.ViewModel().ItemWidthPx)

	assert.True(t, e.Unmount())
	assert.False(t, e.Unmount())
	assert.False(t, e.ApplyResize(msg), "widths after unmount are ignored")
	assert.Equal(t, 0.0, e.ViewModel().ItemWidthPx)

	_, err = e.WaitResize(ctx)
	assert.ErrorIs(t, err, ErrNotMounted)

	p.resize(900)
	assert.Equal(t, 0.0, e.ViewModel().ItemWidthPx)
}

func TestStaleMountResizeIgnored(t *testing.T) {
	e := New(config(6))
	require.NoError(t, e.Mount(fixedHost(400)))
	stale := ResizedMsg{WidthPx: 999, Mount: 1}
	e.Unmount()

	require.NoError(t, e.Mount(fixedHost(300)))
	defer e.Unmount()
	assert.False(t, e.ApplyResize(stale))
	assert.Equal(t, 300.0, e.ViewModel().ItemWidthPx)
}

func TestWindowSignalFallback(t *testing.T) {
	var mu sync.Mutex
	var fire func()
	stopped := false
	signal := func(fn func()) func() {
		mu.Lock()
		defer mu.Unlock()
		fire = fn
		return func() {
			mu.Lock()
			defer mu.Unlock()
			stopped = true
		}
	}

	e := New(config(2), WithObserverOptions(observer.WithWindowSignal(signal)))
	require.NoError(t, e.Mount(fixedHost(240)))
	assert.Equal(t, observer.MechanismWindowSignal, e.Mechanism())

	mu.Lock()
	require.NotNil(t, fire)
	mu.Unlock()

	e.Unmount()
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, stopped)
}

func TestEventsPublished(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := eventbus.New(zaptest.NewLogger(t))
	defer bus.Close()

	var mu sync.Mutex
	var got []eventbus.DomainEvent
	record := func(ev eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	}
	bus.Subscribe(eventbus.EventIndexChanged, record)
	bus.Subscribe(eventbus.EventBreakpointChanged, record)

	e := New(config(8), WithBus(bus))
	e.SetIndex(2)
	e.SetViewportWidth(1000)
	e.SetViewportWidth(1000)

	want := []eventbus.DomainEvent{
		eventbus.IndexChangedEvent{OldIndex: 0, NewIndex: 2},
		eventbus.BreakpointChangedEvent{From: "xs", To: "lg"},
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == len(want)
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}
