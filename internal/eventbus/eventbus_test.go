package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	mu     sync.Mutex
	events []DomainEvent
}

func (r *recorder) handle(e DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func TestPublishDeliversInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := New(zaptest.NewLogger(t))
	defer b.Close()

	rec := &recorder{}
	b.Subscribe(EventIndexChanged, rec.handle)

	for i := 1; i <= 5; i++ {
		b.Publish(IndexChangedEvent{OldIndex: i - 1, NewIndex: i})
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 5
	}, time.Second, 5*time.Millisecond)

	for i, e := range rec.snapshot() {
		assert.Equal(t, IndexChangedEvent{OldIndex: i, NewIndex: i + 1}, e)
	}
}

func TestSubscribeFiltersByType(t *testing.T) {
	b := New(nil)
	defer b.Close()

	idx := &recorder{}
	cfg := &recorder{}
	b.Subscribe(EventIndexChanged, idx.handle)
	b.Subscribe(EventConfigChanged, cfg.handle)

	b.Publish(ConfigChangedEvent{Path: "/tmp/config.toml"})
	b.Publish(IndexChangedEvent{NewIndex: 1})

	require.Eventually(t, func() bool {
		return len(idx.snapshot()) == 1 && len(cfg.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "/tmp/config.toml", cfg.snapshot()[0].(ConfigChangedEvent).Path)
}

func TestUnsubscribe(t *testing.T) {
	b := New(nil)
	defer b.Close()

	first := &recorder{}
	second := &recorder{}
	unsubFirst := b.Subscribe(EventLayoutChanged, first.handle)
	b.Subscribe(EventLayoutChanged, second.handle)

	unsubFirst()
	unsubFirst()

	b.Publish(LayoutChangedEvent{ItemWidthPx: 320})

	require.Eventually(t, func() bool {
		return len(second.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, first.snapshot())
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	b := New(zaptest.NewLogger(t))
	defer b.Close()

	rec := &recorder{}
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventError, rec.handle)

	b.Publish(ErrorEvent{Message: "first"})
	b.Publish(ErrorEvent{Message: "second"})

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestPublishAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := New(nil)
	b.Close()
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(IndexChangedEvent{NewIndex: 1})
	})
}
