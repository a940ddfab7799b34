package notifyclient

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	delay  time.Duration
	result []Notification
	panics bool

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32

	mu     sync.Mutex
	starts []time.Time
	args   []bool
}

func (f *fakeFetcher) FetchNotifications(ctx context.Context, unreadOnly bool, limit int) []Notification {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	f.calls.Add(1)

	f.mu.Lock()
	f.starts = append(f.starts, time.Now())
	f.args = append(f.args, unreadOnly)
	f.mu.Unlock()

	if f.panics {
		panic("fetch exploded")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	return f.result
}

func (f *fakeFetcher) startTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.starts...)
}

func TestPoller_NoOverlappingFetches(t *testing.T) {
	f := &fakeFetcher{delay: 100 * time.Millisecond}
	p := NewPoller(f, nil, WithInterval(time.Millisecond))

	var wg sync.WaitGroup
	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.PollNow(context.Background()) {
				ran.Add(1)
			}
			p.tick(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.maxInFlight.Load())
	assert.GreaterOrEqual(t, ran.Load(), int32(1))
	assert.False(t, p.polling.Load())
}

func TestPoller_TickHonoursCadence(t *testing.T) {
	f := &fakeFetcher{}
	p := NewPoller(f, nil, WithInterval(time.Minute))

	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }

	assert.True(t, p.tick(context.Background()))
	assert.False(t, p.tick(context.Background()))

	clock = clock.Add(59 * time.Second)
	assert.False(t, p.tick(context.Background()))

	clock = clock.Add(time.Second)
	assert.True(t, p.tick(context.Background()))
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestPoller_InitialDelayAndInterval(t *testing.T) {
	const (
		initial  = 60 * time.Millisecond
		interval = 120 * time.Millisecond
	)
	f := &fakeFetcher{result: []Notification{{ID: "a"}}}

	var got atomic.Int32
	p := NewPoller(f, func([]Notification) { got.Add(1) },
		WithInterval(interval),
		WithInitialDelay(initial),
	)

	start := time.Now()
	stop := p.Start(context.Background())
	require.Eventually(t, func() bool { return f.calls.Load() >= 3 }, 3*time.Second, 5*time.Millisecond)
	stop()

	starts := f.startTimes()
	assert.GreaterOrEqual(t, starts[0].Sub(start), initial)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), interval-5*time.Millisecond, "poll %d", i)
	}
	assert.Equal(t, f.calls.Load(), got.Load())

	f.mu.Lock()
	for _, unreadOnly := range f.args {
		assert.True(t, unreadOnly)
	}
	f.mu.Unlock()
}

func TestPoller_EmptyResultSkipsCallback(t *testing.T) {
	f := &fakeFetcher{result: []Notification{}}
	called := false
	p := NewPoller(f, func([]Notification) { called = true })

	require.True(t, p.PollNow(context.Background()))
	assert.False(t, called)
}

func TestPoller_PanicDoesNotStopSchedule(t *testing.T) {
	f := &fakeFetcher{panics: true}
	called := false
	p := NewPoller(f, func([]Notification) { called = true },
		WithInterval(20*time.Millisecond),
		WithInitialDelay(0),
	)

	stop := p.Start(context.Background())
	require.Eventually(t, func() bool { return f.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	stop()

	assert.False(t, called)
	assert.False(t, p.polling.Load())
}

func TestPoller_StopBeforeFirstPoll(t *testing.T) {
	f := &fakeFetcher{}
	p := NewPoller(f, nil, WithInitialDelay(time.Hour))

	stop := p.Start(context.Background())
	stop()
	stop()

	assert.Zero(t, f.calls.Load())
}

func TestPoller_StopCancelsInFlightFetch(t *testing.T) {
	f := &fakeFetcher{delay: time.Hour}
	p := NewPoller(f, nil, WithInitialDelay(0))

	stop := p.Start(context.Background())
	require.Eventually(t, func() bool { return f.inFlight.Load() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}
}

func TestPoller_StopSuppressesCallbackForCancelledFetch(t *testing.T) {
	f := &fakeFetcher{delay: time.Hour, result: fallbackNotifications(time.Now())}
	var called atomic.Bool
	p := NewPoller(f, func([]Notification) { called.Store(true) }, WithInitialDelay(0))

	stop := p.Start(context.Background())
	require.Eventually(t, func() bool { return f.inFlight.Load() == 1 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, int32(1), f.calls.Load())
	assert.False(t, called.Load())
}
