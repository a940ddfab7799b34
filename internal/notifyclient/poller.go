package notifyclient

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollInterval     = 60 * time.Second
	defaultPollInitialDelay = 5 * time.Second
	defaultPollLimit        = 20
)

// Fetcher is satisfied by *Client.
type Fetcher interface {
	FetchNotifications(ctx context.Context, unreadOnly bool, limit int) []Notification
}

type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithInitialDelay sets the wait before the first poll. Zero polls at once.
func WithInitialDelay(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d >= 0 {
			p.initialDelay = d
		}
	}
}

func WithLimit(n int) PollerOption {
	return func(p *Poller) {
		if n > 0 {
			p.limit = n
		}
	}
}

// WithAllNotifications polls read and unread notifications alike.
func WithAllNotifications() PollerOption {
	return func(p *Poller) { p.unreadOnly = false }
}

func WithPollerLogger(l *zap.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// Poller re-fetches unread notifications on a fixed cadence. At most one
// fetch is in flight per Poller and two polls never start closer than the
// interval.
type Poller struct {
	fetcher      Fetcher
	callback     func([]Notification)
	interval     time.Duration
	initialDelay time.Duration
	limit        int
	unreadOnly   bool
	logger       *zap.Logger

	polling atomic.Bool

	mu       sync.Mutex
	lastPoll time.Time

	now func() time.Time
}

func NewPoller(fetcher Fetcher, callback func([]Notification), opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:      fetcher,
		callback:     callback,
		interval:     defaultPollInterval,
		initialDelay: defaultPollInitialDelay,
		limit:        defaultPollLimit,
		unreadOnly:   true,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start runs the schedule until ctx is done or stop is called. stop waits
// for the loop and any in-flight poll to finish; it is safe to call twice.
func (p *Poller) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		p.loop(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
		<-done
	}
}

func (p *Poller) loop(ctx context.Context) {
	timer := time.NewTimer(p.initialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		p.tick(ctx)
		timer.Reset(p.nextWait())
	}
}

// nextWait is measured from the last poll start, never shorter than
// min(interval, 1s) so a skipped tick does not spin.
func (p *Poller) nextWait() time.Duration {
	p.mu.Lock()
	last := p.lastPoll
	p.mu.Unlock()

	floor := min(p.interval, time.Second)
	if last.IsZero() {
		return floor
	}
	return max(p.interval-p.now().Sub(last), floor)
}

// tick is the scheduled entry point: skips when a poll is in flight or the
// previous one started less than interval ago.
func (p *Poller) tick(ctx context.Context) bool {
	if !p.polling.CompareAndSwap(false, true) {
		p.logger.Debug("poll skipped: in flight")
		return false
	}
	defer p.polling.Store(false)

	now := p.now()
	p.mu.Lock()
	if !p.lastPoll.IsZero() && now.Sub(p.lastPoll) < p.interval {
		p.mu.Unlock()
		p.logger.Debug("poll skipped: too soon")
		return false
	}
	p.lastPoll = now
	p.mu.Unlock()

	p.poll(ctx)
	return true
}

// PollNow polls immediately unless another poll is in flight. It ignores
// the cadence guard but counts as a poll for it.
func (p *Poller) PollNow(ctx context.Context) bool {
	if !p.polling.CompareAndSwap(false, true) {
		return false
	}
	defer p.polling.Store(false)

	p.mu.Lock()
	p.lastPoll = p.now()
	p.mu.Unlock()

	p.poll(ctx)
	return true
}

func (p *Poller) poll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("poll panicked", zap.Any("panic", r))
		}
	}()

	list := p.fetcher.FetchNotifications(ctx, p.unreadOnly, p.limit)
	// a fetch cut short by stop yields the placeholder, not news
	if ctx.Err() != nil {
		return
	}
	if len(list) == 0 || p.callback == nil {
		return
	}
	p.callback(list)
}
