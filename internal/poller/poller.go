// Package poller runs the recurring background fetches (support chat,
// notification counters) against the core platform. Ticks never overlap: a
// tick that fires while a fetch is still in flight is skipped, a fetch that
// outlives its deadline is abandoned and its late result dropped, and
// repeated failures back off exponentially.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/donateraid/storefront-api/internal/logger"
	"github.com/donateraid/storefront-api/internal/metrics"
)

const defaultMaxBackoff = 5 * time.Minute

// Poller periodically calls fetch and hands each fresh result to handle.
type Poller[T any] struct {
	name       string
	interval   time.Duration
	timeout    time.Duration
	maxBackoff time.Duration
	fetch      func(ctx context.Context) (T, error)
	handle     func(T)

	mu            sync.Mutex
	seq           uint64
	inFlightSeq   uint64 // zero when idle
	inFlightSince time.Time
	lastDelivered uint64
	failures      int
	backoffUntil  time.Time
}

type Option func(*options)

type options struct {
	timeout    time.Duration
	maxBackoff time.Duration
}

// WithTimeout caps one fetch. Past the deadline the poller gives up on the
// attempt and the next tick may start a fresh one.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxBackoff caps the failure backoff.
func WithMaxBackoff(d time.Duration) Option {
	return func(o *options) { o.maxBackoff = d }
}

func New[T any](name string, interval time.Duration, fetch func(ctx context.Context) (T, error), handle func(T), opts ...Option) *Poller[T] {
	o := options{timeout: 2 * interval, maxBackoff: defaultMaxBackoff}
	for _, opt := range opts {
		opt(&o)
	}
	return &Poller[T]{
		name:       name,
		interval:   interval,
		timeout:    o.timeout,
		maxBackoff: o.maxBackoff,
		fetch:      fetch,
		handle:     handle,
	}
}

// Run blocks until ctx is canceled. An immediate first fetch runs before the
// ticker takes over.
func (p *Poller[T]) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	p.mu.Lock()
	now := time.Now()

	if p.inFlightSeq != 0 {
		if now.Sub(p.inFlightSince) < p.timeout {
			logger.FromContext(ctx).Debug("poll tick skipped, fetch in flight", "poller", p.name)
			p.mu.Unlock()
			return
		}
		// The outstanding fetch missed its deadline; abandon it and let the
		// sequence check discard its result if it ever arrives
		logger.FromContext(ctx).Warn("poll fetch abandoned after deadline", "poller", p.name)
		p.inFlightSeq = 0
	}

	if now.Before(p.backoffUntil) {
		p.mu.Unlock()
		return
	}

	p.seq++
	n := p.seq
	p.inFlightSeq = n
	p.inFlightSince = now
	p.mu.Unlock()

	go p.poll(ctx, n)
}

func (p *Poller[T]) poll(ctx context.Context, n uint64) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := p.fetch(fetchCtx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inFlightSeq == n {
		p.inFlightSeq = 0
	}

	if err != nil {
		p.failures++
		delay := p.backoffDelay()
		p.backoffUntil = time.Now().Add(delay)
		logger.FromContext(ctx).Warn("poll fetch failed",
			"poller", p.name,
			"consecutive_failures", p.failures,
			"backoff", delay)
		return
	}

	p.failures = 0
	p.backoffUntil = time.Time{}

	if n <= p.lastDelivered {
		logger.FromContext(ctx).Debug("stale poll result dropped", "poller", p.name, "seq", n)
		metrics.PollResultsDropped.WithLabelValues(p.name).Inc()
		return
	}
	p.lastDelivered = n

	p.handle(result)
}

// backoffDelay doubles per consecutive failure starting from the interval,
// capped at maxBackoff.
func (p *Poller[T]) backoffDelay() time.Duration {
	delay := p.interval
	for i := 1; i < p.failures; i++ {
		delay *= 2
		if delay >= p.maxBackoff {
			return p.maxBackoff
		}
	}
	if delay > p.maxBackoff {
		return p.maxBackoff
	}
	return delay
}
