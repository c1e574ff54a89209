package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donateraid/storefront-api/internal/testing/leaktest"
)

func TestPoller_DeliversResults(t *testing.T) {
	var calls atomic.Int64
	results := make(chan int64, 16)

	p := New("test", 5*time.Millisecond,
		func(ctx context.Context) (int64, error) {
			return calls.Add(1), nil
		},
		func(v int64) { results <- v },
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	var got []int64
	for len(got) < 3 {
		select {
		case v := <-results:
			got = append(got, v)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for poll results")
		}
	}

	// Results arrive in order, none duplicated
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestPoller_SkipsTicksWhileInFlight(t *testing.T) {
	var inFlight, maxInFlight atomic.Int64
	release := make(chan struct{})

	p := New("test", 5*time.Millisecond,
		func(ctx context.Context) (struct{}, error) {
			cur := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				prev := maxInFlight.Load()
				if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
					break
				}
			}
			<-release
			return struct{}{}, nil
		},
		func(struct{}) {},
		WithTimeout(time.Minute),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// Many intervals pass while the first fetch hangs
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, int64(1), maxInFlight.Load())
}

func TestPoller_DropsStaleResult(t *testing.T) {
	var calls atomic.Int64
	releaseFirst := make(chan struct{})
	var mu sync.Mutex
	var delivered []string

	p := New("test", 20*time.Millisecond,
		func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				// Ignores its deadline, simulating a hung upstream read
				<-releaseFirst
				return "stale", nil
			}
			return "fresh", nil
		},
		func(v string) {
			mu.Lock()
			delivered = append(delivered, v)
			mu.Unlock()
		},
		WithTimeout(10*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) > 0
	}, time.Second, 5*time.Millisecond)

	// The abandoned first fetch finally returns, after newer results landed
	close(releaseFirst)
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, delivered, "stale")
	assert.Contains(t, delivered, "fresh")
}

func TestPoller_BacksOffAfterFailures(t *testing.T) {
	var calls atomic.Int64

	p := New("test", 5*time.Millisecond,
		func(ctx context.Context) (struct{}, error) {
			calls.Add(1)
			return struct{}{}, errors.New("upstream down")
		},
		func(struct{}) {},
		WithMaxBackoff(time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()

	// Without backoff ~20 ticks fit in the window; doubling delays allow only
	// a handful
	assert.LessOrEqual(t, calls.Load(), int64(6))
	assert.GreaterOrEqual(t, calls.Load(), int64(2))
}

func TestPoller_RecoveryResetsBackoff(t *testing.T) {
	var calls atomic.Int64
	results := make(chan struct{}, 16)

	p := New("test", 5*time.Millisecond,
		func(ctx context.Context) (struct{}, error) {
			if calls.Add(1) <= 2 {
				return struct{}{}, errors.New("upstream down")
			}
			return struct{}{}, nil
		},
		func(struct{}) { results <- struct{}{} },
		WithMaxBackoff(50*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// After the failures clear, deliveries resume at the normal cadence
	for i := 0; i < 3; i++ {
		select {
		case <-results:
		case <-time.After(time.Second):
			t.Fatal("poller did not recover from failures")
		}
	}
}

func TestPoller_CancelStopsGoroutines(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	p := New("test", 5*time.Millisecond,
		func(ctx context.Context) (int, error) { return 1, nil },
		func(int) {},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()
	<-done

	checker.Check(1)
}
