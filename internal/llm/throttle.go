package llm

import (
	"context"
	"sync"
	"time"
)

// throttled caps completion calls at a fixed requests-per-minute budget.
// The allowance refills continuously, so short bursts up to rpm are fine
// but sustained traffic settles at the configured rate.
type throttled struct {
	inner Provider
	rpm   float64

	mu        sync.Mutex
	allowance float64
	last      time.Time
}

// Throttle wraps a provider so that at most rpm requests per minute reach
// it. Calls beyond the budget block until the allowance refills or the
// context is canceled.
func Throttle(p Provider, rpm int) Provider {
	return &throttled{
		inner:     p,
		rpm:       float64(rpm),
		allowance: float64(rpm),
		last:      time.Now(),
	}
}

func (t *throttled) Name() string {
	return t.inner.Name()
}

func (t *throttled) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := t.reserve(ctx); err != nil {
		return nil, err
	}
	return t.inner.Complete(ctx, req)
}

func (t *throttled) reserve(ctx context.Context) error {
	for {
		t.mu.Lock()
		now := time.Now()
		t.allowance += now.Sub(t.last).Minutes() * t.rpm
		t.last = now
		if t.allowance > t.rpm {
			t.allowance = t.rpm
		}
		if t.allowance >= 1 {
			t.allowance--
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
