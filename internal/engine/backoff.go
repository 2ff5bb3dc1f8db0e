package engine

import (
	"context"
	"time"
)

// Backoff decides whether another attempt is allowed after retry failed
// attempts beyond the first, and how long to wait before it.
type Backoff interface {
	Next(retry int) (delay time.Duration, ok bool)
}

// ConstantBackoff waits Interval between attempts and allows Attempts
// attempts in total (at least one).
type ConstantBackoff struct {
	Attempts int
	Interval time.Duration
}

func (b ConstantBackoff) Next(retry int) (time.Duration, bool) {
	return b.Interval, retry+1 < max(1, b.Attempts)
}

// ExponentialBackoff doubles the wait after every retry, capped at Max.
type ExponentialBackoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

func (b ExponentialBackoff) Next(retry int) (time.Duration, bool) {
	d := b.Initial
	for i := 0; i < retry; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			d = b.Max
			break
		}
	}
	return d, retry+1 < max(1, b.Attempts)
}

func defaultBackoff(p RetryPolicy) Backoff {
	return ConstantBackoff{Attempts: p.Count, Interval: p.Interval}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
