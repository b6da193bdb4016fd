package db

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// ConnectAttempts is how often the entry points try to reach a database that is
// still starting (e.g. a fresh docker-compose stack).
const ConnectAttempts = 5

func ExponentialBackoff(attempt int) time.Duration {
	base := 250 * time.Millisecond

	capDelay := 5 * time.Second
	// attempt=0 => 250ms
	// attempt=1 => 500ms
	// attempt=2 => 1s

	multiple := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(base) * multiple)

	if delay > capDelay {
		delay = capDelay
	}

	// small jitter (0–100ms)
	delay += time.Duration(rand.Intn(100)) * time.Millisecond
	return delay
}

// Retry calls fn until it succeeds, attempts run out or ctx is done, sleeping
// backoff(i) between tries. The last error is returned.
func Retry(ctx context.Context, attempts int, backoff func(int) time.Duration, fn func(ctx context.Context) error) error {
	var err error

	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		t := time.NewTimer(backoff(i))

		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}

	return err
}
