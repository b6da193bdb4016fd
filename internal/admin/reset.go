package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/geocoder89/userhub/internal/domain/user"
)

// ResetTimeout bounds a single reset cycle.
const ResetTimeout = 30 * time.Second

// ErrResetUnsupported is returned by Reset for stores that cannot swap their
// contents in one step.
var ErrResetUnsupported = errors.New("store does not support demo resets")

// Restorer is implemented by stores that can replace every row atomically.
type Restorer interface {
	Restore(ctx context.Context, users []user.User) error
}

// CanReset reports whether Reset works on the configured store.
func (g *General) CanReset() bool {
	_, ok := g.Users.(Restorer)
	return ok
}

// Reset puts the mock data set back in place. Concurrent readers never observe a
// missing or half-seeded table.
func (g *General) Reset(ctx context.Context) error {
	r, ok := g.Users.(Restorer)
	if !ok {
		return ErrResetUnsupported
	}

	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	return r.Restore(ctx, MockUsers)
}

// RunResetLoop resets the demo data every interval until ctx is done. A
// non-positive interval or a store without Restore returns immediately.
func (g *General) RunResetLoop(ctx context.Context, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		return
	}

	if !g.CanReset() {
		log.WarnContext(ctx, "demo reset disabled, store cannot restore atomically")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.Reset(ctx); err != nil {
				log.ErrorContext(ctx, "demo reset failed", "err", err)
				continue
			}
			log.InfoContext(ctx, "demo data reset", "next_in", interval.String())
		}
	}
}
