package crawl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// SendLimiter caps how many messages are sent per hour using a token bucket.
// A nil *SendLimiter never blocks.
type SendLimiter struct {
	limiter *rate.Limiter
}

// NewSendLimiter creates a SendLimiter allowing perHour sends, spread evenly
// with a burst of 1. Returns nil if perHour is not positive, which disables
// the cap.
func NewSendLimiter(perHour float64) *SendLimiter {
	if perHour <= 0 {
		return nil
	}
	return &SendLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Duration(float64(time.Hour)/perHour)), 1),
	}
}

// Wait blocks until another send is allowed.
// Returns an error if the context is canceled before the wait completes.
func (l *SendLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}
