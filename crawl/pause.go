package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/outreach"
)

// Ensure RandomPauser implements outreach.Pauser.
var _ outreach.Pauser = (*RandomPauser)(nil)

// RandomPauser sleeps for a uniformly random duration within each Delay.
type RandomPauser struct{}

// Pause blocks for a random duration in [d.Min, d.Max].
func (p *RandomPauser) Pause(ctx context.Context, d outreach.Delay) error {
	wait := Jitter(d)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Jitter picks a random duration in [d.Min, d.Max].
func Jitter(d outreach.Delay) time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + rand.N(d.Max-d.Min+1)
}
