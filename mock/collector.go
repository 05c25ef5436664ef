package mock

import (
	"context"

	"github.com/fwojciec/outreach"
)

// Compile-time interface verification.
var (
	_ outreach.LinkCollector = (*LinkCollector)(nil)
	_ outreach.Pauser        = (*Pauser)(nil)
)

// LinkCollector is a mock implementation of outreach.LinkCollector.
type LinkCollector struct {
	CollectLinksFn func(html string) ([]string, error)
}

func (c *LinkCollector) CollectLinks(html string) ([]string, error) {
	return c.CollectLinksFn(html)
}

// Pauser is a mock implementation of outreach.Pauser.
type Pauser struct {
	PauseFn func(ctx context.Context, d outreach.Delay) error
}

func (p *Pauser) Pause(ctx context.Context, d outreach.Delay) error {
	return p.PauseFn(ctx, d)
}
