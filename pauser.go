package outreach

import (
	"context"
	"strings"
	"time"
)

// Delay is a bounded random pause range.
type Delay struct {
	Min time.Duration
	Max time.Duration
}

// D returns a Delay between lo and hi.
func D(lo, hi time.Duration) Delay {
	return Delay{Min: lo, Max: hi}
}

// String formats the delay as "min-max", e.g. "2s-4s".
func (d Delay) String() string {
	if d.Min == d.Max {
		return d.Min.String()
	}
	return d.Min.String() + "-" + d.Max.String()
}

// Validate returns an error if the range is negative or inverted.
func (d Delay) Validate() error {
	if d.Min < 0 || d.Max < 0 {
		return Errorf(EINVALID, "delay %s must not be negative", d)
	}
	if d.Max < d.Min {
		return Errorf(EINVALID, "delay %s has max below min", d)
	}
	return nil
}

// ParseDelay parses "2s-4s" or a single duration such as "500ms".
func ParseDelay(s string) (Delay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Delay{}, nil
	}
	lo, hi, ok := strings.Cut(s, "-")
	var d Delay
	var err error
	if d.Min, err = time.ParseDuration(strings.TrimSpace(lo)); err != nil {
		return Delay{}, Errorf(EINVALID, "invalid delay %q: %v", s, err)
	}
	d.Max = d.Min
	if ok {
		if d.Max, err = time.ParseDuration(strings.TrimSpace(hi)); err != nil {
			return Delay{}, Errorf(EINVALID, "invalid delay %q: %v", s, err)
		}
	}
	if err := d.Validate(); err != nil {
		return Delay{}, err
	}
	return d, nil
}

// Pauser waits for a random duration within a Delay.
// The pauses emulate human pacing and give lazy content time to render.
type Pauser interface {
	// Pause blocks for a duration in [d.Min, d.Max].
	// Returns an error if the context is canceled first.
	Pause(ctx context.Context, d Delay) error
}
