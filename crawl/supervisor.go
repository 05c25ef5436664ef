package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/outreach"
)

// Supervisor runs the sequencer inside browser sessions, starting a fresh
// session whenever one fails. State survives restarts.
type Supervisor struct {
	Launch    outreach.BrowserLauncher
	Sequencer *Sequencer
	Pauser    outreach.Pauser

	// StartURL is opened first in a session when the state has none.
	// Origin is the fallback when it does not load.
	StartURL string
	Origin   string

	LoginMarker     string
	LoginTimeout    time.Duration
	LoginPoll       time.Duration
	NavigateTimeout time.Duration
	LoginSettle     outreach.Delay
	RestartDelay    outreach.Delay

	// MaxRestarts bounds session restarts. Zero is unlimited.
	MaxRestarts int
}

// Run works until the sequencer finishes, the context is canceled, or a
// failure that a restart cannot fix occurs. Failing to log in is such a
// failure and is returned as EUNAUTHORIZED.
func (s *Supervisor) Run(ctx context.Context, state *State, progress ProgressFunc) (*Result, error) {
	total := &Result{}
	restarts := 0
	for {
		res, err := s.session(ctx, state, progress)
		total.add(res)
		if err == nil {
			return total, nil
		}
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		if outreach.ErrorCode(err) == outreach.EUNAUTHORIZED {
			return total, err
		}
		if s.MaxRestarts > 0 && restarts >= s.MaxRestarts {
			return total, fmt.Errorf("giving up after %d restarts: %w", restarts, err)
		}

		restarts++
		if progress != nil {
			progress(ProgressEvent{Type: ProgressRestarting, Sent: state.Sent, Target: s.Sequencer.Target, Delay: s.RestartDelay, Error: err})
		}
		if err := s.Pauser.Pause(ctx, s.RestartDelay); err != nil {
			return total, err
		}
	}
}

// session runs one browser lifetime.
func (s *Supervisor) session(ctx context.Context, state *State, progress ProgressFunc) (*Result, error) {
	browser, err := s.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	start := state.StartURL
	if start == "" {
		start = s.StartURL
	}
	if err := page.Navigate(ctx, start, s.NavigateTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := page.Navigate(ctx, s.Origin, s.NavigateTimeout); err != nil {
			return nil, fmt.Errorf("open %s: %w", s.Origin, err)
		}
	}

	notified := false
	err = WaitForLogin(ctx, page, s.LoginMarker, s.LoginTimeout, s.LoginPoll, func() {
		if progress != nil && !notified {
			notified = true
			progress(ProgressEvent{Type: ProgressLoginRequired})
		}
	})
	if err != nil {
		return nil, err
	}
	if err := s.Pauser.Pause(ctx, s.LoginSettle); err != nil {
		return nil, err
	}

	return s.Sequencer.Run(ctx, page, state, progress)
}

// WaitForLogin polls page every poll interval until an element matching
// marker appears, which only happens for a logged-in user. waiting, if
// provided, is called each time the marker is found missing. Returns
// EUNAUTHORIZED if timeout elapses first.
func WaitForLogin(ctx context.Context, page outreach.Page, marker string, timeout, poll time.Duration, waiting func()) error {
	if marker == "" {
		return nil
	}
	if poll <= 0 {
		poll = 2 * time.Second
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		_, err := page.FindOne(ctx, marker)
		if err == nil {
			return nil
		}
		if outreach.ErrorCode(err) != outreach.ENOTFOUND {
			return err
		}
		if waiting != nil {
			waiting()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return outreach.Errorf(outreach.EUNAUTHORIZED, "not logged in after %s", timeout)
		case <-ticker.C:
		}
	}
}
