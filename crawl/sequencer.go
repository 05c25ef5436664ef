// Package crawl drives the outreach run: collecting listing links from
// search results, visiting listings, and supervising browser sessions.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/outreach"
)

// State is the progress carried across browser sessions within one run.
type State struct {
	Links   *outreach.LinkList
	Sellers *outreach.SellerSet
	// Sent counts messages sent during this run.
	Sent int
	// StartURL is where the next collection pass begins.
	StartURL string
}

// LoadState builds the run state from persisted checkpoints.
func LoadState(ctx context.Context, store outreach.CheckpointStore, startURL string) (*State, error) {
	links, err := store.LoadLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}
	sellers, err := store.LoadProcessedSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sellers: %w", err)
	}
	return &State{
		Links:    outreach.NewLinkList(links...),
		Sellers:  outreach.NewSellerSet(sellers...),
		StartURL: startURL,
	}, nil
}

// Result holds the outcome of a run or of one session.
type Result struct {
	Sent      int
	Skipped   int
	Collected int
	// Exhausted is set when no new links could be found and every known
	// link had been visited.
	Exhausted bool
}

func (r *Result) add(o *Result) {
	if o == nil {
		return
	}
	r.Sent += o.Sent
	r.Skipped += o.Skipped
	r.Collected += o.Collected
	r.Exhausted = o.Exhausted
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type    ProgressType
	URL     string
	Outcome Outcome
	// Count is the number of links collected by a pass.
	Count int
	// Total is the number of known links.
	Total  int
	Sent   int
	Target int
	Delay  outreach.Delay
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressCollected ProgressType = iota
	ProgressVisiting
	ProgressSkipped
	ProgressSent
	ProgressPaused
	ProgressLoginRequired
	ProgressRestarting
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Sequencer alternates between collecting links and visiting them until
// the message target is reached.
type Sequencer struct {
	Store     outreach.CheckpointStore
	Collector *Collector
	Visitor   *ListingVisitor
	Pauser    outreach.Pauser

	// Target is the number of messages to send.
	Target int
	// MaxLinks is the number of new links gathered per collection pass.
	MaxLinks int
	// Attempts is the number of tries for loading the start page.
	Attempts int
	// KeepPolling makes a pass that finds no new links pause for PassDelay
	// and collect again. Otherwise the run ends as exhausted.
	KeepPolling     bool
	NavigateTimeout time.Duration
	CollectDelay    outreach.Delay
	PassDelay       outreach.Delay
}

// Run works on page until state.Sent reaches the target or the links run
// out. The cursor is persisted before each listing is touched, so a run
// interrupted at any point resumes after the last started listing.
// The progress callback, if provided, receives events as the run proceeds.
//
// Errors returned by Run are session-level; state remains valid and a new
// session may continue from it.
func (s *Sequencer) Run(ctx context.Context, page outreach.Page, state *State, progress ProgressFunc) (*Result, error) {
	res := &Result{}
	notify := func(e ProgressEvent) {
		if progress != nil {
			e.Sent, e.Target, e.Total = state.Sent, s.Target, state.Links.Len()
			progress(e)
		}
	}

	for state.Sent < s.Target {
		cursor, err := s.Store.Cursor(ctx)
		if err != nil {
			return res, fmt.Errorf("read cursor: %w", err)
		}

		if NeedCollect(state.Links, cursor) {
			added, err := s.collect(ctx, page, state)
			if err != nil {
				return res, err
			}
			res.Collected += added
			notify(ProgressEvent{Type: ProgressCollected, Count: added, URL: state.StartURL})
			if added == 0 && !s.KeepPolling {
				res.Exhausted = true
				return res, nil
			}
		}

		for i := ResumeIndex(state.Links, cursor); i < state.Links.Len(); i++ {
			url := state.Links.At(i)
			if err := s.Store.SetCursor(ctx, url); err != nil {
				return res, fmt.Errorf("set cursor: %w", err)
			}
			notify(ProgressEvent{Type: ProgressVisiting, URL: url})

			visit, err := s.Visitor.Visit(ctx, page, url, state.Sellers)
			if err != nil {
				return res, fmt.Errorf("visit %s: %w", url, err)
			}

			if visit.Outcome == OutcomeSent {
				state.Sent++
				res.Sent++
				notify(ProgressEvent{Type: ProgressSent, URL: url, Outcome: visit.Outcome})
				if state.Sent >= s.Target {
					return res, nil
				}
			} else {
				res.Skipped++
				notify(ProgressEvent{Type: ProgressSkipped, URL: url, Outcome: visit.Outcome, Error: visit.Err})
			}
		}

		notify(ProgressEvent{Type: ProgressPaused, Delay: s.PassDelay})
		if err := s.Pauser.Pause(ctx, s.PassDelay); err != nil {
			return res, err
		}
	}
	return res, nil
}

// collect runs one collection pass from state.StartURL and records the new
// links. Returns how many were added.
func (s *Sequencer) collect(ctx context.Context, page outreach.Page, state *State) (int, error) {
	start := state.StartURL
	_, err := WithRetries(ctx, s.Attempts, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, page.Navigate(ctx, start, s.NavigateTimeout)
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("open results %s: %w", start, err)
	}
	if err := s.Pauser.Pause(ctx, s.CollectDelay); err != nil {
		return 0, err
	}

	pass, err := s.Collector.Collect(ctx, page, state.Links, s.MaxLinks)
	if pass != nil && pass.LastURL != "" {
		state.StartURL = pass.LastURL
	}
	if pass != nil && len(pass.Links) > 0 {
		// Persist whatever was found, even from a pass that failed midway.
		if aerr := s.Store.AppendLinks(ctx, pass.Links); aerr != nil {
			return 0, fmt.Errorf("append links: %w", aerr)
		}
		state.Links.Append(pass.Links...)
	}
	if err != nil {
		return 0, fmt.Errorf("collect links: %w", err)
	}
	return len(pass.Links), nil
}
