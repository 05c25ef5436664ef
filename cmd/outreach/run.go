package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/crawl"
	"github.com/fwojciec/outreach/goquery"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	if !c.Yes {
		if err := c.prompt(deps); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
			return err
		}
	}

	// Without a start URL, collection begins on the marketplace home page.
	if strings.TrimSpace(cfg.StartURL) == "" {
		cfg.StartURL = cfg.Origin
	}

	if strings.TrimSpace(cfg.Message) == "" {
		err := outreach.Errorf(outreach.EINVALID, "message template is required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}

	state, err := crawl.LoadState(deps.Ctx, deps.Store, cfg.StartURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Loaded %d links and %d contacted sellers\n", state.Links.Len(), state.Sellers.Len())

	supervisor := newSupervisor(deps)
	result, err := supervisor.Run(deps.Ctx, state, printProgress(deps.Stdout, deps.Stderr))

	if result != nil {
		fmt.Fprintf(deps.Stdout, "Sent %d of %d messages (%d skipped, %d links collected)\n",
			state.Sent, cfg.MessagesToSend, result.Skipped, result.Collected)
		if result.Exhausted {
			fmt.Fprintln(deps.Stdout, "No new listings found. Try another start URL or run again later.")
		}
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(deps.Stdout, "Interrupted. Progress is saved; run again to resume.")
		return nil
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}
	return nil
}

// errorText prefers the message of an application error and falls back to
// the full error chain for anything else.
func errorText(err error) string {
	if outreach.ErrorCode(err) == outreach.EINTERNAL {
		return err.Error()
	}
	return outreach.ErrorMessage(err)
}

// prompt asks for the per-run settings, offering the configured values as
// defaults, and stores the answers in deps.Config.
func (c *RunCmd) prompt(deps *Dependencies) error {
	cfg := deps.Config
	p := newPrompter(deps.Stdin, deps.Stdout)

	reset, err := p.confirm("Clear saved progress", false)
	if err != nil {
		return err
	}
	if reset {
		if err := deps.Store.Clear(deps.Ctx); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, "Saved progress cleared.")
	}

	if cfg.StartURL, err = p.ask("Start URL", cfg.StartURL); err != nil {
		return err
	}
	if cfg.MaxLinksPerPass, err = p.integer("Links per pass", cfg.MaxLinksPerPass); err != nil {
		return err
	}
	if cfg.MessagesToSend, err = p.integer("Messages to send", cfg.MessagesToSend); err != nil {
		return err
	}
	if cfg.MinViews, err = p.integer("Minimum views (0 to disable)", cfg.MinViews); err != nil {
		return err
	}
	if cfg.Synonyms, err = p.ask("Synonyms (word: alt1, alt2; ...)", cfg.Synonyms); err != nil {
		return err
	}
	if cfg.Message, err = p.ask(`Message (\n for a line break)`, cfg.Message); err != nil {
		return err
	}
	return nil
}

// newSupervisor assembles the run from the configuration.
func newSupervisor(deps *Dependencies) *crawl.Supervisor {
	cfg := deps.Config

	collector := &crawl.Collector{
		Links:           goquery.NewListingSelector(cfg.Selectors.Layouts),
		Pauser:          deps.Pauser,
		Origin:          cfg.Origin,
		NextPage:        cfg.Selectors.NextPage,
		MaxPages:        cfg.MaxPages,
		NavigateTimeout: cfg.Timeouts.Navigate,
		ScrollDelay:     cfg.Delays.Scroll,
		PageDelay:       cfg.Delays.NextPage,
	}

	synonyms := outreach.ParseSynonyms(cfg.Synonyms)
	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	template := cfg.Message

	visitor := &crawl.ListingVisitor{
		Store:     deps.Store,
		Contacts:  deps.Contacts,
		Pauser:    deps.Pauser,
		Limiter:   crawl.NewSendLimiter(cfg.MaxSendsPerHour),
		Selectors: cfg.Selectors,
		Timeouts:  cfg.Timeouts,
		Delays:    cfg.Delays,
		MinViews:  cfg.MinViews,
		Attempts:  cfg.Attempts,
		Compose: func() string {
			return outreach.Compose(template, synonyms, rnd)
		},
	}

	sequencer := &crawl.Sequencer{
		Store:           deps.Store,
		Collector:       collector,
		Visitor:         visitor,
		Pauser:          deps.Pauser,
		Target:          cfg.MessagesToSend,
		MaxLinks:        cfg.MaxLinksPerPass,
		Attempts:        cfg.Attempts,
		KeepPolling:     cfg.KeepPolling,
		NavigateTimeout: cfg.Timeouts.Navigate,
		CollectDelay:    cfg.Delays.Collect,
		PassDelay:       cfg.Delays.Pass,
	}

	return &crawl.Supervisor{
		Launch:          deps.Launcher,
		Sequencer:       sequencer,
		Pauser:          deps.Pauser,
		StartURL:        cfg.StartURL,
		Origin:          cfg.Origin,
		LoginMarker:     cfg.Selectors.LoginMarker,
		LoginTimeout:    cfg.Timeouts.Login,
		LoginPoll:       cfg.Timeouts.LoginPoll,
		NavigateTimeout: cfg.Timeouts.Navigate,
		LoginSettle:     cfg.Delays.LoginSettle,
		RestartDelay:    cfg.Delays.Restart,
		MaxRestarts:     cfg.MaxRestarts,
	}
}

// printProgress reports run events as they happen.
func printProgress(stdout, stderr io.Writer) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressLoginRequired:
			fmt.Fprintln(stdout, "Log in to the marketplace in the browser window. Waiting...")
		case crawl.ProgressCollected:
			fmt.Fprintf(stdout, "  Collected %d new links (%d known)\n", event.Count, event.Total)
		case crawl.ProgressVisiting:
			fmt.Fprintf(stdout, "  [%d/%d] %s\n", event.Sent, event.Target, event.URL)
		case crawl.ProgressSent:
			fmt.Fprintf(stdout, "  sent (%d/%d)\n", event.Sent, event.Target)
		case crawl.ProgressSkipped:
			if event.Error != nil {
				fmt.Fprintf(stdout, "  skip: %s (%s)\n", event.Outcome, outreach.ErrorMessage(event.Error))
			} else {
				fmt.Fprintf(stdout, "  skip: %s\n", event.Outcome)
			}
		case crawl.ProgressPaused:
			fmt.Fprintf(stdout, "  Pass complete, pausing %s\n", event.Delay)
		case crawl.ProgressRestarting:
			fmt.Fprintf(stderr, "  restarting browser: %s\n", errorText(event.Error))
		}
	}
}
