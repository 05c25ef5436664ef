package main

import (
	"fmt"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/crawl"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	state, err := crawl.LoadState(deps.Ctx, deps.Store, "")
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}

	cursor, err := deps.Store.Cursor(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}

	sent, err := deps.Contacts.CountContacts(deps.Ctx, outreach.ContactFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Links:    %d\n", state.Links.Len())
	fmt.Fprintf(deps.Stdout, "Sellers:  %d\n", state.Sellers.Len())
	if cursor == "" {
		fmt.Fprintln(deps.Stdout, "Cursor:   (none)")
	} else {
		fmt.Fprintf(deps.Stdout, "Cursor:   %s\n", cursor)
	}
	if crawl.NeedCollect(state.Links, cursor) {
		fmt.Fprintln(deps.Stdout, "Next:     collect new links")
	} else {
		next := crawl.ResumeIndex(state.Links, cursor)
		fmt.Fprintf(deps.Stdout, "Next:     link %d of %d\n", next+1, state.Links.Len())
	}
	fmt.Fprintf(deps.Stdout, "Messages: %d\n", sent)

	return nil
}
