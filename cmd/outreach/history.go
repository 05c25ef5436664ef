package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/outreach"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := outreach.ContactFilter{Limit: c.Limit}
	if c.Seller != "" {
		filter.SellerID = &c.Seller
	}

	contacts, err := deps.Contacts.FindContacts(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}

	if len(contacts) == 0 {
		fmt.Fprintln(deps.Stdout, "No messages sent yet. Use 'outreach run' to start.")
		return nil
	}

	for _, ct := range contacts {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n",
			ct.SentAt.Local().Format(time.DateTime), ct.SellerID, ct.ListingURL)
	}

	return nil
}
