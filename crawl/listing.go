package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/goquery"
)

// Outcome is the result of visiting one listing.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeSkipLoad
	OutcomeSkipNoSeller
	OutcomeSkipProcessed
	OutcomeSkipViews
	OutcomeSkipNoViews
	OutcomeSkipNoButton
	OutcomeSkipNoMessenger
	OutcomeSkipNoInput
	OutcomeSkipNoSend
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeSkipLoad:
		return "listing did not load"
	case OutcomeSkipNoSeller:
		return "seller not found"
	case OutcomeSkipProcessed:
		return "seller already contacted"
	case OutcomeSkipViews:
		return "too few views"
	case OutcomeSkipNoViews:
		return "no view count"
	case OutcomeSkipNoButton:
		return "no write button"
	case OutcomeSkipNoMessenger:
		return "messenger did not open"
	case OutcomeSkipNoInput:
		return "no message input"
	case OutcomeSkipNoSend:
		return "no send button"
	default:
		return "unknown"
	}
}

// VisitResult describes what happened on one listing.
type VisitResult struct {
	URL      string
	Outcome  Outcome
	SellerID string
	// Views is -1 when the view count was not checked or not readable.
	Views int
	// Err is the last failure behind a skip, if any.
	Err error
}

// ListingVisitor opens a listing, identifies its seller, and sends the
// message when the seller is new and the listing qualifies.
type ListingVisitor struct {
	Store    outreach.CheckpointStore
	Contacts outreach.ContactService
	Pauser   outreach.Pauser
	Limiter  *SendLimiter

	Selectors outreach.Selectors
	Timeouts  outreach.Timeouts
	Delays    outreach.Delays

	// MinViews skips listings with fewer views. Zero disables the check.
	MinViews int
	// Attempts is the number of tries for each step.
	Attempts int
	// Compose returns the message for the next send.
	Compose func() string
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Visit processes the listing at url on page. sellers is consulted before
// sending and updated after a successful send.
//
// Failures confined to the listing (timeouts, missing elements, pages that
// do not load) produce a skip outcome and a nil error. Any other failure is
// returned for the session to handle.
func (v *ListingVisitor) Visit(ctx context.Context, page outreach.Page, url string, sellers *outreach.SellerSet) (*VisitResult, error) {
	res := &VisitResult{URL: url, Views: -1}

	reload := func(ctx context.Context, attempt int, err error) {
		v.refresh(ctx, page, url)
	}

	_, err := WithRetries(ctx, v.Attempts, func(ctx context.Context, attempt int) (struct{}, error) {
		if err := page.Navigate(ctx, url, v.Timeouts.Navigate); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, v.Pauser.Pause(ctx, v.Delays.Listing)
	}, reload)
	if err != nil {
		return v.skip(res, OutcomeSkipLoad, err)
	}

	seller, err := v.seller(ctx, page)
	if err != nil {
		return v.skip(res, OutcomeSkipNoSeller, err)
	}
	res.SellerID = seller

	if sellers.Contains(seller) {
		res.Outcome = OutcomeSkipProcessed
		return res, nil
	}

	if v.MinViews > 0 {
		views, err := WithRetries(ctx, v.Attempts, func(ctx context.Context, attempt int) (int, error) {
			return v.views(ctx, page)
		}, reload)
		if err != nil {
			return v.skip(res, OutcomeSkipNoViews, err)
		}
		res.Views = views
		if views < v.MinViews {
			res.Outcome = OutcomeSkipViews
			return res, nil
		}
	}

	message := v.Compose()

	// The conversation steps depend on each other, so a failure anywhere
	// restarts them from a reloaded listing.
	var failed Outcome
	_, err = WithRetries(ctx, v.Attempts, func(ctx context.Context, attempt int) (struct{}, error) {
		outcome, err := v.openConversation(ctx, page, message)
		failed = outcome
		return struct{}{}, err
	}, reload)
	if err != nil {
		return v.skip(res, failed, err)
	}

	if err := v.send(ctx, page); err != nil {
		return v.skip(res, OutcomeSkipNoSend, err)
	}

	if err := v.Store.MarkSellerProcessed(ctx, seller); err != nil {
		return nil, fmt.Errorf("mark seller processed: %w", err)
	}
	sellers.Add(seller)

	if v.Contacts != nil {
		if err := v.Contacts.CreateContact(ctx, &outreach.Contact{
			SellerID:   seller,
			ListingURL: url,
			Message:    message,
			Views:      res.Views,
			SentAt:     v.now(),
		}); err != nil {
			return nil, fmt.Errorf("record contact: %w", err)
		}
	}

	res.Outcome = OutcomeSent
	return res, nil
}

// skip converts a step failure into a skip outcome when it is confined to
// the listing, and escalates it otherwise.
func (v *ListingVisitor) skip(res *VisitResult, outcome Outcome, err error) (*VisitResult, error) {
	if !IsListingLocal(err) {
		return nil, err
	}
	res.Outcome = outcome
	res.Err = err
	return res, nil
}

// seller reads the seller name from the sticky header. While the header
// still shows a loading placeholder the page is scrolled and read again; on
// the last attempt the title attribute is used instead. Fallback selectors
// over the page HTML are tried when the header never yields a name.
func (v *ListingVisitor) seller(ctx context.Context, page outreach.Page) (string, error) {
	attempts := v.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	id, err := WithRetries(ctx, attempts, func(ctx context.Context, attempt int) (string, error) {
		el, err := page.WaitFor(ctx, v.Selectors.Seller, v.Timeouts.Element)
		if err != nil {
			return "", err
		}
		text, err := el.Text(ctx)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" && !isPlaceholder(text) {
			return text, nil
		}
		if attempt == attempts {
			title, ok, err := el.Attribute(ctx, "title")
			if err != nil {
				return "", err
			}
			if title = strings.TrimSpace(title); ok && title != "" {
				return title, nil
			}
		}
		return "", outreach.Errorf(outreach.ENOTFOUND, "seller name still loading")
	}, func(ctx context.Context, attempt int, err error) {
		if page.ScrollToBottom(ctx) == nil {
			_ = v.Pauser.Pause(ctx, v.Delays.Scroll)
		}
	})
	if err == nil {
		return id, nil
	}
	if !IsListingLocal(err) || len(v.Selectors.SellerFallbacks) == 0 {
		return "", err
	}

	html, herr := page.HTML(ctx)
	if herr != nil {
		return "", herr
	}
	id, ferr := goquery.SellerFromHTML(html, v.Selectors.SellerFallbacks)
	if ferr != nil {
		return "", err
	}
	return id, nil
}

func (v *ListingVisitor) views(ctx context.Context, page outreach.Page) (int, error) {
	el, err := page.WaitFor(ctx, v.Selectors.Views, v.Timeouts.Element)
	if err != nil {
		return -1, err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return -1, err
	}
	n, ok := ParseViews(text)
	if !ok {
		return -1, outreach.Errorf(outreach.ENOTFOUND, "no view count in %q", text)
	}
	return n, nil
}

// openConversation opens the messenger from the listing and types message.
// It returns the outcome describing the step that failed.
func (v *ListingVisitor) openConversation(ctx context.Context, page outreach.Page, message string) (Outcome, error) {
	button, err := page.WaitFor(ctx, v.Selectors.WriteButton, v.Timeouts.Element)
	if err != nil {
		return OutcomeSkipNoButton, err
	}
	if err := v.act(ctx, v.Timeouts.Element, "write button click", button.Click); err != nil {
		return OutcomeSkipNoButton, err
	}
	if err := v.Pauser.Pause(ctx, v.Delays.Action); err != nil {
		return OutcomeSkipNoButton, err
	}

	link, err := page.WaitFor(ctx, v.Selectors.MessengerLink, v.Timeouts.Messenger)
	if err != nil {
		return OutcomeSkipNoMessenger, err
	}
	if err := v.act(ctx, v.Timeouts.Element, "messenger link click", link.Click); err != nil {
		return OutcomeSkipNoMessenger, err
	}
	if err := v.Pauser.Pause(ctx, v.Delays.Action); err != nil {
		return OutcomeSkipNoMessenger, err
	}

	input, err := page.WaitFor(ctx, v.Selectors.Input, v.Timeouts.Input)
	if err != nil {
		return OutcomeSkipNoInput, err
	}
	if err := v.act(ctx, v.Timeouts.Input, "message input", func(ctx context.Context) error {
		return input.Fill(ctx, message)
	}); err != nil {
		return OutcomeSkipNoInput, err
	}
	if err := v.Pauser.Pause(ctx, v.Delays.Fill); err != nil {
		return OutcomeSkipNoInput, err
	}
	return OutcomeSent, nil
}

// send clicks the send button once. It is never retried so a slow
// confirmation cannot produce a duplicate message.
func (v *ListingVisitor) send(ctx context.Context, page outreach.Page) error {
	button, err := page.WaitFor(ctx, v.Selectors.Send, v.Timeouts.Input)
	if err != nil {
		return err
	}
	if err := v.Limiter.Wait(ctx); err != nil {
		return err
	}
	if err := v.act(ctx, v.Timeouts.Input, "send button click", button.Click); err != nil {
		return err
	}
	return v.Pauser.Pause(ctx, v.Delays.AfterSend)
}

// refresh clicks the site logo and reloads url, as a user would when a
// page is stuck. Failures are ignored; the next attempt reports them.
func (v *ListingVisitor) refresh(ctx context.Context, page outreach.Page, url string) {
	if v.Selectors.Logo != "" {
		if logo, err := page.FindOne(ctx, v.Selectors.Logo); err == nil {
			_ = v.act(ctx, v.Timeouts.Element, "logo click", logo.Click)
		}
	}
	if err := v.Pauser.Pause(ctx, v.Delays.Refresh); err != nil {
		return
	}
	_ = page.Navigate(ctx, url, v.Timeouts.Navigate)
}

// act runs an element action under its own deadline. A browser keeps
// retrying a click on a covered element until its context ends.
func (v *ListingVisitor) act(ctx context.Context, timeout time.Duration, what string, action func(context.Context) error) error {
	if timeout <= 0 {
		return action(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := action(actx)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) &&
		outreach.ErrorCode(err) == outreach.EINTERNAL {
		return outreach.Errorf(outreach.ETIMEOUT, "%s timed out after %s", what, timeout)
	}
	return err
}

func (v *ListingVisitor) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// IsListingLocal reports whether err only affects the current listing:
// an element wait ran out, an element is missing, or a page did not load.
func IsListingLocal(err error) bool {
	switch outreach.ErrorCode(err) {
	case outreach.ETIMEOUT, outreach.ENOTFOUND, outreach.EUNAVAILABLE:
		return true
	}
	return false
}

// ParseViews returns the first integer in text. Digit groups separated by
// a space, a no-break space or a comma are joined, so "1 234 views" is 1234.
func ParseViews(text string) (int, bool) {
	runes := []rune(text)
	start := -1
	for i, r := range runes {
		if isDigit(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	n := 0
	i := start
	for i < len(runes) {
		r := runes[i]
		if isDigit(r) {
			n = n*10 + int(r-'0')
			i++
			continue
		}
		if isGroupSeparator(r) && isDigitGroup(runes, i+1) {
			i++
			continue
		}
		break
	}
	return n, true
}

func isGroupSeparator(r rune) bool {
	switch r {
	case ' ', ',', '\u00a0', '\u2009', '\u202f':
		return true
	}
	return false
}

// isDigitGroup reports whether exactly three digits start at i.
func isDigitGroup(runes []rune, i int) bool {
	if i+3 > len(runes) {
		return false
	}
	for _, r := range runes[i : i+3] {
		if !isDigit(r) {
			return false
		}
	}
	return i+3 == len(runes) || !isDigit(runes[i+3])
}

func isPlaceholder(text string) bool {
	return strings.Trim(text, ".… ") == ""
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
