package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/outreach"
)

// StopReason explains why a collection pass ended.
type StopReason int

const (
	// StopLimit means the requested number of new links was reached.
	StopLimit StopReason = iota
	// StopNoNextPage means the last results page had no usable next control.
	StopNoNextPage
	// StopNavigation means loading the next results page failed.
	StopNavigation
	// StopMaxPages means the pagination bound was hit.
	StopMaxPages
)

func (r StopReason) String() string {
	switch r {
	case StopLimit:
		return "limit reached"
	case StopNoNextPage:
		return "no next page"
	case StopNavigation:
		return "navigation failed"
	case StopMaxPages:
		return "page limit reached"
	default:
		return "unknown"
	}
}

// CollectResult holds the outcome of one collection pass.
type CollectResult struct {
	// Links are the new links in discovery order.
	Links []string
	// LastURL is the results page shown when the pass ended. The next pass
	// starts there.
	LastURL string
	// Pages is the number of results pages scanned.
	Pages  int
	Reason StopReason
}

// Collector scrolls through search results and follows pagination,
// gathering listing links that are not yet known.
type Collector struct {
	Links  outreach.LinkCollector
	Pauser outreach.Pauser

	// Origin resolves relative hrefs.
	Origin string
	// NextPage selects the pagination control.
	NextPage string
	// MaxPages bounds paginations in one pass. Zero is unlimited.
	MaxPages int

	NavigateTimeout time.Duration
	ScrollDelay     outreach.Delay
	PageDelay       outreach.Delay
}

// Collect gathers up to maxNew links from the page currently loaded.
//
// The page is scrolled to the bottom repeatedly while each scroll reveals
// new links. A scroll that yields nothing moves to the next results page.
// Links already in existing, or taken earlier in this pass, are skipped.
// existing is not modified.
//
// A failed navigation ends the pass normally; the partial result is
// returned without error. Other failures return the partial result along
// with the error.
func (c *Collector) Collect(ctx context.Context, page outreach.Page, existing *outreach.LinkList, maxNew int) (*CollectResult, error) {
	if maxNew <= 0 {
		return nil, outreach.Errorf(outreach.EINVALID, "max new links must be positive, got %d", maxNew)
	}

	current, err := page.URL(ctx)
	if err != nil {
		return nil, err
	}

	result := &CollectResult{LastURL: current, Pages: 1}
	taken := outreach.NewLinkList()
	defer func() { result.Links = taken.Links() }()

	for {
		added, err := c.scroll(ctx, page, existing, taken, maxNew)
		if err != nil {
			return result, err
		}
		if taken.Len() >= maxNew {
			result.Reason = StopLimit
			return result, nil
		}
		if added > 0 {
			continue
		}

		if c.MaxPages > 0 && result.Pages >= c.MaxPages {
			result.Reason = StopMaxPages
			return result, nil
		}

		next, err := c.nextPage(ctx, page)
		if err != nil {
			return result, err
		}
		if next == "" {
			result.Reason = StopNoNextPage
			return result, nil
		}

		if err := page.Navigate(ctx, next, c.NavigateTimeout); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Reason = StopNavigation
			return result, nil
		}
		result.Pages++
		result.LastURL = next

		if err := c.Pauser.Pause(ctx, c.PageDelay); err != nil {
			return result, err
		}
	}
}

// scroll reveals more results and takes unseen links until maxNew is
// reached. Returns how many links it took.
func (c *Collector) scroll(ctx context.Context, page outreach.Page, existing, taken *outreach.LinkList, maxNew int) (int, error) {
	if err := page.ScrollToBottom(ctx); err != nil {
		return 0, err
	}
	if err := c.Pauser.Pause(ctx, c.ScrollDelay); err != nil {
		return 0, err
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return 0, err
	}
	hrefs, err := c.Links.CollectLinks(html)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, href := range hrefs {
		link := outreach.ResolveURL(c.Origin, href)
		if link == "" || existing.Contains(link) {
			continue
		}
		if !taken.Add(link) {
			continue
		}
		added++
		if taken.Len() >= maxNew {
			break
		}
	}
	return added, nil
}

// nextPage returns the resolved target of the pagination control, or ""
// when there is none.
func (c *Collector) nextPage(ctx context.Context, page outreach.Page) (string, error) {
	if c.NextPage == "" {
		return "", nil
	}
	el, err := page.FindOne(ctx, c.NextPage)
	if outreach.ErrorCode(err) == outreach.ENOTFOUND {
		return "", nil
	} else if err != nil {
		return "", err
	}

	href, ok, err := el.Attribute(ctx, "href")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return outreach.ResolveURL(c.Origin, href), nil
}
