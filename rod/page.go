package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/outreach"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultActionTimeout bounds a click or fill whose context has no deadline.
// rod keeps retrying an action on a covered or disabled element until its
// context ends.
const DefaultActionTimeout = 30 * time.Second

// Compile-time interface verification.
var (
	_ outreach.Page    = (*Page)(nil)
	_ outreach.Element = (*Element)(nil)
)

// Page adapts a rod page to outreach.Page.
type Page struct {
	page *rod.Page
}

// Navigate loads url and waits for the load event.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	page := p.page.Context(ctx)
	if timeout > 0 {
		page = page.Timeout(timeout)
	}
	if err := page.Navigate(url); err != nil {
		return translate(err, "navigate to %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return translate(err, "load %s", url)
	}
	return nil
}

func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", translate(err, "page info")
	}
	return info.URL, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", translate(err, "page HTML")
	}
	return html, nil
}

func (p *Page) ScrollToBottom(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	if err != nil {
		return translate(err, "scroll")
	}
	return nil
}

// FindOne checks for selector once without waiting.
func (p *Page) FindOne(ctx context.Context, selector string) (outreach.Element, error) {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, translate(err, "find %s", selector)
	}
	if !has {
		return nil, outreach.Errorf(outreach.ENOTFOUND, "no element matches %s", selector)
	}
	return &Element{el: el}, nil
}

func (p *Page) FindAll(ctx context.Context, selector string) ([]outreach.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, translate(err, "find %s", selector)
	}
	out := make([]outreach.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el})
	}
	return out, nil
}

// WaitFor retries the query until the element exists or timeout elapses.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) (outreach.Element, error) {
	el, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return nil, translate(err, "wait for %s", selector)
	}
	// Drop the timeout so later actions on the element are not bound by it.
	return &Element{el: el.CancelTimeout()}, nil
}

// Element adapts a rod element to outreach.Element.
type Element struct {
	el *rod.Element
}

func (e *Element) Click(ctx context.Context) error {
	el, cancel := e.bounded(ctx)
	defer cancel()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return translate(err, "click")
	}
	return nil
}

// Fill selects any existing text and types text over it.
func (e *Element) Fill(ctx context.Context, text string) error {
	el, cancel := e.bounded(ctx)
	defer cancel()
	if err := el.SelectAllText(); err != nil {
		return translate(err, "select text")
	}
	if err := el.Input(text); err != nil {
		return translate(err, "input")
	}
	return nil
}

// bounded returns the element bound to ctx, adding DefaultActionTimeout
// when ctx has no deadline of its own.
func (e *Element) bounded(ctx context.Context) (*rod.Element, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return e.el.Context(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultActionTimeout)
	return e.el.Context(ctx), cancel
}

func (e *Element) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", translate(err, "text")
	}
	return text, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, translate(err, "attribute %s", name)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// translate maps rod failures onto application error codes. Deadlines
// become ETIMEOUT, failed navigations EUNAVAILABLE, and elements that went
// stale or cannot be interacted with ENOTFOUND. Cancellation and anything
// else pass through unchanged.
func translate(err error, format string, args ...any) error {
	var navErr *rod.NavigationError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return outreach.Errorf(outreach.ETIMEOUT, format+": timed out", args...)
	case errors.As(err, &navErr):
		return outreach.Errorf(outreach.EUNAVAILABLE, format+": %s", append(args, navErr.Reason)...)
	case isElementGone(err):
		return outreach.Errorf(outreach.ENOTFOUND, format+": element is gone or not interactable", args...)
	default:
		return err
	}
}

// isElementGone reports errors caused by the page re-rendering under an
// element handle, or by an element that cannot receive input.
func isElementGone(err error) bool {
	var (
		objErr      *rod.ObjectNotFoundError
		notFoundErr *rod.ElementNotFoundError
		interactErr *rod.NotInteractableError
	)
	switch {
	case errors.As(err, &objErr), errors.As(err, &notFoundErr), errors.As(err, &interactErr):
		return true
	case errors.Is(err, cdp.ErrObjNotFound), errors.Is(err, cdp.ErrCtxNotFound),
		errors.Is(err, cdp.ErrCtxDestroyed), errors.Is(err, cdp.ErrNodeNotFoundAtPos):
		return true
	}
	return false
}
