package mock

import (
	"context"
	"time"

	"github.com/fwojciec/outreach"
)

// Compile-time interface verification.
var (
	_ outreach.Page    = (*Page)(nil)
	_ outreach.Element = (*Element)(nil)
	_ outreach.Browser = (*Browser)(nil)
)

// Page is a mock implementation of outreach.Page.
type Page struct {
	NavigateFn       func(ctx context.Context, url string, timeout time.Duration) error
	URLFn            func(ctx context.Context) (string, error)
	HTMLFn           func(ctx context.Context) (string, error)
	ScrollToBottomFn func(ctx context.Context) error
	FindOneFn        func(ctx context.Context, selector string) (outreach.Element, error)
	FindAllFn        func(ctx context.Context, selector string) ([]outreach.Element, error)
	WaitForFn        func(ctx context.Context, selector string, timeout time.Duration) (outreach.Element, error)
}

func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return p.NavigateFn(ctx, url, timeout)
}

func (p *Page) URL(ctx context.Context) (string, error) {
	return p.URLFn(ctx)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) ScrollToBottom(ctx context.Context) error {
	return p.ScrollToBottomFn(ctx)
}

func (p *Page) FindOne(ctx context.Context, selector string) (outreach.Element, error) {
	return p.FindOneFn(ctx, selector)
}

func (p *Page) FindAll(ctx context.Context, selector string) ([]outreach.Element, error) {
	return p.FindAllFn(ctx, selector)
}

func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) (outreach.Element, error) {
	return p.WaitForFn(ctx, selector, timeout)
}

// Element is a mock implementation of outreach.Element.
type Element struct {
	ClickFn     func(ctx context.Context) error
	FillFn      func(ctx context.Context, text string) error
	TextFn      func(ctx context.Context) (string, error)
	AttributeFn func(ctx context.Context, name string) (string, bool, error)
}

func (e *Element) Click(ctx context.Context) error {
	return e.ClickFn(ctx)
}

func (e *Element) Fill(ctx context.Context, text string) error {
	return e.FillFn(ctx, text)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextFn(ctx)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	return e.AttributeFn(ctx, name)
}

// Browser is a mock implementation of outreach.Browser.
type Browser struct {
	PageFn  func(ctx context.Context) (outreach.Page, error)
	CloseFn func() error
}

func (b *Browser) Page(ctx context.Context) (outreach.Page, error) {
	return b.PageFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
