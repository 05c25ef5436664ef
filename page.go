package outreach

import (
	"context"
	"time"
)

// Page is a single browser tab showing marketplace pages.
//
// Query methods return ENOTFOUND when an element is absent and ETIMEOUT
// when a bounded wait runs out. Navigation failures other than timeouts
// are reported as EUNAVAILABLE.
type Page interface {
	// Navigate loads url and waits for the document to load, giving up
	// after timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// URL returns the address of the currently loaded document.
	URL(ctx context.Context) (string, error)

	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)

	// ScrollToBottom scrolls the window to the end of the document so
	// lazily loaded content renders.
	ScrollToBottom(ctx context.Context) error

	// FindOne returns the first element matching selector without waiting.
	FindOne(ctx context.Context, selector string) (Element, error)

	// FindAll returns every element matching selector, possibly none.
	FindAll(ctx context.Context, selector string) ([]Element, error)

	// WaitFor polls until an element matching selector appears or timeout
	// elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)
}

// Element is a DOM element on a Page.
type Element interface {
	Click(ctx context.Context) error

	// Fill replaces the element's value with text.
	Fill(ctx context.Context, text string) error

	// Text returns the element's visible text content.
	Text(ctx context.Context) (string, error)

	// Attribute returns the named attribute. The bool result is false if
	// the attribute is not set.
	Attribute(ctx context.Context, name string) (string, bool, error)
}

// Browser owns the browser process and its persistent profile.
type Browser interface {
	// Page returns the tab used for all work, opening one if needed.
	Page(ctx context.Context) (Page, error)

	// Close shuts the browser down. Safe to call more than once.
	Close() error
}

// BrowserLauncher starts a fresh browser session.
type BrowserLauncher func() (Browser, error)
