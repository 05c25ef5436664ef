// Package slog provides logging decorators for outreach services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/outreach"
)

// Ensure LoggingPage implements outreach.Page.
var _ outreach.Page = (*LoggingPage)(nil)

// LoggingPage wraps a Page with debug logging. Elements it returns log
// their actions too, tagged with the selector that found them.
type LoggingPage struct {
	next   outreach.Page
	logger *slog.Logger
}

// NewLoggingPage creates a new LoggingPage.
func NewLoggingPage(next outreach.Page, logger *slog.Logger) *LoggingPage {
	return &LoggingPage{next: next, logger: logger}
}

func (p *LoggingPage) Navigate(ctx context.Context, url string, timeout time.Duration) (err error) {
	defer func(begin time.Time) {
		p.logger.Info("navigate",
			"url", url,
			"timeout", timeout,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Navigate(ctx, url, timeout)
}

func (p *LoggingPage) URL(ctx context.Context) (string, error) {
	return p.next.URL(ctx)
}

func (p *LoggingPage) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		p.logger.Info("html",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.HTML(ctx)
}

func (p *LoggingPage) ScrollToBottom(ctx context.Context) (err error) {
	defer func() {
		p.logger.Info("scroll", "err", err)
	}()
	return p.next.ScrollToBottom(ctx)
}

func (p *LoggingPage) FindOne(ctx context.Context, selector string) (el outreach.Element, err error) {
	defer func() {
		p.logger.Info("find",
			"selector", selector,
			"found", err == nil,
			"err", errOrMissing(err),
		)
	}()
	el, err = p.next.FindOne(ctx, selector)
	return p.wrap(el, selector), err
}

func (p *LoggingPage) FindAll(ctx context.Context, selector string) (els []outreach.Element, err error) {
	defer func() {
		p.logger.Info("find all",
			"selector", selector,
			"count", len(els),
			"err", err,
		)
	}()
	found, err := p.next.FindAll(ctx, selector)
	for _, el := range found {
		els = append(els, p.wrap(el, selector))
	}
	return els, err
}

func (p *LoggingPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) (el outreach.Element, err error) {
	defer func(begin time.Time) {
		p.logger.Info("wait",
			"selector", selector,
			"timeout", timeout,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	el, err = p.next.WaitFor(ctx, selector, timeout)
	return p.wrap(el, selector), err
}

func (p *LoggingPage) wrap(el outreach.Element, selector string) outreach.Element {
	if el == nil {
		return nil
	}
	return &loggingElement{next: el, selector: selector, logger: p.logger}
}

// errOrMissing hides ENOTFOUND, which is an expected answer for FindOne.
func errOrMissing(err error) error {
	if outreach.ErrorCode(err) == outreach.ENOTFOUND {
		return nil
	}
	return err
}

type loggingElement struct {
	next     outreach.Element
	selector string
	logger   *slog.Logger
}

func (e *loggingElement) Click(ctx context.Context) (err error) {
	defer func() {
		e.logger.Info("click", "selector", e.selector, "err", err)
	}()
	return e.next.Click(ctx)
}

func (e *loggingElement) Fill(ctx context.Context, text string) (err error) {
	defer func() {
		e.logger.Info("fill", "selector", e.selector, "chars", len([]rune(text)), "err", err)
	}()
	return e.next.Fill(ctx, text)
}

func (e *loggingElement) Text(ctx context.Context) (string, error) {
	return e.next.Text(ctx)
}

func (e *loggingElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	return e.next.Attribute(ctx, name)
}
