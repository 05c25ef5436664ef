package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/outreach"
)

// Ensure LoggingBrowser implements outreach.Browser.
var _ outreach.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser so that the pages it hands out log their
// actions.
type LoggingBrowser struct {
	next   outreach.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next outreach.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

func (b *LoggingBrowser) Page(ctx context.Context) (outreach.Page, error) {
	page, err := b.next.Page(ctx)
	if err != nil {
		b.logger.Info("open page", "err", err)
		return nil, err
	}
	return NewLoggingPage(page, b.logger), nil
}

func (b *LoggingBrowser) Close() (err error) {
	defer func() {
		b.logger.Info("close browser", "err", err)
	}()
	return b.next.Close()
}

// NewLoggingLauncher wraps launch so every session it starts is logged.
func NewLoggingLauncher(launch outreach.BrowserLauncher, logger *slog.Logger) outreach.BrowserLauncher {
	return func() (browser outreach.Browser, err error) {
		defer func(begin time.Time) {
			logger.Info("launch browser",
				"duration", time.Since(begin),
				"err", err,
			)
		}(time.Now())
		b, err := launch()
		if err != nil {
			return nil, err
		}
		return NewLoggingBrowser(b, logger), nil
	}
}
