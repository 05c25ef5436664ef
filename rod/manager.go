package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/outreach"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure BrowserManager implements outreach.Browser.
var _ outreach.Browser = (*BrowserManager)(nil)

// BrowserManager owns one Chrome process running on a persistent profile,
// so a marketplace login survives restarts.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *Page
	mu       sync.Mutex
	closed   atomic.Bool
}

// NewBrowserManager launches Chrome with the given settings.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(cfg outreach.BrowserConfig) (*BrowserManager, error) {
	bm := &BrowserManager{}
	if err := bm.launchBrowser(cfg); err != nil {
		return nil, err
	}
	return bm, nil
}

// Launcher returns an outreach.BrowserLauncher that starts a new
// BrowserManager for each session.
func Launcher(cfg outreach.BrowserConfig) outreach.BrowserLauncher {
	return func() (outreach.Browser, error) {
		bm, err := NewBrowserManager(cfg)
		if err != nil {
			return nil, err
		}
		return bm, nil
	}
}

// Page returns the browser's tab, reusing the one Chrome opened at startup
// when there is one.
func (bm *BrowserManager) Page(ctx context.Context) (outreach.Page, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed.Load() {
		return nil, outreach.Errorf(outreach.EUNAVAILABLE, "browser is closed")
	}
	if bm.page != nil {
		return bm.page, nil
	}

	pages, err := bm.browser.Context(ctx).Pages()
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	p := pages.First()
	if p == nil {
		if p, err = bm.browser.Context(ctx).Page(proto.TargetCreateTarget{}); err != nil {
			return nil, fmt.Errorf("opening page: %w", err)
		}
	}

	// Detach from the lookup context; each call sets its own.
	bm.page = &Page{page: p.Context(context.Background())}
	return bm.page, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts Chrome with stability flags and the user profile.
func (bm *BrowserManager) launchBrowser(cfg outreach.BrowserConfig) error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(cfg.Headless)
	if cfg.ProfileDir != "" {
		lnchr = lnchr.UserDataDir(cfg.ProfileDir)
	}
	if cfg.Bin != "" {
		lnchr = lnchr.Bin(cfg.Bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	bm.page = nil
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
