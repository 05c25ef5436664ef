package outreach

import (
	"net/url"
	"path/filepath"
	"time"
)

// Default checkpoint file names.
const (
	DefaultLinksFile   = "ads_links.txt"
	DefaultSellersFile = "seller_ids.txt"
	DefaultCursorFile  = "current_link.txt"
	DefaultDatabase    = "outreach.db"
)

// Config holds everything a run needs. Values come from DefaultConfig,
// overlaid by the config file, overlaid by command-line flags and the
// interactive prompts.
type Config struct {
	// Origin is the marketplace root used to resolve relative links.
	Origin string
	// StartURL is the results page where link collection begins.
	StartURL string

	MaxLinksPerPass int
	MessagesToSend  int
	// MinViews skips listings with fewer views. Zero disables the check.
	MinViews int
	// MaxSendsPerHour caps the send rate. Zero disables the cap.
	MaxSendsPerHour float64
	// MaxPages bounds pagination within one collection pass. Zero is unlimited.
	MaxPages int
	// MaxRestarts bounds browser session restarts. Zero is unlimited.
	MaxRestarts int
	// Attempts is the number of tries for each listing step.
	Attempts int
	// KeepPolling waits for new listings when a collection pass finds none,
	// instead of ending the run.
	KeepPolling bool

	Synonyms string
	Message  string

	Files     FilesConfig
	Browser   BrowserConfig
	Selectors Selectors
	Timeouts  Timeouts
	Delays    Delays
}

// FilesConfig locates the checkpoint files and the contact database.
// Relative names are resolved inside DataDir.
type FilesConfig struct {
	DataDir  string
	Links    string
	Sellers  string
	Cursor   string
	Database string
}

// Path joins name onto DataDir unless name is already absolute.
func (f FilesConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.DataDir, name)
}

// BrowserConfig controls the browser process.
type BrowserConfig struct {
	// ProfileDir keeps cookies between runs so a login survives restarts.
	ProfileDir string
	Headless   bool
	// Bin is an explicit browser binary. Empty lets the launcher find one.
	Bin string
}

// Selectors are the CSS selectors for every element the bot touches.
type Selectors struct {
	Layouts         []LinkStrategy
	NextPage        string
	Logo            string
	LoginMarker     string
	Seller          string
	SellerFallbacks []string
	Views           string
	WriteButton     string
	MessengerLink   string
	Input           string
	Send            string
}

// Timeouts bound each wait.
type Timeouts struct {
	Navigate  time.Duration
	Element   time.Duration
	Messenger time.Duration
	Input     time.Duration
	Login     time.Duration
	LoginPoll time.Duration
}

// Delays are the random pauses between actions.
type Delays struct {
	Scroll      Delay
	NextPage    Delay
	Collect     Delay
	Listing     Delay
	Refresh     Delay
	Action      Delay
	Fill        Delay
	AfterSend   Delay
	Pass        Delay
	LoginSettle Delay
	Restart     Delay
}

// DefaultConfig returns the configuration for the avito.ru layout.
func DefaultConfig() *Config {
	return &Config{
		Origin:          "https://www.avito.ru/",
		StartURL:        "https://www.avito.ru/",
		MaxLinksPerPass: 200,
		MessagesToSend:  10,
		Attempts:        3,
		Files: FilesConfig{
			DataDir:  ".",
			Links:    DefaultLinksFile,
			Sellers:  DefaultSellersFile,
			Cursor:   DefaultCursorFile,
			Database: DefaultDatabase,
		},
		Browser: BrowserConfig{
			ProfileDir: "avito_user_data",
		},
		Selectors: Selectors{
			Layouts: []LinkStrategy{
				{Name: "grid", Links: ".styles-item-m0DD4 a[href]"},
				{Name: "list", Container: ".index-content-c0K1j", Links: ".iva-item-title-CdRXl a[href]"},
			},
			NextPage:    `[data-marker="pagination-button/nextPage"]`,
			Logo:        "div.index-logo-K90gi",
			LoginMarker: `[data-marker="header/messenger"]`,
			Seller:      ".style-sticky-header-seller-text-mVIXS",
			SellerFallbacks: []string{
				".style-nameWrapper-vmkRf span",
				"span.styles-module-size_ms-YUHT8",
			},
			Views:         `[data-marker="item-view/total-views"]`,
			WriteButton:   `[data-marker="messenger-button/button"]`,
			MessengerLink: `[data-marker="mini-messenger/messenger-page-link"]`,
			Input:         `textarea[data-marker="reply/input"]`,
			Send:          `[data-marker="reply/send"]`,
		},
		Timeouts: Timeouts{
			Navigate:  60 * time.Second,
			Element:   5 * time.Second,
			Messenger: 9 * time.Second,
			Input:     9 * time.Second,
			Login:     10 * time.Minute,
			LoginPoll: 2 * time.Second,
		},
		Delays: Delays{
			Scroll:      D(2*time.Second, 4*time.Second),
			NextPage:    D(3*time.Second, 5*time.Second),
			Collect:     D(10*time.Second, 20*time.Second),
			Listing:     D(3*time.Second, 5*time.Second),
			Refresh:     D(3*time.Second, 6*time.Second),
			Action:      D(5*time.Second, 7*time.Second),
			Fill:        D(1*time.Second, 2*time.Second),
			AfterSend:   D(2*time.Second, 3*time.Second),
			Pass:        D(5*time.Minute, 15*time.Minute),
			LoginSettle: D(5*time.Second, 7*time.Second),
			Restart:     D(5*time.Second, 10*time.Second),
		},
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Errorf(EINVALID, "origin %q must be an absolute URL", c.Origin)
	}
	if u, err := url.Parse(c.StartURL); c.StartURL == "" || err != nil || !u.IsAbs() {
		return Errorf(EINVALID, "start URL %q must be an absolute URL", c.StartURL)
	}
	if c.MaxLinksPerPass <= 0 {
		return Errorf(EINVALID, "max links per pass must be positive")
	}
	if c.MessagesToSend <= 0 {
		return Errorf(EINVALID, "messages to send must be positive")
	}
	if c.MinViews < 0 {
		return Errorf(EINVALID, "minimum views must not be negative")
	}
	if c.MaxSendsPerHour < 0 {
		return Errorf(EINVALID, "max sends per hour must not be negative")
	}
	if c.Attempts <= 0 {
		return Errorf(EINVALID, "attempts must be positive")
	}
	if len(c.Selectors.Layouts) == 0 {
		return Errorf(EINVALID, "at least one link layout is required")
	}
	for _, l := range c.Selectors.Layouts {
		if l.Links == "" {
			return Errorf(EINVALID, "layout %q has no link selector", l.Name)
		}
	}
	for _, d := range []Delay{
		c.Delays.Scroll, c.Delays.NextPage, c.Delays.Collect, c.Delays.Listing,
		c.Delays.Refresh, c.Delays.Action, c.Delays.Fill, c.Delays.AfterSend,
		c.Delays.Pass, c.Delays.LoginSettle, c.Delays.Restart,
	} {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}
