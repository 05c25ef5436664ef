// Package toml reads and writes the outreach configuration file.
package toml

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/outreach"
)

// LoadConfig returns the default configuration overlaid with the file at
// path. Keys absent from the file keep their defaults. A missing file is
// not an error; unknown keys are.
func LoadConfig(path string) (*outreach.Config, error) {
	fc := toFile(outreach.DefaultConfig())
	if path == "" {
		return fromFile(fc), nil
	}

	md, err := toml.DecodeFile(path, fc)
	if errors.Is(err, os.ErrNotExist) {
		return fromFile(toFile(outreach.DefaultConfig())), nil
	} else if err != nil {
		return nil, outreach.Errorf(outreach.EINVALID, "config %s: %v", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, outreach.Errorf(outreach.EINVALID, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return fromFile(fc), nil
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg *outreach.Config) error {
	return toml.NewEncoder(w).Encode(toFile(cfg))
}

// file mirrors outreach.Config with TOML-friendly field types.
type file struct {
	Origin          string  `toml:"origin"`
	StartURL        string  `toml:"start_url"`
	MaxLinksPerPass int     `toml:"max_links_per_pass"`
	MessagesToSend  int     `toml:"messages_to_send"`
	MinViews        int     `toml:"min_views"`
	MaxSendsPerHour float64 `toml:"max_sends_per_hour"`
	MaxPages        int     `toml:"max_pages"`
	MaxRestarts     int     `toml:"max_restarts"`
	Attempts        int     `toml:"attempts"`
	KeepPolling     bool    `toml:"keep_polling"`
	Synonyms        string  `toml:"synonyms"`
	Message         string  `toml:"message"`

	Files     filesSection     `toml:"files"`
	Browser   browserSection   `toml:"browser"`
	Selectors selectorsSection `toml:"selectors"`
	Timeouts  timeoutsSection  `toml:"timeouts"`
	Delays    delaysSection    `toml:"delays"`
}

type filesSection struct {
	DataDir  string `toml:"data_dir"`
	Links    string `toml:"links"`
	Sellers  string `toml:"sellers"`
	Cursor   string `toml:"cursor"`
	Database string `toml:"database"`
}

type browserSection struct {
	ProfileDir string `toml:"profile_dir"`
	Headless   bool   `toml:"headless"`
	Bin        string `toml:"bin"`
}

type layout struct {
	Name      string `toml:"name"`
	Container string `toml:"container,omitempty"`
	Links     string `toml:"links"`
}

type selectorsSection struct {
	NextPage        string   `toml:"next_page"`
	Logo            string   `toml:"logo"`
	LoginMarker     string   `toml:"login_marker"`
	Seller          string   `toml:"seller"`
	SellerFallbacks []string `toml:"seller_fallbacks"`
	Views           string   `toml:"views"`
	WriteButton     string   `toml:"write_button"`
	MessengerLink   string   `toml:"messenger_link"`
	Input           string   `toml:"input"`
	Send            string   `toml:"send"`
	Layouts         []layout `toml:"layouts"`
}

type timeoutsSection struct {
	Navigate  duration `toml:"navigate"`
	Element   duration `toml:"element"`
	Messenger duration `toml:"messenger"`
	Input     duration `toml:"input"`
	Login     duration `toml:"login"`
	LoginPoll duration `toml:"login_poll"`
}

type delaysSection struct {
	Scroll      delay `toml:"scroll"`
	NextPage    delay `toml:"next_page"`
	Collect     delay `toml:"collect"`
	Listing     delay `toml:"listing"`
	Refresh     delay `toml:"refresh"`
	Action      delay `toml:"action"`
	Fill        delay `toml:"fill"`
	AfterSend   delay `toml:"after_send"`
	Pass        delay `toml:"pass"`
	LoginSettle delay `toml:"login_settle"`
	Restart     delay `toml:"restart"`
}

// duration is a time.Duration written as "60s".
type duration time.Duration

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// delay is an outreach.Delay written as "2s-4s".
type delay outreach.Delay

func (d delay) MarshalText() ([]byte, error) {
	return []byte(outreach.Delay(d).String()), nil
}

func (d *delay) UnmarshalText(text []byte) error {
	v, err := outreach.ParseDelay(string(text))
	if err != nil {
		return err
	}
	*d = delay(v)
	return nil
}

func toFile(c *outreach.Config) *file {
	f := &file{
		Origin:          c.Origin,
		StartURL:        c.StartURL,
		MaxLinksPerPass: c.MaxLinksPerPass,
		MessagesToSend:  c.MessagesToSend,
		MinViews:        c.MinViews,
		MaxSendsPerHour: c.MaxSendsPerHour,
		MaxPages:        c.MaxPages,
		MaxRestarts:     c.MaxRestarts,
		Attempts:        c.Attempts,
		KeepPolling:     c.KeepPolling,
		Synonyms:        c.Synonyms,
		Message:         c.Message,
		Files:           filesSection(c.Files),
		Browser:         browserSection(c.Browser),
		Selectors: selectorsSection{
			NextPage:        c.Selectors.NextPage,
			Logo:            c.Selectors.Logo,
			LoginMarker:     c.Selectors.LoginMarker,
			Seller:          c.Selectors.Seller,
			SellerFallbacks: c.Selectors.SellerFallbacks,
			Views:           c.Selectors.Views,
			WriteButton:     c.Selectors.WriteButton,
			MessengerLink:   c.Selectors.MessengerLink,
			Input:           c.Selectors.Input,
			Send:            c.Selectors.Send,
		},
		Timeouts: timeoutsSection{
			Navigate:  duration(c.Timeouts.Navigate),
			Element:   duration(c.Timeouts.Element),
			Messenger: duration(c.Timeouts.Messenger),
			Input:     duration(c.Timeouts.Input),
			Login:     duration(c.Timeouts.Login),
			LoginPoll: duration(c.Timeouts.LoginPoll),
		},
		Delays: delaysSection{
			Scroll:      delay(c.Delays.Scroll),
			NextPage:    delay(c.Delays.NextPage),
			Collect:     delay(c.Delays.Collect),
			Listing:     delay(c.Delays.Listing),
			Refresh:     delay(c.Delays.Refresh),
			Action:      delay(c.Delays.Action),
			Fill:        delay(c.Delays.Fill),
			AfterSend:   delay(c.Delays.AfterSend),
			Pass:        delay(c.Delays.Pass),
			LoginSettle: delay(c.Delays.LoginSettle),
			Restart:     delay(c.Delays.Restart),
		},
	}
	for _, l := range c.Selectors.Layouts {
		f.Selectors.Layouts = append(f.Selectors.Layouts, layout(l))
	}
	return f
}

func fromFile(f *file) *outreach.Config {
	c := &outreach.Config{
		Origin:          f.Origin,
		StartURL:        f.StartURL,
		MaxLinksPerPass: f.MaxLinksPerPass,
		MessagesToSend:  f.MessagesToSend,
		MinViews:        f.MinViews,
		MaxSendsPerHour: f.MaxSendsPerHour,
		MaxPages:        f.MaxPages,
		MaxRestarts:     f.MaxRestarts,
		Attempts:        f.Attempts,
		KeepPolling:     f.KeepPolling,
		Synonyms:        f.Synonyms,
		Message:         f.Message,
		Files:           outreach.FilesConfig(f.Files),
		Browser:         outreach.BrowserConfig(f.Browser),
		Selectors: outreach.Selectors{
			NextPage:        f.Selectors.NextPage,
			Logo:            f.Selectors.Logo,
			LoginMarker:     f.Selectors.LoginMarker,
			Seller:          f.Selectors.Seller,
			SellerFallbacks: f.Selectors.SellerFallbacks,
			Views:           f.Selectors.Views,
			WriteButton:     f.Selectors.WriteButton,
			MessengerLink:   f.Selectors.MessengerLink,
			Input:           f.Selectors.Input,
			Send:            f.Selectors.Send,
		},
		Timeouts: outreach.Timeouts{
			Navigate:  time.Duration(f.Timeouts.Navigate),
			Element:   time.Duration(f.Timeouts.Element),
			Messenger: time.Duration(f.Timeouts.Messenger),
			Input:     time.Duration(f.Timeouts.Input),
			Login:     time.Duration(f.Timeouts.Login),
			LoginPoll: time.Duration(f.Timeouts.LoginPoll),
		},
		Delays: outreach.Delays{
			Scroll:      outreach.Delay(f.Delays.Scroll),
			NextPage:    outreach.Delay(f.Delays.NextPage),
			Collect:     outreach.Delay(f.Delays.Collect),
			Listing:     outreach.Delay(f.Delays.Listing),
			Refresh:     outreach.Delay(f.Delays.Refresh),
			Action:      outreach.Delay(f.Delays.Action),
			Fill:        outreach.Delay(f.Delays.Fill),
			AfterSend:   outreach.Delay(f.Delays.AfterSend),
			Pass:        outreach.Delay(f.Delays.Pass),
			LoginSettle: outreach.Delay(f.Delays.LoginSettle),
			Restart:     outreach.Delay(f.Delays.Restart),
		},
	}
	for _, l := range f.Selectors.Layouts {
		c.Selectors.Layouts = append(c.Selectors.Layouts, outreach.LinkStrategy(l))
	}
	return c
}
