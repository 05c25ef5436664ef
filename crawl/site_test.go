package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/crawl"
	"github.com/fwojciec/outreach/goquery"
	"github.com/fwojciec/outreach/mock"
)

const origin = "https://www.avito.ru/"

var selectors = outreach.DefaultConfig().Selectors

// fakeResults is a search results page. Each scroll reveals the next batch.
type fakeResults struct {
	batches [][]string
	next    string
}

// fakeListing is a listing page with its seller and messenger widgets.
type fakeListing struct {
	seller         string
	sellerTitle    string
	fallbackSeller string
	views          string
	// viewsMisses is the number of view count lookups that fail before the
	// count renders.
	viewsMisses int
	// stuckButton ignores clicks until the click is abandoned.
	stuckButton bool
	noButton    bool
	noMessenger bool
	noInput     bool
	noSend      bool
	// failLoads is the number of navigations that fail before one succeeds.
	failLoads int
}

type sentMessage struct {
	url     string
	message string
}

// fakeSite is an in-memory marketplace implementing outreach.Page.
type fakeSite struct {
	results  map[string]*fakeResults
	listings map[string]*fakeListing
	loggedIn bool

	// navigateErr fails navigation to a URL with the given error.
	navigateErr map[string]error
	// findErr fails every element query with the given error.
	findErr error

	current     string
	scrolls     int
	navigations []string
	sent        []sentMessage
	logoClicks  int

	writeClicked  bool
	messengerOpen bool
	draft         string
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		results:     make(map[string]*fakeResults),
		listings:    make(map[string]*fakeListing),
		navigateErr: make(map[string]error),
		loggedIn:    true,
	}
}

var _ outreach.Page = (*fakeSite)(nil)

func (s *fakeSite) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.navigations = append(s.navigations, url)
	if err := s.navigateErr[url]; err != nil {
		return err
	}
	if l, ok := s.listings[url]; ok && l.failLoads > 0 {
		l.failLoads--
		return outreach.Errorf(outreach.ETIMEOUT, "navigation to %s timed out", url)
	}
	s.current = url
	s.scrolls = 0
	s.writeClicked, s.messengerOpen, s.draft = false, false, ""
	return nil
}

func (s *fakeSite) URL(ctx context.Context) (string, error) {
	return s.current, nil
}

func (s *fakeSite) HTML(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("<html><body>")
	if r, ok := s.results[s.current]; ok {
		for i := 0; i < s.scrolls && i < len(r.batches); i++ {
			for _, href := range r.batches[i] {
				fmt.Fprintf(&b, `<div class="styles-item-m0DD4"><a href="%s">item</a></div>`, href)
			}
		}
	}
	if l, ok := s.listings[s.current]; ok && l.fallbackSeller != "" {
		fmt.Fprintf(&b, `<div class="style-nameWrapper-vmkRf"><span>%s</span></div>`, l.fallbackSeller)
	}
	b.WriteString("</body></html>")
	return b.String(), nil
}

func (s *fakeSite) ScrollToBottom(ctx context.Context) error {
	s.scrolls++
	return nil
}

func (s *fakeSite) FindOne(ctx context.Context, selector string) (outreach.Element, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	switch selector {
	case selectors.NextPage:
		if r, ok := s.results[s.current]; ok && r.next != "" {
			return attrElement("href", r.next), nil
		}
	case selectors.Logo:
		return &mock.Element{ClickFn: func(ctx context.Context) error {
			s.logoClicks++
			return nil
		}}, nil
	case selectors.LoginMarker:
		if s.loggedIn {
			return textElement(""), nil
		}
	default:
		if el := s.listingElement(selector); el != nil {
			return el, nil
		}
	}
	return nil, outreach.Errorf(outreach.ENOTFOUND, "no element matches %s", selector)
}

func (s *fakeSite) FindAll(ctx context.Context, selector string) ([]outreach.Element, error) {
	el, err := s.FindOne(ctx, selector)
	if err != nil {
		return nil, nil
	}
	return []outreach.Element{el}, nil
}

func (s *fakeSite) WaitFor(ctx context.Context, selector string, timeout time.Duration) (outreach.Element, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if el := s.listingElement(selector); el != nil {
		return el, nil
	}
	return nil, outreach.Errorf(outreach.ETIMEOUT, "timed out waiting for %s", selector)
}

func (s *fakeSite) listingElement(selector string) outreach.Element {
	l, ok := s.listings[s.current]
	if !ok {
		return nil
	}
	switch selector {
	case selectors.Seller:
		if l.seller == "" {
			return nil
		}
		return &mock.Element{
			TextFn: func(ctx context.Context) (string, error) { return l.seller, nil },
			AttributeFn: func(ctx context.Context, name string) (string, bool, error) {
				return l.sellerTitle, l.sellerTitle != "", nil
			},
		}
	case selectors.Views:
		if l.views == "" {
			return nil
		}
		if l.viewsMisses > 0 {
			l.viewsMisses--
			return nil
		}
		return textElement(l.views)
	case selectors.WriteButton:
		if l.noButton {
			return nil
		}
		if l.stuckButton {
			return &mock.Element{ClickFn: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}}
		}
		return clickElement(func() { s.writeClicked = true })
	case selectors.MessengerLink:
		if !s.writeClicked || l.noMessenger {
			return nil
		}
		return clickElement(func() { s.messengerOpen = true })
	case selectors.Input:
		if !s.messengerOpen || l.noInput {
			return nil
		}
		return &mock.Element{FillFn: func(ctx context.Context, text string) error {
			s.draft = text
			return nil
		}}
	case selectors.Send:
		if !s.messengerOpen || l.noSend {
			return nil
		}
		return clickElement(func() {
			s.sent = append(s.sent, sentMessage{url: s.current, message: s.draft})
		})
	}
	return nil
}

func textElement(text string) *mock.Element {
	return &mock.Element{TextFn: func(ctx context.Context) (string, error) { return text, nil }}
}

func attrElement(name, value string) *mock.Element {
	return &mock.Element{AttributeFn: func(ctx context.Context, n string) (string, bool, error) {
		if n != name {
			return "", false, nil
		}
		return value, true, nil
	}}
}

func clickElement(fn func()) *mock.Element {
	return &mock.Element{ClickFn: func(ctx context.Context) error {
		fn()
		return nil
	}}
}

// pauses records every pause without sleeping.
type pauses struct {
	delays []outreach.Delay
}

func (p *pauses) pauser() *mock.Pauser {
	return &mock.Pauser{PauseFn: func(ctx context.Context, d outreach.Delay) error {
		p.delays = append(p.delays, d)
		return ctx.Err()
	}}
}

func newCollector(p outreach.Pauser) *crawl.Collector {
	d := outreach.DefaultConfig().Delays
	return &crawl.Collector{
		Links:       goquery.NewListingSelector(selectors.Layouts),
		Pauser:      p,
		Origin:      origin,
		NextPage:    selectors.NextPage,
		ScrollDelay: d.Scroll,
		PageDelay:   d.NextPage,
	}
}

// memStore is an in-memory outreach.CheckpointStore.
type memStore struct {
	links   []string
	sellers []string
	cursor  string
	cursors []string
}

func (m *memStore) store() *mock.CheckpointStore {
	return &mock.CheckpointStore{
		LoadLinksFn: func(ctx context.Context) ([]string, error) { return m.links, nil },
		AppendLinksFn: func(ctx context.Context, links []string) error {
			m.links = append(m.links, links...)
			return nil
		},
		LoadProcessedSellersFn: func(ctx context.Context) ([]string, error) { return m.sellers, nil },
		MarkSellerProcessedFn: func(ctx context.Context, id string) error {
			m.sellers = append(m.sellers, id)
			return nil
		},
		SetCursorFn: func(ctx context.Context, url string) error {
			m.cursor = url
			m.cursors = append(m.cursors, url)
			return nil
		},
		CursorFn: func(ctx context.Context) (string, error) { return m.cursor, nil },
		ClearFn: func(ctx context.Context) error {
			*m = memStore{}
			return nil
		},
	}
}

func item(n int) string {
	return fmt.Sprintf("%sitem_%d", origin, n)
}
