package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/outreach"
)

// Ensure ListingSelector implements outreach.LinkCollector.
var _ outreach.LinkCollector = (*ListingSelector)(nil)

// ListingSelector extracts listing links from a results page by trying
// each layout strategy in order.
type ListingSelector struct {
	strategies []outreach.LinkStrategy
}

// NewListingSelector creates a ListingSelector for the given layouts.
func NewListingSelector(strategies []outreach.LinkStrategy) *ListingSelector {
	return &ListingSelector{strategies: strategies}
}

// CollectLinks returns the href of every anchor matched by each strategy.
// Matches of earlier strategies come first; within a strategy they follow
// document order. Empty hrefs are skipped.
func (s *ListingSelector) CollectLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, outreach.Errorf(outreach.EINVALID, "failed to parse HTML: %v", err)
	}

	var hrefs []string
	for _, st := range s.strategies {
		if st.Links == "" {
			continue
		}
		root := doc.Selection
		if st.Container != "" {
			root = doc.Find(st.Container).First()
			if root.Length() == 0 {
				continue
			}
		}
		root.Find(st.Links).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			if href = strings.TrimSpace(href); href != "" {
				hrefs = append(hrefs, href)
			}
		})
	}
	return hrefs, nil
}

// SellerFromHTML returns the trimmed text of the first non-empty element
// matched by selectors, tried in order. Returns ENOTFOUND if none match.
func SellerFromHTML(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", outreach.Errorf(outreach.EINVALID, "failed to parse HTML: %v", err)
	}
	for _, selector := range selectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			found = strings.TrimSpace(sel.Text())
			return found == ""
		})
		if found != "" && !isPlaceholder(found) {
			return found, nil
		}
	}
	return "", outreach.Errorf(outreach.ENOTFOUND, "seller not found")
}

// isPlaceholder reports whether text is the "..." shown while the seller
// name is still loading.
func isPlaceholder(text string) bool {
	return strings.Trim(text, ".… ") == ""
}
