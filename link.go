package outreach

import (
	"net/url"
	"strings"
)

// LinkList is the in-memory mirror of the collected listing links.
// It keeps discovery order for index-based resumption and a set for
// constant-time duplicate checks. Links are compared by exact string match.
//
// LinkList is not safe for concurrent use.
type LinkList struct {
	links []string
	index map[string]int
}

// NewLinkList returns a LinkList holding links in order.
// Later duplicates are dropped so the first occurrence keeps its position.
func NewLinkList(links ...string) *LinkList {
	l := &LinkList{index: make(map[string]int, len(links))}
	l.Append(links...)
	return l
}

// Add appends link if it is not already present.
// Returns false for empty or duplicate links.
func (l *LinkList) Add(link string) bool {
	if link == "" {
		return false
	}
	if _, ok := l.index[link]; ok {
		return false
	}
	l.index[link] = len(l.links)
	l.links = append(l.links, link)
	return true
}

// Append adds each link in order and returns the number actually added.
func (l *LinkList) Append(links ...string) int {
	n := 0
	for _, link := range links {
		if l.Add(link) {
			n++
		}
	}
	return n
}

// Contains reports whether link is in the list.
func (l *LinkList) Contains(link string) bool {
	_, ok := l.index[link]
	return ok
}

// Index returns the position of link, or -1 if it is not in the list.
func (l *LinkList) Index(link string) int {
	if i, ok := l.index[link]; ok {
		return i
	}
	return -1
}

// At returns the link at position i.
func (l *LinkList) At(i int) string {
	return l.links[i]
}

// Last returns the most recently added link, or "" for an empty list.
func (l *LinkList) Last() string {
	if len(l.links) == 0 {
		return ""
	}
	return l.links[len(l.links)-1]
}

// Len returns the number of links.
func (l *LinkList) Len() int {
	return len(l.links)
}

// Links returns a copy of the links in discovery order.
func (l *LinkList) Links() []string {
	out := make([]string, len(l.links))
	copy(out, l.links)
	return out
}

// SellerSet is the set of seller identifiers that have already been contacted.
type SellerSet struct {
	ids map[string]struct{}
}

// NewSellerSet returns a SellerSet holding ids. Blank ids are ignored and
// duplicates collapse.
func NewSellerSet(ids ...string) *SellerSet {
	s := &SellerSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add records id. Returns false if id is blank or already present.
func (s *SellerSet) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Contains reports whether id has been contacted.
func (s *SellerSet) Contains(id string) bool {
	_, ok := s.ids[strings.TrimSpace(id)]
	return ok
}

// Len returns the number of sellers.
func (s *SellerSet) Len() int {
	return len(s.ids)
}

// ResolveURL resolves href against the marketplace origin.
// Absolute URLs are returned unchanged. Returns "" if href cannot be parsed.
func ResolveURL(origin, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return href
	}
	base, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
