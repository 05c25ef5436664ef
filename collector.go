package outreach

// LinkStrategy describes one page layout for finding listing links.
// When Container is set, Links is matched inside the first element
// matching Container; otherwise Links is matched against the whole page.
type LinkStrategy struct {
	Name      string
	Container string
	Links     string
}

// LinkCollector extracts listing links from a rendered results page.
type LinkCollector interface {
	// CollectLinks returns the raw href values found by each strategy in
	// turn, in document order. Results are neither resolved nor
	// de-duplicated.
	CollectLinks(html string) ([]string, error)
}
