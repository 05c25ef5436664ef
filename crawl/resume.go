package crawl

import "github.com/fwojciec/outreach"

// NeedCollect reports whether a collection pass must run before visiting.
// That is the case when no links are known, or when the cursor points at the
// last known link, meaning every collected listing has been started.
func NeedCollect(links *outreach.LinkList, cursor string) bool {
	return links.Len() == 0 || (cursor != "" && cursor == links.Last())
}

// ResumeIndex returns the position of the first link to visit: the one after
// the cursor. An unset cursor, or one no longer in the list, restarts at 0.
func ResumeIndex(links *outreach.LinkList, cursor string) int {
	if i := links.Index(cursor); i >= 0 {
		return i + 1
	}
	return 0
}
