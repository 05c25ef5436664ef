package outreach

import "context"

// CheckpointStore persists outreach progress so a restarted run can resume.
//
// Three lists are kept: the collected links (ordered, append-only), the
// processed seller identifiers (append-only), and the cursor, the single
// link whose processing was most recently started (overwritten).
//
// Reads treat missing state as empty rather than failing.
type CheckpointStore interface {
	// LoadLinks returns the collected links in discovery order.
	LoadLinks(ctx context.Context) ([]string, error)

	// AppendLinks extends the collected links, preserving order.
	// Previously persisted links are never rewritten.
	AppendLinks(ctx context.Context, links []string) error

	// LoadProcessedSellers returns the identifiers of contacted sellers.
	// Duplicates may be present and are collapsed by the caller.
	LoadProcessedSellers(ctx context.Context) ([]string, error)

	// MarkSellerProcessed records that a seller has been contacted.
	MarkSellerProcessed(ctx context.Context, id string) error

	// SetCursor overwrites the cursor with url.
	// Must be called before any side-effecting action on url.
	SetCursor(ctx context.Context, url string) error

	// Cursor returns the persisted cursor, or "" if none is set.
	Cursor(ctx context.Context) (string, error)

	// Clear removes all persisted progress.
	Clear(ctx context.Context) error
}
