package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/outreach"
)

// timeLayout is how contact timestamps are stored. Stored values are UTC
// and truncated to the second, so text order is chronological order.
const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp, naming the column on failure.
func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", column, value, err)
	}
	return t, nil
}

// contactWhere appends the WHERE clause selecting contacts that match filter.
func contactWhere(query *strings.Builder, args *[]any, filter outreach.ContactFilter) {
	query.WriteString(" WHERE 1=1")
	if filter.SellerID != nil {
		query.WriteString(" AND seller_id = ?")
		*args = append(*args, *filter.SellerID)
	}
	if filter.Since != nil {
		query.WriteString(" AND sent_at >= ?")
		*args = append(*args, formatTime(*filter.Since))
	}
}

// contactPage appends LIMIT and OFFSET for filter. SQLite accepts OFFSET
// only after LIMIT, so an offset alone goes with LIMIT -1.
func contactPage(query *strings.Builder, args *[]any, filter outreach.ContactFilter) {
	switch {
	case filter.Limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, filter.Limit)
	case filter.Offset > 0:
		query.WriteString(" LIMIT -1")
	default:
		return
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, filter.Offset)
	}
}
