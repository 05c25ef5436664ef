package outreach

import (
	"context"
	"time"
)

// Contact records a message sent to a seller.
type Contact struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	ListingURL  string    `json:"listingUrl"`
	Message     string    `json:"message"`
	MessageHash string    `json:"messageHash"`
	Views       int       `json:"views"` // -1 when the view filter was off
	SentAt      time.Time `json:"sentAt"`
}

// Validate returns an error if the contact contains invalid fields.
func (c *Contact) Validate() error {
	if c.SellerID == "" {
		return Errorf(EINVALID, "contact seller ID required")
	}
	if c.ListingURL == "" {
		return Errorf(EINVALID, "contact listing URL required")
	}
	return nil
}

// ContactService represents a service for the history of sent messages.
type ContactService interface {
	// CreateContact records a sent message.
	CreateContact(ctx context.Context, contact *Contact) error

	// FindContacts retrieves contacts matching the filter, newest first.
	FindContacts(ctx context.Context, filter ContactFilter) ([]*Contact, error)

	// CountContacts returns the number of contacts matching the filter,
	// ignoring Limit and Offset.
	CountContacts(ctx context.Context, filter ContactFilter) (int, error)
}

// ContactFilter represents a filter for FindContacts.
type ContactFilter struct {
	SellerID *string    `json:"sellerId"`
	Since    *time.Time `json:"since"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
