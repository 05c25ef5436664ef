package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/outreach"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ outreach.ContactService = (*ContactService)(nil)

// ContactService implements outreach.ContactService using SQLite.
type ContactService struct {
	db *DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *DB) *ContactService {
	return &ContactService{db: db}
}

// hashMessage computes xxHash of a message and returns it as hex, so
// template variations can be grouped without comparing full text.
func hashMessage(message string) string {
	b := binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(message))
	return hex.EncodeToString(b)
}

// CreateContact records a sent message. ID and MessageHash are generated;
// SentAt defaults to now.
func (s *ContactService) CreateContact(ctx context.Context, contact *outreach.Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}

	contact.ID = uuid.New().String()
	contact.MessageHash = hashMessage(contact.Message)
	if contact.SentAt.IsZero() {
		contact.SentAt = time.Now()
	}
	contact.SentAt = contact.SentAt.UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, seller_id, listing_url, message, message_hash, views, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, contact.ID, contact.SellerID, contact.ListingURL, contact.Message, contact.MessageHash,
		contact.Views, formatTime(contact.SentAt))

	return err
}

// FindContacts retrieves contacts matching the filter, newest first.
func (s *ContactService) FindContacts(ctx context.Context, filter outreach.ContactFilter) ([]*outreach.Contact, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, seller_id, listing_url, message, message_hash, views, sent_at FROM contacts")
	contactWhere(&query, &args, filter)
	query.WriteString(" ORDER BY sent_at DESC, rowid DESC")
	contactPage(&query, &args, filter)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*outreach.Contact
	for rows.Next() {
		var c outreach.Contact
		var sentAt string

		if err := rows.Scan(&c.ID, &c.SellerID, &c.ListingURL, &c.Message, &c.MessageHash,
			&c.Views, &sentAt); err != nil {
			return nil, err
		}

		if c.SentAt, err = parseTime(sentAt, "sent_at"); err != nil {
			return nil, err
		}

		contacts = append(contacts, &c)
	}

	return contacts, rows.Err()
}

// CountContacts returns the number of contacts matching the filter.
func (s *ContactService) CountContacts(ctx context.Context, filter outreach.ContactFilter) (int, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT COUNT(*) FROM contacts")
	contactWhere(&query, &args, filter)

	var n int
	if err := s.db.QueryRowContext(ctx, query.String(), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
