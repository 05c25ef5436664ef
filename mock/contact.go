package mock

import (
	"context"

	"github.com/fwojciec/outreach"
)

var _ outreach.ContactService = (*ContactService)(nil)

// ContactService is a mock implementation of outreach.ContactService.
type ContactService struct {
	CreateContactFn func(ctx context.Context, contact *outreach.Contact) error
	FindContactsFn  func(ctx context.Context, filter outreach.ContactFilter) ([]*outreach.Contact, error)
	CountContactsFn func(ctx context.Context, filter outreach.ContactFilter) (int, error)
}

func (s *ContactService) CreateContact(ctx context.Context, contact *outreach.Contact) error {
	return s.CreateContactFn(ctx, contact)
}

func (s *ContactService) FindContacts(ctx context.Context, filter outreach.ContactFilter) ([]*outreach.Contact, error) {
	return s.FindContactsFn(ctx, filter)
}

func (s *ContactService) CountContacts(ctx context.Context, filter outreach.ContactFilter) (int, error) {
	return s.CountContactsFn(ctx, filter)
}
