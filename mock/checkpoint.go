package mock

import (
	"context"

	"github.com/fwojciec/outreach"
)

var _ outreach.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is a mock implementation of outreach.CheckpointStore.
type CheckpointStore struct {
	LoadLinksFn            func(ctx context.Context) ([]string, error)
	AppendLinksFn          func(ctx context.Context, links []string) error
	LoadProcessedSellersFn func(ctx context.Context) ([]string, error)
	MarkSellerProcessedFn  func(ctx context.Context, id string) error
	SetCursorFn            func(ctx context.Context, url string) error
	CursorFn               func(ctx context.Context) (string, error)
	ClearFn                func(ctx context.Context) error
}

func (s *CheckpointStore) LoadLinks(ctx context.Context) ([]string, error) {
	return s.LoadLinksFn(ctx)
}

func (s *CheckpointStore) AppendLinks(ctx context.Context, links []string) error {
	return s.AppendLinksFn(ctx, links)
}

func (s *CheckpointStore) LoadProcessedSellers(ctx context.Context) ([]string, error) {
	return s.LoadProcessedSellersFn(ctx)
}

func (s *CheckpointStore) MarkSellerProcessed(ctx context.Context, id string) error {
	return s.MarkSellerProcessedFn(ctx, id)
}

func (s *CheckpointStore) SetCursor(ctx context.Context, url string) error {
	return s.SetCursorFn(ctx, url)
}

func (s *CheckpointStore) Cursor(ctx context.Context) (string, error) {
	return s.CursorFn(ctx)
}

func (s *CheckpointStore) Clear(ctx context.Context) error {
	return s.ClearFn(ctx)
}
