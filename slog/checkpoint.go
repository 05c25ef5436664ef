package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/outreach"
)

// Ensure LoggingCheckpointStore implements outreach.CheckpointStore.
var _ outreach.CheckpointStore = (*LoggingCheckpointStore)(nil)

// LoggingCheckpointStore wraps a CheckpointStore with debug logging.
// Reads are not logged.
type LoggingCheckpointStore struct {
	next   outreach.CheckpointStore
	logger *slog.Logger
}

// NewLoggingCheckpointStore creates a new LoggingCheckpointStore.
func NewLoggingCheckpointStore(next outreach.CheckpointStore, logger *slog.Logger) *LoggingCheckpointStore {
	return &LoggingCheckpointStore{next: next, logger: logger}
}

func (s *LoggingCheckpointStore) LoadLinks(ctx context.Context) ([]string, error) {
	return s.next.LoadLinks(ctx)
}

func (s *LoggingCheckpointStore) AppendLinks(ctx context.Context, links []string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("append links",
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AppendLinks(ctx, links)
}

func (s *LoggingCheckpointStore) LoadProcessedSellers(ctx context.Context) ([]string, error) {
	return s.next.LoadProcessedSellers(ctx)
}

func (s *LoggingCheckpointStore) MarkSellerProcessed(ctx context.Context, id string) (err error) {
	defer func() {
		s.logger.Info("mark seller", "seller", id, "err", err)
	}()
	return s.next.MarkSellerProcessed(ctx, id)
}

func (s *LoggingCheckpointStore) SetCursor(ctx context.Context, url string) (err error) {
	defer func() {
		s.logger.Info("set cursor", "url", url, "err", err)
	}()
	return s.next.SetCursor(ctx, url)
}

func (s *LoggingCheckpointStore) Cursor(ctx context.Context) (string, error) {
	return s.next.Cursor(ctx)
}

func (s *LoggingCheckpointStore) Clear(ctx context.Context) (err error) {
	defer func() {
		s.logger.Info("clear checkpoints", "err", err)
	}()
	return s.next.Clear(ctx)
}
