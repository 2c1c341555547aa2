// Package dispatch publishes new-match notifications to a redis stream
// consumed by the external delivery pipeline (email/push). The engine
// decides what to notify; delivery is someone else's problem.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// streamStore is the consumer interface for stream publishing (ISP).
type streamStore interface {
	XAdd(ctx context.Context, stream string, maxLen int64, fields map[string]string) (string, error)
}

// Publisher appends notification events to a capped stream.
type Publisher struct {
	store  streamStore
	stream string
	maxLen int64
	logger *zap.Logger
	now    func() time.Time
}

// NewPublisher creates a stream publisher. maxLen caps the stream
// approximately; 0 disables trimming.
func NewPublisher(store streamStore, stream string, maxLen int64, logger *zap.Logger) *Publisher {
	return &Publisher{store: store, stream: stream, maxLen: maxLen, logger: logger, now: time.Now}
}

// Notify publishes one event covering all newly matched property ids
// for an alert. Callers treat failures as best-effort.
func (p *Publisher) Notify(ctx context.Context, ownerID, alertID string, propertyIDs []string) error {
	entryID, err := p.store.XAdd(ctx, p.stream, p.maxLen, map[string]string{
		"owner_id":     ownerID,
		"alert_id":     alertID,
		"property_ids": strings.Join(propertyIDs, ","),
		"ts":           p.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	p.logger.Debug("notification published",
		zap.String("stream", p.stream),
		zap.String("entry_id", entryID),
		zap.String("alert_id", alertID),
		zap.Int("property_count", len(propertyIDs)),
	)
	return nil
}
