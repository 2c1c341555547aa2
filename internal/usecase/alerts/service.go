// Package alerts orchestrates the saved-search alert engine: alert
// lifecycle, matching runs against the property catalog, match-state
// tracking and notification dispatch.
package alerts

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/alert/patch"
	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
)

// Service is the alert engine entry point. Every operation takes the
// authenticated caller's identity explicitly; there is no ambient auth
// state.
type Service struct {
	repo     Repository
	tracker  MatchTracker
	catalog  Catalog
	dispatch Dispatcher
	locks    *keyedMutex
	logger   *zap.Logger
	now      func() time.Time
}

// New creates the alert service.
func New(repo Repository, tracker MatchTracker, catalog Catalog, dispatch Dispatcher, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		tracker:  tracker,
		catalog:  catalog,
		dispatch: dispatch,
		locks:    newKeyedMutex(),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the clock (test-only).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates criteria and stores a new alert for the owner.
// New alerts start active.
func (s *Service) Create(ctx context.Context, ownerID string, c criteria.Criteria) (domalert.Alert, error) {
	a, err := s.repo.Create(ctx, ownerID, c)
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("create alert: %w", err)
	}
	s.logger.Info("alert created",
		zap.String("alert_id", a.ID()),
		zap.String("owner_id", ownerID),
	)
	return a, nil
}

// List returns the owner's alerts, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domalert.Alert, error) {
	alerts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// Get returns a single alert owned by the caller.
func (s *Service) Get(ctx context.Context, ownerID, id string) (domalert.Alert, error) {
	a, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// Update applies a partial update. Only criteria and the active flag
// are mutable; editing criteria never retracts recorded matches.
func (s *Service) Update(ctx context.Context, ownerID, id string, p patch.Patch) (domalert.Alert, error) {
	a, err := s.repo.Update(ctx, id, ownerID, p)
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("update alert: %w", err)
	}
	return a, nil
}

// Toggle flips the active flag. Inactive alerts keep their match
// history but no new matching runs occur for them.
func (s *Service) Toggle(ctx context.Context, ownerID, id string) (domalert.Alert, error) {
	a, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("toggle alert: %w", err)
	}
	a, err = s.repo.SetActive(ctx, id, ownerID, !a.Active())
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("toggle alert: %w", err)
	}
	return a, nil
}

// Delete removes the alert and cascades its match state. The per-alert
// lock serializes the cascade against in-flight matching runs, so no
// orphaned match state is observable once Delete returns.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	if err := s.tracker.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear match state: %w", err)
	}
	s.logger.Info("alert deleted",
		zap.String("alert_id", id),
		zap.String("owner_id", ownerID),
	)
	return nil
}
