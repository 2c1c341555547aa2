package alerts

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/harsh17-bit/estate-alerts/internal/domain"
	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/property"
	"github.com/harsh17-bit/estate-alerts/internal/logger"
	"github.com/harsh17-bit/estate-alerts/internal/metrics"
)

// Matches returns the alert's full current match set, each resolved to
// a catalog listing.
//
// For an active alert this runs a fresh evaluation pass: query the
// catalog with the alert's coarse hints, evaluate every candidate
// against the criteria, persist ids not seen before and dispatch a
// notification for exactly those. Matches are "has ever matched"; a
// listing that later stops satisfying the criteria stays in the set.
//
// For an inactive alert the previously recorded matches are returned
// as-is: no scan, no dispatch.
//
// Runs on the same alert are serialized by the per-alert lock, so two
// simultaneous calls converge on one matched set and each newly
// discovered id dispatches exactly once.
func (s *Service) Matches(ctx context.Context, ownerID, id string) ([]property.Property, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	a, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, unavailable("get alert", err)
	}
	return s.run(ctx, a)
}

// SweepAlert runs one matching pass for an alert regardless of owner.
// Used by the background sweeper; inactive or vanished alerts are
// skipped silently.
func (s *Service) SweepAlert(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return unavailable("get alert", err)
	}
	if !a.Active() {
		return nil
	}
	_, err = s.run(ctx, a)
	return err
}

// run executes a matching pass. The caller holds the per-alert lock.
func (s *Service) run(ctx context.Context, a domalert.Alert) ([]property.Property, error) {
	log := logger.FromContext(ctx).With(zap.String("alert_id", a.ID()))

	recorded, err := s.tracker.MatchedIDs(ctx, a.ID())
	if err != nil {
		return nil, unavailable("load match state", err)
	}

	if !a.Active() {
		metrics.MatchRunsTotal.WithLabelValues(metrics.RunHistory).Inc()
		return s.resolve(ctx, recorded, nil)
	}

	candidates, err := s.catalog.Query(ctx, a.Criteria().Hints())
	if err != nil {
		return nil, unavailable("query catalog", err)
	}

	crit := a.Criteria()
	hits := make([]string, 0, len(candidates))
	byID := make(map[string]property.Property, len(candidates))
	for _, p := range candidates {
		if crit.Matches(p) {
			hits = append(hits, p.ID)
			byID[p.ID] = p
		}
	}

	newIDs, err := s.tracker.RecordNewMatches(ctx, a.ID(), hits)
	if err != nil {
		return nil, unavailable("record matches", err)
	}

	metrics.MatchRunsTotal.WithLabelValues(metrics.RunScan).Inc()
	if len(newIDs) > 0 {
		metrics.NewMatchesTotal.Add(float64(len(newIDs)))
		if err := s.dispatch.Notify(ctx, a.OwnerID(), a.ID(), newIDs); err != nil {
			// Dispatch is best-effort and never fails the pass.
			metrics.NotificationsTotal.WithLabelValues(metrics.DispatchFailed).Inc()
			log.Warn("notification dispatch failed",
				zap.Int("new_matches", len(newIDs)),
				zap.Error(err),
			)
		} else {
			metrics.NotificationsTotal.WithLabelValues(metrics.DispatchPublished).Inc()
			log.Info("new matches dispatched", zap.Int("new_matches", len(newIDs)))
		}
	}

	if err := s.tracker.Touch(ctx, a.ID(), s.now().UTC()); err != nil {
		log.Warn("failed to record last-checked time", zap.Error(err))
	}

	return s.resolve(ctx, recorded, byID)
}

// resolve turns the union of recorded ids and freshly-scanned hits into
// listing values, fetching listings the scan did not already load.
func (s *Service) resolve(
	ctx context.Context, recorded map[string]struct{}, scanned map[string]property.Property,
) ([]property.Property, error) {
	missing := make([]string, 0, len(recorded))
	for id := range recorded {
		if _, ok := scanned[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)

	out := make([]property.Property, 0, len(recorded)+len(scanned))
	for _, p := range scanned {
		out = append(out, p)
	}

	if len(missing) > 0 {
		fetched, err := s.catalog.ByIDs(ctx, missing)
		if err != nil {
			return nil, unavailable("resolve matches", err)
		}
		out = append(out, fetched...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// unavailable maps storage and collaborator failures to ErrUnavailable
// while letting caller-facing sentinels pass through.
func unavailable(op string, err error) error {
	for _, sentinel := range []error{
		domain.ErrNotFound, domain.ErrForbidden, domain.ErrValidation, domain.ErrConflict,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrUnavailable)
}
