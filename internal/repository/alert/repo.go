// Package alert persists saved-search alerts on redis hashes with
// owner and active index sets.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harsh17-bit/estate-alerts/internal/domain"
	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/alert/patch"
	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
)

// store is the consumer interface for alerts (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the alert storage contract. Every read-single and
// mutating operation takes the caller's identity and enforces ownership
// here, not in callers.
type Repo struct {
	store store
	now   func() time.Time
	newID func() string
}

// New creates an alert repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now, newID: uuid.NewString}
}

// WithClock overrides the clock (test-only).
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

// WithIDGenerator overrides id generation (test-only).
func (r *Repo) WithIDGenerator(newID func() string) *Repo {
	r.newID = newID
	return r
}

// Create validates criteria and stores a new alert. New alerts start active.
func (r *Repo) Create(ctx context.Context, ownerID string, c criteria.Criteria) (domalert.Alert, error) {
	a, err := domalert.New(r.newID(), ownerID, c, r.now().UTC())
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	if err := r.store.HSet(ctx, alertKey(a.ID()), buildHashFields(a)); err != nil {
		return domalert.Alert{}, fmt.Errorf("hset %s: %w", alertKey(a.ID()), err)
	}
	if err := r.store.SAdd(ctx, ownerKey(ownerID), a.ID()); err != nil {
		return domalert.Alert{}, fmt.Errorf("index owner %s: %w", ownerID, err)
	}
	if err := r.store.SAdd(ctx, activeKey, a.ID()); err != nil {
		return domalert.Alert{}, fmt.Errorf("index active: %w", err)
	}
	return a, nil
}

// Get returns an alert after checking the caller owns it.
func (r *Repo) Get(ctx context.Context, id, ownerID string) (domalert.Alert, error) {
	a, err := r.load(ctx, id)
	if err != nil {
		return domalert.Alert{}, err
	}
	if !a.OwnedBy(ownerID) {
		return domalert.Alert{}, domain.ErrForbidden
	}
	return a, nil
}

// GetByID returns an alert without the ownership check. Used by the
// background sweeper, never by caller-facing paths.
func (r *Repo) GetByID(ctx context.Context, id string) (domalert.Alert, error) {
	return r.load(ctx, id)
}

// ListByOwner returns all alerts created by the given owner, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domalert.Alert, error) {
	ids, err := r.store.SMembers(ctx, ownerKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", ownerKey(ownerID), err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = alertKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	alerts := make([]domalert.Alert, 0, len(ids))
	for i, m := range hashes {
		if len(m) == 0 {
			// Index entry without a hash: alert was deleted concurrently.
			continue
		}
		a, err := parseHashFields(ids[i], m)
		if err != nil {
			return nil, fmt.Errorf("parse alert %s: %w", ids[i], err)
		}
		alerts = append(alerts, a)
	}
	sortByCreatedDesc(alerts)
	return alerts, nil
}

// ListActiveIDs returns the ids of every active alert (sweeper driver).
func (r *Repo) ListActiveIDs(ctx context.Context) ([]string, error) {
	ids, err := r.store.SMembers(ctx, activeKey)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", activeKey, err)
	}
	return ids, nil
}

// Update applies a patch after the ownership check. Only criteria and
// the active flag are mutable.
func (r *Repo) Update(ctx context.Context, id, ownerID string, p patch.Patch) (domalert.Alert, error) {
	a, err := r.Get(ctx, id, ownerID)
	if err != nil {
		return domalert.Alert{}, err
	}

	now := r.now().UTC()
	if c := p.Criteria(); c != nil {
		a = a.WithCriteria(*c, now)
	}
	if active := p.Active(); active != nil {
		a = a.WithActive(*active, now)
	}

	if err := r.persist(ctx, a); err != nil {
		return domalert.Alert{}, err
	}
	return a, nil
}

// SetActive sets the active flag after the ownership check.
func (r *Repo) SetActive(ctx context.Context, id, ownerID string, active bool) (domalert.Alert, error) {
	a, err := r.Get(ctx, id, ownerID)
	if err != nil {
		return domalert.Alert{}, err
	}
	a = a.WithActive(active, r.now().UTC())
	if err := r.persist(ctx, a); err != nil {
		return domalert.Alert{}, err
	}
	return a, nil
}

// Delete removes the alert and its index entries after the ownership
// check. The alert hash goes first so a racing match run observes
// NotFound; match state cascade is handled by the service under the
// per-alert lock.
func (r *Repo) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := r.Get(ctx, id, ownerID); err != nil {
		return err
	}

	if err := r.store.Del(ctx, alertKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", alertKey(id), err)
	}
	if err := r.store.SRem(ctx, ownerKey(ownerID), id); err != nil {
		return fmt.Errorf("unindex owner %s: %w", ownerID, err)
	}
	if err := r.store.SRem(ctx, activeKey, id); err != nil {
		return fmt.Errorf("unindex active: %w", err)
	}
	return nil
}

func (r *Repo) load(ctx context.Context, id string) (domalert.Alert, error) {
	m, err := r.store.HGetAll(ctx, alertKey(id))
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("hgetall %s: %w", alertKey(id), err)
	}
	if len(m) == 0 {
		return domalert.Alert{}, domain.ErrNotFound
	}
	a, err := parseHashFields(id, m)
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("parse alert %s: %w", id, err)
	}
	return a, nil
}

func (r *Repo) persist(ctx context.Context, a domalert.Alert) error {
	if err := r.store.HSet(ctx, alertKey(a.ID()), buildHashFields(a)); err != nil {
		return fmt.Errorf("hset %s: %w", alertKey(a.ID()), err)
	}
	if a.Active() {
		if err := r.store.SAdd(ctx, activeKey, a.ID()); err != nil {
			return fmt.Errorf("index active: %w", err)
		}
		return nil
	}
	if err := r.store.SRem(ctx, activeKey, a.ID()); err != nil {
		return fmt.Errorf("unindex active: %w", err)
	}
	return nil
}
