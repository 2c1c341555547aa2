// Package alert holds the saved-search aggregate.
package alert

import (
	"fmt"
	"time"

	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
)

// Alert is a persisted saved search (immutable value object).
// id and ownerID never change after creation.
type Alert struct {
	id        string
	ownerID   string
	criteria  criteria.Criteria
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

// New validates and creates an Alert. New alerts start active.
func New(id, ownerID string, c criteria.Criteria, now time.Time) (Alert, error) {
	if id == "" {
		return Alert{}, fmt.Errorf("alert id is required")
	}
	if ownerID == "" {
		return Alert{}, fmt.Errorf("owner id is required")
	}
	if err := c.Validate(); err != nil {
		return Alert{}, fmt.Errorf("invalid criteria: %w", err)
	}
	return Alert{
		id:        id,
		ownerID:   ownerID,
		criteria:  c,
		active:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates an Alert without validation (storage hydration).
func Reconstruct(id, ownerID string, c criteria.Criteria, active bool, createdAt, updatedAt time.Time) Alert {
	return Alert{id: id, ownerID: ownerID, criteria: c, active: active, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the alert identifier.
func (a Alert) ID() string { return a.id }

// OwnerID returns the owning user's identifier.
func (a Alert) OwnerID() string { return a.ownerID }

// Criteria returns the saved filter.
func (a Alert) Criteria() criteria.Criteria { return a.criteria }

// Active reports whether the alert participates in matching runs.
func (a Alert) Active() bool { return a.active }

// CreatedAt returns the creation timestamp.
func (a Alert) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt returns the last modification timestamp.
func (a Alert) UpdatedAt() time.Time { return a.updatedAt }

// OwnedBy reports whether the given caller owns this alert.
func (a Alert) OwnedBy(ownerID string) bool { return a.ownerID == ownerID }

// WithCriteria returns a copy with the criteria replaced.
// The caller validates the criteria first; recorded matches are never
// retracted by a criteria edit.
func (a Alert) WithCriteria(c criteria.Criteria, now time.Time) Alert {
	a.criteria = c
	a.updatedAt = now
	return a
}

// WithActive returns a copy with the active flag set.
func (a Alert) WithActive(active bool, now time.Time) Alert {
	a.active = active
	a.updatedAt = now
	return a
}

// Toggled returns a copy with the active flag flipped.
func (a Alert) Toggled(now time.Time) Alert {
	return a.WithActive(!a.active, now)
}
