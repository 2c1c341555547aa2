package alerts

import (
	"context"
	"time"

	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/alert/patch"
	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
	"github.com/harsh17-bit/estate-alerts/internal/domain/property"
)

// Repository defines the storage contract for alerts. Ownership is
// enforced inside the repository; GetByID skips the check and exists
// only for the sweeper path.
type Repository interface {
	Create(ctx context.Context, ownerID string, c criteria.Criteria) (domalert.Alert, error)
	Get(ctx context.Context, id, ownerID string) (domalert.Alert, error)
	GetByID(ctx context.Context, id string) (domalert.Alert, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domalert.Alert, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id, ownerID string, p patch.Patch) (domalert.Alert, error)
	SetActive(ctx context.Context, id, ownerID string, active bool) (domalert.Alert, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// MatchTracker records which property ids have already been surfaced
// per alert.
type MatchTracker interface {
	MatchedIDs(ctx context.Context, alertID string) (map[string]struct{}, error)
	RecordNewMatches(ctx context.Context, alertID string, ids []string) ([]string, error)
	Touch(ctx context.Context, alertID string, t time.Time) error
	Clear(ctx context.Context, alertID string) error
}

// Catalog supplies candidate listings. Read-only from the engine's
// perspective.
type Catalog interface {
	Query(ctx context.Context, f property.Filter) ([]property.Property, error)
	ByIDs(ctx context.Context, ids []string) ([]property.Property, error)
}

// Dispatcher delivers new-match notifications. Best-effort: the engine
// never fails a matching pass on a dispatch error.
type Dispatcher interface {
	Notify(ctx context.Context, ownerID, alertID string, propertyIDs []string) error
}
