package alerts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/alert/patch"
	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
	"github.com/harsh17-bit/estate-alerts/internal/domain/property"
)

// mockRepository implements Repository with overridable funcs.
type mockRepository struct {
	createFn        func(ctx context.Context, ownerID string, c criteria.Criteria) (domalert.Alert, error)
	getFn           func(ctx context.Context, id, ownerID string) (domalert.Alert, error)
	getByIDFn       func(ctx context.Context, id string) (domalert.Alert, error)
	listByOwnerFn   func(ctx context.Context, ownerID string) ([]domalert.Alert, error)
	listActiveIDsFn func(ctx context.Context) ([]string, error)
	updateFn        func(ctx context.Context, id, ownerID string, p patch.Patch) (domalert.Alert, error)
	setActiveFn     func(ctx context.Context, id, ownerID string, active bool) (domalert.Alert, error)
	deleteFn        func(ctx context.Context, id, ownerID string) error
}

func (m *mockRepository) Create(ctx context.Context, ownerID string, c criteria.Criteria) (domalert.Alert, error) {
	return m.createFn(ctx, ownerID, c)
}

func (m *mockRepository) Get(ctx context.Context, id, ownerID string) (domalert.Alert, error) {
	return m.getFn(ctx, id, ownerID)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (domalert.Alert, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRepository) ListByOwner(ctx context.Context, ownerID string) ([]domalert.Alert, error) {
	return m.listByOwnerFn(ctx, ownerID)
}

func (m *mockRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	return m.listActiveIDsFn(ctx)
}

func (m *mockRepository) Update(ctx context.Context, id, ownerID string, p patch.Patch) (domalert.Alert, error) {
	return m.updateFn(ctx, id, ownerID, p)
}

func (m *mockRepository) SetActive(ctx context.Context, id, ownerID string, active bool) (domalert.Alert, error) {
	return m.setActiveFn(ctx, id, ownerID, active)
}

func (m *mockRepository) Delete(ctx context.Context, id, ownerID string) error {
	return m.deleteFn(ctx, id, ownerID)
}

// fakeTracker is an in-memory MatchTracker safe for concurrent use, so
// tests can exercise real idempotency semantics instead of scripting
// call-by-call responses.
type fakeTracker struct {
	mu      sync.Mutex
	sets    map[string]map[string]struct{}
	checked map[string]time.Time
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		sets:    make(map[string]map[string]struct{}),
		checked: make(map[string]time.Time),
	}
}

func (f *fakeTracker) MatchedIDs(_ context.Context, alertID string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.sets[alertID]))
	for id := range f.sets[alertID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (f *fakeTracker) RecordNewMatches(_ context.Context, alertID string, ids []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[alertID]
	if !ok {
		set = make(map[string]struct{})
		f.sets[alertID] = set
	}
	var added []string
	for _, id := range ids {
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		added = append(added, id)
	}
	sort.Strings(added)
	return added, nil
}

func (f *fakeTracker) Touch(_ context.Context, alertID string, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked[alertID] = t
	return nil
}

func (f *fakeTracker) Clear(_ context.Context, alertID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sets, alertID)
	delete(f.checked, alertID)
	return nil
}

func (f *fakeTracker) matched(alertID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sets[alertID]))
	for id := range f.sets[alertID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// fakeCatalog serves a fixed listing slice, applying the coarse filter
// the way the catalog service does.
type fakeCatalog struct {
	mu       sync.Mutex
	listings []property.Property
	queries  int
	queryErr error
	byIDsErr error
}

func (f *fakeCatalog) Query(_ context.Context, flt property.Filter) ([]property.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []property.Property
	for _, p := range f.listings {
		if flt.City != "" && !sameFold(flt.City, p.City) {
			continue
		}
		if flt.ListingType != "" && !sameFold(flt.ListingType, p.ListingType) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) ByIDs(_ context.Context, ids []string) ([]property.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byIDsErr != nil {
		return nil, f.byIDsErr
	}
	var out []property.Property
	for _, p := range f.listings {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

// countingDispatcher records every Notify call.
type countingDispatcher struct {
	mu    sync.Mutex
	err   error
	calls [][]string
}

func (d *countingDispatcher) Notify(_ context.Context, _, _ string, propertyIDs []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	ids := append([]string(nil), propertyIDs...)
	d.calls = append(d.calls, ids)
	return nil
}

func (d *countingDispatcher) notified() [][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]string, len(d.calls))
	copy(out, d.calls)
	return out
}

func sameFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
