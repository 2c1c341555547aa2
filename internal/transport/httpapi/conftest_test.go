package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harsh17-bit/estate-alerts/internal/domain"
	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/alert/patch"
	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
	"github.com/harsh17-bit/estate-alerts/internal/domain/property"
	alertsuc "github.com/harsh17-bit/estate-alerts/internal/usecase/alerts"
	healthuc "github.com/harsh17-bit/estate-alerts/internal/usecase/health"
)

var handlerNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memRepo is an in-memory alert repository for handler tests.
type memRepo struct {
	mu     sync.Mutex
	alerts map[string]domalert.Alert
	nextID int
}

func newMemRepo() *memRepo {
	return &memRepo{alerts: make(map[string]domalert.Alert)}
}

func (m *memRepo) Create(_ context.Context, ownerID string, c criteria.Criteria) (domalert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a, err := domalert.New(fmt.Sprintf("alert-%d", m.nextID), ownerID, c, handlerNow)
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}
	m.alerts[a.ID()] = a
	return a, nil
}

func (m *memRepo) Get(_ context.Context, id, ownerID string) (domalert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return domalert.Alert{}, domain.ErrNotFound
	}
	if !a.OwnedBy(ownerID) {
		return domalert.Alert{}, domain.ErrForbidden
	}
	return a, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (domalert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return domalert.Alert{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *memRepo) ListByOwner(_ context.Context, ownerID string) ([]domalert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domalert.Alert
	for _, a := range m.alerts {
		if a.OwnedBy(ownerID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *memRepo) ListActiveIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for id, a := range m.alerts {
		if a.Active() {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, id, ownerID string, p patch.Patch) (domalert.Alert, error) {
	a, err := m.Get(ctx, id, ownerID)
	if err != nil {
		return domalert.Alert{}, err
	}
	if c := p.Criteria(); c != nil {
		a = a.WithCriteria(*c, handlerNow)
	}
	if active := p.Active(); active != nil {
		a = a.WithActive(*active, handlerNow)
	}
	m.mu.Lock()
	m.alerts[id] = a
	m.mu.Unlock()
	return a, nil
}

func (m *memRepo) SetActive(ctx context.Context, id, ownerID string, active bool) (domalert.Alert, error) {
	a, err := m.Get(ctx, id, ownerID)
	if err != nil {
		return domalert.Alert{}, err
	}
	a = a.WithActive(active, handlerNow)
	m.mu.Lock()
	m.alerts[id] = a
	m.mu.Unlock()
	return a, nil
}

func (m *memRepo) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := m.Get(ctx, id, ownerID); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.alerts, id)
	m.mu.Unlock()
	return nil
}

// memTracker is an in-memory match tracker.
type memTracker struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func newMemTracker() *memTracker {
	return &memTracker{sets: make(map[string]map[string]struct{})}
}

func (m *memTracker) MatchedIDs(_ context.Context, alertID string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{}, len(m.sets[alertID]))
	for id := range m.sets[alertID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *memTracker) RecordNewMatches(_ context.Context, alertID string, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[alertID]
	if !ok {
		set = make(map[string]struct{})
		m.sets[alertID] = set
	}
	var added []string
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			set[id] = struct{}{}
			added = append(added, id)
		}
	}
	sort.Strings(added)
	return added, nil
}

func (m *memTracker) Touch(context.Context, string, time.Time) error { return nil }

func (m *memTracker) Clear(_ context.Context, alertID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, alertID)
	return nil
}

// stubCatalog serves a fixed listing slice without filtering.
type stubCatalog struct {
	listings []property.Property
	err      error
}

func (s *stubCatalog) Query(context.Context, property.Filter) ([]property.Property, error) {
	return s.listings, s.err
}

func (s *stubCatalog) ByIDs(_ context.Context, ids []string) ([]property.Property, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []property.Property
	for _, p := range s.listings {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type stubDispatcher struct{}

func (stubDispatcher) Notify(context.Context, string, string, []string) error { return nil }

type alwaysHealthy struct{}

func (alwaysHealthy) Ping(context.Context) error { return nil }

// testEnv bundles a wired server and its backing fakes.
type testEnv struct {
	router  chi.Router
	repo    *memRepo
	catalog *stubCatalog
}

func newTestEnv() *testEnv {
	repo := newMemRepo()
	catalog := &stubCatalog{}
	svc := alertsuc.New(repo, newMemTracker(), catalog, stubDispatcher{}, zap.NewNop())
	health := healthuc.New(alwaysHealthy{}, nil)
	srv := NewServer(svc, health, zap.NewNop())

	r := chi.NewRouter()
	srv.Routes(r)
	return &testEnv{router: r, repo: repo, catalog: catalog}
}

// do issues a request as the given caller and returns the recorder.
func (e *testEnv) do(method, target, callerID string, body *string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(*body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if callerID != "" {
		req = req.WithContext(ContextWithIdentity(req.Context(), Identity{UserID: callerID, Role: "user"}))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
