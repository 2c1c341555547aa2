// Package httpapi exposes the alert engine over chi-routed JSON HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harsh17-bit/estate-alerts/internal/domain"
	"github.com/harsh17-bit/estate-alerts/internal/domain/alert/patch"
	alertsuc "github.com/harsh17-bit/estate-alerts/internal/usecase/alerts"
	healthuc "github.com/harsh17-bit/estate-alerts/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server carries the HTTP handlers for the alert API.
type Server struct {
	alerts        *alertsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(alerts *alertsuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		alerts: alerts,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrConflict, http.StatusConflict, codeConflict),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable, codeUnavailable),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Post("/", s.CreateAlert)
		r.Get("/", s.ListAlerts)
		r.Route("/{alertID}", func(r chi.Router) {
			r.Get("/", s.GetAlert)
			r.Put("/", s.UpdateAlert)
			r.Delete("/", s.DeleteAlert)
			r.Put("/toggle", s.ToggleAlert)
			r.Get("/matches", s.GetMatches)
		})
	})
}

// CreateAlert handles POST /api/v1/alerts.
func (s *Server) CreateAlert(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	a, err := s.alerts.Create(r.Context(), caller.UserID, req.Criteria)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, alertToResponse(a))
}

// ListAlerts handles GET /api/v1/alerts.
func (s *Server) ListAlerts(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	alerts, err := s.alerts.List(r.Context(), caller.UserID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]alertResponse, len(alerts))
	for i, a := range alerts {
		items[i] = alertToResponse(a)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetAlert handles GET /api/v1/alerts/{alertID}.
func (s *Server) GetAlert(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	a, err := s.alerts.Get(r.Context(), caller.UserID, chi.URLParam(r, "alertID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alertToResponse(a))
}

// UpdateAlert handles PUT /api/v1/alerts/{alertID}.
func (s *Server) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	var req updateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := patch.New(req.Criteria, req.Active)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	a, err := s.alerts.Update(r.Context(), caller.UserID, chi.URLParam(r, "alertID"), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alertToResponse(a))
}

// DeleteAlert handles DELETE /api/v1/alerts/{alertID}.
func (s *Server) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	if err := s.alerts.Delete(r.Context(), caller.UserID, chi.URLParam(r, "alertID")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleAlert handles PUT /api/v1/alerts/{alertID}/toggle.
func (s *Server) ToggleAlert(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	a, err := s.alerts.Toggle(r.Context(), caller.UserID, chi.URLParam(r, "alertID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alertToResponse(a))
}

// GetMatches handles GET /api/v1/alerts/{alertID}/matches.
func (s *Server) GetMatches(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	props, err := s.alerts.Matches(r.Context(), caller.UserID, chi.URLParam(r, "alertID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, props)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleDomainError maps a domain error to the HTTP response.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

// sentinelHandler maps a sentinel error to a status and code, hiding
// internal detail behind the sentinel's own message.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
