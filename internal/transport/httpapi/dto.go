package httpapi

import (
	"time"

	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
)

// Stable error codes exposed to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeForbidden        = "forbidden"
	codeNotFound         = "not_found"
	codeConflict         = "conflict"
	codeUnavailable      = "unavailable"
	codeInternal         = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// createAlertRequest is the POST /alerts body.
type createAlertRequest struct {
	Criteria criteria.Criteria `json:"criteria"`
}

// updateAlertRequest is the PUT /alerts/{id} body. Nil fields are
// unchanged.
type updateAlertRequest struct {
	Criteria *criteria.Criteria `json:"criteria,omitempty"`
	Active   *bool              `json:"active,omitempty"`
}

// alertResponse is the Alert wire representation.
type alertResponse struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"ownerId"`
	Criteria  criteria.Criteria `json:"criteria"`
	Active    bool              `json:"active"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func alertToResponse(a domalert.Alert) alertResponse {
	return alertResponse{
		ID:        a.ID(),
		OwnerID:   a.OwnerID(),
		Criteria:  a.Criteria(),
		Active:    a.Active(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}
