package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"campregistration/internal/delivery/http/helpers"
	"campregistration/internal/domain"
)

// User-facing messages for shift admission outcomes.
const (
	msgDuplicateRegistration = "You are already registered for this shift"
	msgSlotFull              = "This shift is full. %d volunteers are already registered."
	msgManagerSlotTaken      = "This shift already has a manager. Please register as a volunteer instead."
	msgManagerRequiredFirst  = "A shift manager must be assigned first before volunteers can register. Please check back later or consider becoming the shift manager!"
	msgRegistryUnavailable   = "Database connection timeout. Please try again."
	msgMemberNotApproved     = "Your membership has not been approved yet. Please contact a camp organizer."
)

// Error codes for the four shift rejections. Each is sent with 409.
const (
	ErrCodeDuplicateRegistration = "duplicate_registration"
	ErrCodeSlotFull              = "shift_full"
	ErrCodeManagerSlotTaken      = "manager_slot_taken"
	ErrCodeManagerRequiredFirst  = "manager_required_first"
)

// writeError maps a service error onto the response envelope. notFound is the message used for
// domain.ErrNotFound. Unclassified errors are logged and answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	var full *domain.SlotFullError
	switch {
	case errors.As(err, &full):
		helpers.WriteJSONError(w, http.StatusConflict, ErrCodeSlotFull, fmt.Sprintf(msgSlotFull, full.Capacity))
	case errors.Is(err, domain.ErrDuplicateRegistration):
		helpers.WriteJSONError(w, http.StatusConflict, ErrCodeDuplicateRegistration, msgDuplicateRegistration)
	case errors.Is(err, domain.ErrManagerSlotTaken):
		helpers.WriteJSONError(w, http.StatusConflict, ErrCodeManagerSlotTaken, msgManagerSlotTaken)
	case errors.Is(err, domain.ErrManagerRequiredFirst):
		helpers.WriteJSONError(w, http.StatusConflict, ErrCodeManagerRequiredFirst, msgManagerRequiredFirst)
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrMemberNotApproved):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, msgMemberNotApproved)
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFound)
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already registered")
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrRegistryUnavailable):
		logger.WarnContext(r.Context(), "registry unavailable", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, msgRegistryUnavailable)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}
