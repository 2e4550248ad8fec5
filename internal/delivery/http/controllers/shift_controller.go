package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"campregistration/internal/delivery/http/helpers"
	"campregistration/internal/domain"
)

// RegisterShiftRequest is the request body for POST /shifts.
type RegisterShiftRequest struct {
	MemberID    string `json:"memberId" example:"7d9f6c1e-3b1a-4c55-9a59-0f3c2d1e8b7a"`
	MemberName  string `json:"memberName" example:"Alice"`
	MemberEmail string `json:"memberEmail" example:"alice@example.org"`
	Day         string `json:"day" example:"Monday" enums:"Monday,Tuesday,Wednesday,Thursday,Friday"`
	ShiftTime   string `json:"shiftTime" example:"morning" enums:"morning,evening"`
	Role        string `json:"role" example:"manager" enums:"manager,volunteer"`
}

// RegisterShiftResponse is returned for an accepted registration.
type RegisterShiftResponse struct {
	Message        string           `json:"message" example:"Successfully registered as manager for Monday morning shift"`
	ID             string           `json:"id"`
	Day            domain.Day       `json:"day" swaggertype:"string" example:"Monday"`
	ShiftTime      domain.ShiftTime `json:"shiftTime" swaggertype:"string" example:"morning"`
	Role           domain.ShiftRole `json:"role" swaggertype:"string" example:"manager"`
	RemainingSpots int              `json:"remainingSpots" example:"4"`
}

// RegisterShiftSuccessResponse is the success envelope for POST /shifts (201).
type RegisterShiftSuccessResponse struct {
	Data  RegisterShiftResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// AvailabilitySuccessResponse is the success envelope for the availability endpoints (200).
type AvailabilitySuccessResponse struct {
	Data  []*domain.SlotAvailability `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListShiftRegistrationsResponse is the paginated list of registrations.
type ListShiftRegistrationsResponse struct {
	Items      []*domain.ShiftRegistration `json:"items"`
	Pagination helpers.PaginationMeta      `json:"pagination"`
}

// ListShiftRegistrationsSuccessResponse is the success envelope for GET /shifts (200).
type ListShiftRegistrationsSuccessResponse struct {
	Data  ListShiftRegistrationsResponse `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// ShiftController handles kitchen-shift registration endpoints.
type ShiftController struct {
	Logger    *slog.Logger
	Allocator domain.ShiftAllocator
}

func NewShiftController(logger *slog.Logger, allocator domain.ShiftAllocator) *ShiftController {
	return &ShiftController{Logger: logger, Allocator: allocator}
}

// Register godoc
// @Summary Register for a kitchen shift
// @Description Register an approved member as manager or volunteer for one day/shift slot. A slot takes one manager, who must register before any volunteer. Morning slots hold 5 people, evening slots 6.
// @Tags shifts
// @Accept json
// @Produce json
// @Param body body RegisterShiftRequest true "Registration"
// @Success 201 {object} controllers.RegisterShiftSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (member not approved)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown member)"
// @Failure 409 {object} helpers.APIResponse "error.code: duplicate_registration, shift_full, manager_slot_taken or manager_required_first"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /shifts [post]
func (c *ShiftController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterShiftRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Allocator.Register(r.Context(), domain.RegisterShiftInput{
		MemberID:    req.MemberID,
		MemberName:  req.MemberName,
		MemberEmail: req.MemberEmail,
		Day:         req.Day,
		ShiftTime:   req.ShiftTime,
		Role:        req.Role,
	})
	if err != nil {
		writeError(w, r, c.Logger, err, "member not found")
		return
	}
	reg := result.Registration
	helpers.WriteJSONSuccess(w, http.StatusCreated, RegisterShiftResponse{
		Message:        fmt.Sprintf("Successfully registered as %s for %s %s shift", reg.Role, reg.Day, reg.ShiftTime),
		ID:             reg.ID,
		Day:            reg.Day,
		ShiftTime:      reg.ShiftTime,
		Role:           reg.Role,
		RemainingSpots: result.RemainingSpots,
	})
}

// Availability godoc
// @Summary Shift availability
// @Description Returns all 10 slots (Monday to Friday, morning then evening) with counts, open spots and registrant names. Also served by GET /shifts?availability=true.
// @Tags shifts
// @Produce json
// @Success 200 {object} controllers.AvailabilitySuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /shifts/availability [get]
func (c *ShiftController) Availability(w http.ResponseWriter, r *http.Request) {
	slots, err := c.Allocator.GetAvailability(r.Context())
	if err != nil {
		writeError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slots)
}

// ListRegistrations godoc
// @Summary List shift registrations
// @Description Admin only. Registrations sorted by day, shift time and role (managers first).
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListShiftRegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /shifts [get]
func (c *ShiftController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	regs, total, err := c.Allocator.ListRegistrations(r.Context(), params)
	if err != nil {
		writeError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListShiftRegistrationsResponse{
		Items:      regs,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Remove godoc
// @Summary Remove a shift registration
// @Description Admin only. Deletes one registration. Removing a manager leaves the slot's volunteers in place.
// @Tags shifts
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /shifts/{id} [delete]
func (c *ShiftController) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
		return
	}
	if err := c.Allocator.Remove(r.Context(), id); err != nil {
		writeError(w, r, c.Logger, err, "registration not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
