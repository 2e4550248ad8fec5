package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"campregistration/internal/delivery/http/helpers"
	"campregistration/internal/domain"
)

// CreateMemberRequest is the request body for POST /members.
type CreateMemberRequest struct {
	Name  string `json:"name" example:"Alice"`
	Email string `json:"email" example:"alice@example.org"`
}

// Validate implements Validator.
func (m CreateMemberRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(m.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// UpdateMemberRequest is the request body for PATCH /admin/members/{id}. Both fields are optional.
type UpdateMemberRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Validate implements Validator.
func (m UpdateMemberRequest) Validate() []string {
	if m.Name == nil && m.Email == nil {
		return []string{"name or email is required"}
	}
	return nil
}

// SetApprovalRequest is the request body for PATCH /admin/members/{id}/approval.
type SetApprovalRequest struct {
	Approved *bool `json:"approved"`
}

// Validate implements Validator.
func (m SetApprovalRequest) Validate() []string {
	if m.Approved == nil {
		return []string{"approved is required"}
	}
	return nil
}

// MemberSuccessResponse is the success envelope for single-member responses.
type MemberSuccessResponse struct {
	Data  *domain.Member    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMembersResponse is the paginated list of members.
type ListMembersResponse struct {
	Items      []*domain.Member       `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListMembersSuccessResponse is the success envelope for GET /admin/members (200).
type ListMembersSuccessResponse struct {
	Data  ListMembersResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// MemberController handles the member directory endpoints.
type MemberController struct {
	Logger  *slog.Logger
	Service domain.MemberService
}

func NewMemberController(logger *slog.Logger, svc domain.MemberService) *MemberController {
	return &MemberController{Logger: logger, Service: svc}
}

// memberID returns the {id} path value, writing 404 when it is not a UUID.
func memberID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "member not found")
		return "", false
	}
	return id, true
}

// Create godoc
// @Summary Sign up as a camp member
// @Description Creates an unapproved member. A camp organizer must approve the member before they can register for shifts.
// @Tags members
// @Accept json
// @Produce json
// @Param body body CreateMemberRequest true "Member"
// @Success 201 {object} controllers.MemberSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /members [post]
func (c *MemberController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Service.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, r, c.Logger, err, "member not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, m)
}

// GetByID godoc
// @Summary Get a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} controllers.MemberSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /members/{id} [get]
func (c *MemberController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}
	m, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, c.Logger, err, "member not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// List godoc
// @Summary List members
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListMembersSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/members [get]
func (c *MemberController) List(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	members, total, err := c.Service.List(r.Context(), params)
	if err != nil {
		writeError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMembersResponse{
		Items:      members,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Update godoc
// @Summary Update a member
// @Description Changes name and/or email. Existing shift registrations keep the name and email they were made with.
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body UpdateMemberRequest true "Fields to update"
// @Success 200 {object} controllers.MemberSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /admin/members/{id} [patch]
func (c *MemberController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Service.Update(r.Context(), id, req.Name, req.Email)
	if err != nil {
		writeError(w, r, c.Logger, err, "member not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// SetApproval godoc
// @Summary Approve or unapprove a member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body SetApprovalRequest true "Approval"
// @Success 200 {object} controllers.MemberSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/members/{id}/approval [patch]
func (c *MemberController) SetApproval(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}
	var req SetApprovalRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Service.SetApproval(r.Context(), id, *req.Approved)
	if err != nil {
		writeError(w, r, c.Logger, err, "member not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// Delete godoc
// @Summary Delete a member
// @Description Shift registrations made by the member are kept.
// @Tags members
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/members/{id} [delete]
func (c *MemberController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.Logger, err, "member not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
