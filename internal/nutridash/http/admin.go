package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/service"
	"github.com/aussiebroadwan/nutridash/pkg/dashsdk"
	"github.com/aussiebroadwan/nutridash/pkg/httpx"
	"github.com/aussiebroadwan/nutridash/pkg/idx"
)

// AdminHandler serves account management for admins.
type AdminHandler struct {
	UserService *service.UserService
}

// HandleList handles GET /v1/admin/users
//
//	@Summary	List accounts
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (max 100)"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	dashsdk.UserListResponse
//	@Failure	403		{object}	dashsdk.ErrorResponse	"insufficient_role"
//	@Router		/v1/admin/users [get].
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, total, err := h.UserService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := dashsdk.UserListResponse{Users: make([]dashsdk.UserResponse, 0, len(users)), Total: total}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /v1/admin/users
//
//	@Summary	Create an account
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dashsdk.CreateUserRequest	true	"Account"
//	@Success	201		{object}	dashsdk.UserResponse
//	@Failure	400		{object}	dashsdk.ErrorResponse
//	@Failure	409		{object}	dashsdk.ErrorResponse	"email_taken"
//	@Router		/v1/admin/users [post].
func (h *AdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req dashsdk.CreateUserRequest
	if e := httpx.DecodeJSON(w, r, &req); e != nil {
		httpx.WriteError(w, e)
		return
	}

	u, err := h.UserService.CreateUser(r.Context(), req.Email, req.Password, req.Admin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleToggleActive handles POST /v1/admin/users/{id}/toggle-active
//
//	@Summary		Enable or disable an account
//	@Description	Disabling an account also cancels its pending logins. Admins cannot toggle their own account.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	dashsdk.UserResponse
//	@Failure		400	{object}	dashsdk.ErrorResponse
//	@Failure		404	{object}	dashsdk.ErrorResponse
//	@Router			/v1/admin/users/{id}/toggle-active [post].
func (h *AdminHandler) HandleToggleActive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !idx.Valid(id) {
		httpx.WriteError(w, &httpx.APIError{StatusCode: http.StatusNotFound, Code: dashsdk.ErrorCodeNotFound, Description: "user not found"})
		return
	}

	u, err := h.UserService.ToggleActive(r.Context(), httpx.UserIDFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
