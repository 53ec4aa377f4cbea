package http

import (
	"net/http"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/service"
	"github.com/aussiebroadwan/nutridash/pkg/dashsdk"
	"github.com/aussiebroadwan/nutridash/pkg/httpx"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"
)

// AuthHandler serves the two login steps.
type AuthHandler struct {
	AuthService  *service.AuthService
	TokenService *service.TokenService
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Checks the password and emails a 6 digit code valid for 10 minutes. The returned pending token must be sent with the code to /v1/auth/two-factor.
//	@Description	Five wrong passwords block the account for 15 minutes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dashsdk.LoginRequest	true	"Credentials"
//	@Success		202		{object}	dashsdk.LoginResponse	"Code sent"
//	@Failure		400		{object}	dashsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	dashsdk.ErrorResponse	"invalid_credentials"
//	@Failure		403		{object}	dashsdk.ErrorResponse	"account_disabled"
//	@Failure		423		{object}	dashsdk.ErrorResponse	"account_blocked"
//	@Failure		429		{object}	dashsdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req dashsdk.LoginRequest
	if e := httpx.DecodeJSON(w, r, &req); e != nil {
		httpx.WriteError(w, e)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, httpx.BadRequest("email and password are required"))
		return
	}

	res, err := h.AuthService.Login(r.Context(), service.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: httpx.IPKeyExtractor(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusAccepted, dashsdk.LoginResponse{
		TwoFactorRequired: true,
		PendingToken:      res.PendingToken,
		ExpiresAt:         res.ExpiresAt,
	})
}

// HandleTwoFactor handles POST /v1/auth/two-factor
//
//	@Summary		Complete login with the emailed code
//	@Description	Exchanges the pending token and code for a session token. 400 errors may be retried with the same pending token; 410 errors require a new login.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dashsdk.TwoFactorRequest	true	"Pending token and code"
//	@Success		200		{object}	dashsdk.TokenResponse		"Session token"
//	@Failure		400		{object}	dashsdk.ErrorResponse		"invalid_code, no_active_code"
//	@Failure		410		{object}	dashsdk.ErrorResponse		"code_expired, code_already_used, pending_auth_not_found, too_many_attempts"
//	@Failure		429		{object}	dashsdk.ErrorResponse		"Rate limited"
//	@Router			/v1/auth/two-factor [post].
func (h *AuthHandler) HandleTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dashsdk.TwoFactorRequest
	if e := httpx.DecodeJSON(w, r, &req); e != nil {
		httpx.WriteError(w, e)
		return
	}
	if req.PendingToken == "" || req.Code == "" {
		httpx.WriteError(w, httpx.BadRequest("pending_token and code are required"))
		return
	}

	userID, err := h.AuthService.CompleteTwoFactor(ctx, req.PendingToken, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	tok, err := h.TokenService.IssueSession(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("session issued", "user_id", userID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, dashsdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
	})
}
