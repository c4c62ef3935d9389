package http

import (
	"net/http"

	"github.com/aussiebroadwan/quizdesk/internal/service"
	"github.com/aussiebroadwan/quizdesk/pkg/authsdk"
	"github.com/aussiebroadwan/quizdesk/pkg/httpx"
)

type AuthHandler struct {
	Identity *service.IdentityService
}

// Register godoc
//
//	@Summary		Register an account
//	@Description	Creates a non-staff account. Any is_staff field in the body is ignored.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest	true	"Account details"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"username or email taken"
//	@Router			/api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	_, err := h.Identity.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "User Registered"})
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Exchanges a username (or email) and password for a new opaque token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"invalid credentials"
//	@Router			/api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	issued, err := h.Identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{Token: issued.Token, IsStaff: issued.IsStaff})
}

// Me godoc
//
//	@Summary	Resolve a token
//	@Tags		Auth
//	@Security	TokenQuery
//	@Produce	json
//	@Param		token	query		string	false	"Token (or Authorization: Bearer)"
//	@Success	200		{object}	authsdk.IdentityResponse
//	@Failure	401		{object}	httpx.ErrorResponse
//	@Router		/api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := h.Identity.Resolve(r.Context(), httpx.TokenFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.IdentityResponse{
		Username:  id.Username,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		IsStaff:   id.IsStaff,
	})
}

// Validate godoc
//
//	@Summary	Check a token
//	@Tags		Auth
//	@Produce	json
//	@Param		token	query		string	false	"Token (or Authorization: Bearer)"
//	@Success	200		{object}	authsdk.ValidateResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"token missing"
//	@Router		/api/auth/validate [get]
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Identity.Validate(r.Context(), httpx.TokenFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.ValidateResponse{Valid: ok})
}

// Logout godoc
//
//	@Summary	Revoke a token
//	@Tags		Auth
//	@Security	TokenQuery
//	@Produce	json
//	@Param		token	query		string	false	"Token (or Authorization: Bearer)"
//	@Success	200		{object}	authsdk.MessageResponse
//	@Failure	401		{object}	httpx.ErrorResponse
//	@Router		/api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Identity.Logout(r.Context(), httpx.TokenFromRequest(r)); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged out"})
}
