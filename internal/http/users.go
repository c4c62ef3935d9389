package http

import (
	"net/http"

	"github.com/aussiebroadwan/quizdesk/internal/service"
	"github.com/aussiebroadwan/quizdesk/internal/verifier"
	"github.com/aussiebroadwan/quizdesk/pkg/httpx"
)

type UsersHandler struct {
	Ledger   *service.LedgerService
	Verifier verifier.Verifier
}

// List godoc
//
//	@Summary	List all profiles
//	@Tags		Users
//	@Security	TokenQuery
//	@Produce	json
//	@Success	200	{array}		ProfileView
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Failure	403	{object}	httpx.ErrorResponse	"staff only"
//	@Router		/users [get]
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester, ok := authenticate(ctx, h.Verifier, w, r)
	if !ok {
		return
	}

	ps, err := h.Ledger.List(ctx, requester)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]ProfileView, len(ps))
	for i, p := range ps {
		out[i] = profileView(p)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Get godoc
//
//	@Summary	Get a profile
//	@Tags		Users
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Success	200			{object}	ProfileView
//	@Failure	404			{object}	httpx.ErrorResponse
//	@Router		/users/{username} [get]
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Ledger.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileView(p))
}

// UpdateScore godoc
//
//	@Summary		Increment own score
//	@Description	Adds a signed, non-zero increment to the caller's own score.
//	@Tags			Users
//	@Security		TokenQuery
//	@Accept			json
//	@Produce		json
//	@Param			username	path		string			true	"Username"
//	@Param			body		body		ScoreRequest	true	"Increment"
//	@Success		200			{object}	ScoreResponse
//	@Failure		400			{object}	httpx.ErrorResponse
//	@Failure		401			{object}	httpx.ErrorResponse
//	@Failure		403			{object}	httpx.ErrorResponse	"not the owner"
//	@Router			/users/{username}/score [post]
func (h *UsersHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := r.PathValue("username")

	var req ScoreRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.ScoreIncrement == 0 {
		writeBadRequest(w, "score_increment must be non-zero")
		return
	}

	identity, ok := authenticate(ctx, h.Verifier, w, r)
	if !ok {
		return
	}

	score, err := h.Ledger.Increment(ctx, identity, username, req.ScoreIncrement)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ScoreResponse{Username: username, NewScore: score, Increment: req.ScoreIncrement})
}
