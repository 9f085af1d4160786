package http

import (
	"encoding/json"
	"net/http"

	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/slogx"
)

// ProfileHandler exposes the user's own record.
type ProfileHandler struct {
	UserService *service.UserService
}

// HandleGet handles GET /v1/profile
//
//	@Summary		Read the profile
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	brokersdk.ProfileResponse
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	u, err := h.UserService.Get(ctx, userID)
	if err != nil {
		log.Error("profile lookup failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileView(u))
}

// HandleUpdate handles PUT /v1/profile
//
//	@Summary		Complete the profile
//	@Description	Fills in fields onboarding left empty, typically the phone and national ID after a social signup. Empty fields are left untouched.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		brokersdk.ProfileUpdateRequest	true	"Fields to fill in"
//	@Success		200		{object}	brokersdk.ProfileResponse
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		409		{object}	brokersdk.ErrorResponse	"Phone number already registered"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/profile [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req brokersdk.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.CompleteProfile(ctx, userID, req.Phone, req.IDNumber, req.DisplayName)
	if err != nil {
		log.Warn("profile update failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileView(u))
}
