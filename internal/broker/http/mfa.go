package http

import (
	"encoding/json"
	"net/http"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/slogx"
)

// MFAHandler handles the second-factor channel preference.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleSet handles PUT /v1/mfa/preference
//
//	@Summary		Choose the second-factor channel
//	@Description	Records the one-time choice of MFA channel. Requires a fully verified account; the choice cannot be changed through the API.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	brokersdk.MFAPreferenceRequest	true	"The channel"
//	@Success		204		"Preference recorded"
//	@Failure		400		{object}	brokersdk.ErrorResponse	"Unknown channel"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	brokersdk.ErrorResponse	"Account not fully verified"
//	@Failure		409		{object}	brokersdk.ErrorResponse	"Preference already chosen"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/mfa/preference [put].
func (h *MFAHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req brokersdk.MFAPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.MFAService.SetPreference(ctx, userID, domain.Channel(req.Channel)); err != nil {
		log.Warn("mfa preference rejected", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /v1/mfa/preference
//
//	@Summary		Read the second-factor channel
//	@Description	Returns the chosen channel, empty until one has been set.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	brokersdk.MFAPreferenceResponse
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/mfa/preference [get].
func (h *MFAHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	channel, err := h.MFAService.Preference(ctx, userID)
	if err != nil {
		log.Error("mfa preference lookup failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, brokersdk.MFAPreferenceResponse{Channel: string(channel)})
}
