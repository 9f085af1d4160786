package http

import (
	"encoding/json"
	"net/http"

	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/slogx"
)

// AccountHandler handles OTP-gated account deletion.
type AccountHandler struct {
	AccountService *service.AccountService
}

// HandleDeleteRequest handles POST /v1/account/delete/request
//
//	@Summary		Request account deletion
//	@Description	Marks the account pending deletion and sends a confirmation code to the MFA channel (or email when none is chosen).
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		202	{object}	brokersdk.DeletionRequestResponse	"Where the code went"
//	@Failure		401	{object}	brokersdk.ErrorResponse				"Invalid or missing access token"
//	@Failure		410	{object}	brokersdk.ErrorResponse				"Account already deleted"
//	@Failure		429	{object}	brokersdk.ErrorResponse				"Cool-down has not elapsed"
//	@Failure		500	{object}	brokersdk.ErrorResponse				"Internal server error"
//	@Router			/v1/account/delete/request [post].
func (h *AccountHandler) HandleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	channel, err := h.AccountService.RequestDeletion(ctx, userID)
	if err != nil {
		log.Warn("deletion request failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, brokersdk.DeletionRequestResponse{Channel: string(channel)})
}

// HandleDeleteConfirm handles POST /v1/account/delete/confirm
//
//	@Summary		Confirm account deletion
//	@Description	Validates the code and deletes the account: every grant is revoked, every session terminated, the identity columns released.
//	@Description	The token used for this request stops working the moment the response is written.
//	@Tags			Account
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	brokersdk.DeletionConfirmRequest	true	"The received code"
//	@Success		204		"Account deleted"
//	@Failure		400		{object}	brokersdk.ErrorResponse	"Wrong, expired or missing code"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		409		{object}	brokersdk.ErrorResponse	"Code already used"
//	@Failure		429		{object}	brokersdk.ErrorResponse	"Too many failed attempts"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/account/delete/confirm [post].
func (h *AccountHandler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req brokersdk.DeletionConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AccountService.ConfirmDeletion(ctx, userID, req.Code); err != nil {
		log.Warn("deletion confirm failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteCancel handles POST /v1/account/delete/cancel
//
//	@Summary		Cancel a pending deletion
//	@Description	Withdraws the deletion request and invalidates the outstanding code.
//	@Tags			Account
//	@Security		BearerAuth
//	@Success		204	"Request withdrawn"
//	@Failure		400	{object}	brokersdk.ErrorResponse	"No deletion pending"
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/account/delete/cancel [post].
func (h *AccountHandler) HandleDeleteCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AccountService.CancelDeletion(ctx, userID); err != nil {
		log.Warn("deletion cancel failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
