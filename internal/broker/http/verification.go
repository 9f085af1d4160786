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

// VerificationHandler handles the per-channel verification flow.
type VerificationHandler struct {
	VerificationService *service.VerificationService
}

// HandleRequest handles POST /v1/verification/{channel}/request
//
//	@Summary		Request a verification code
//	@Description	Sends a one-time code to the channel's contact on file. A fresh request supersedes any outstanding code.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Param			channel	path	string	true	"Channel"	Enums(email, phone)
//	@Success		202		"Code sent"
//	@Failure		400		{object}	brokersdk.ErrorResponse	"Unknown channel or no contact on file"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		409		{object}	brokersdk.ErrorResponse	"Channel already verified"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/verification/{channel}/request [post].
func (h *VerificationHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}
	channel := domain.Channel(r.PathValue("channel"))

	if err := h.VerificationService.RequestChannelVerification(ctx, userID, channel); err != nil {
		log.Warn("verification request failed", "user_id", userID, "channel", channel, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// HandleResend handles POST /v1/verification/{channel}/resend
//
//	@Summary		Resend a verification code
//	@Description	Replaces the outstanding code, subject to a cool-down since the last issue.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Param			channel	path	string	true	"Channel"	Enums(email, phone)
//	@Success		202		"Code sent"
//	@Failure		400		{object}	brokersdk.ErrorResponse	"Unknown channel or no contact on file"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		409		{object}	brokersdk.ErrorResponse	"Channel already verified"
//	@Failure		429		{object}	brokersdk.ErrorResponse	"Cool-down has not elapsed"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/verification/{channel}/resend [post].
func (h *VerificationHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}
	channel := domain.Channel(r.PathValue("channel"))

	if err := h.VerificationService.ResendChannelVerification(ctx, userID, channel); err != nil {
		log.Warn("verification resend failed", "user_id", userID, "channel", channel, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// HandleConfirm handles POST /v1/verification/{channel}/confirm
//
//	@Summary		Confirm a verification code
//	@Description	Validates the code and marks the channel verified. The response carries the updated aggregate state.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			channel	path		string								true	"Channel"	Enums(email, phone)
//	@Param			request	body		brokersdk.VerificationCodeRequest	true	"The received code"
//	@Success		200		{object}	brokersdk.VerificationStatusResponse
//	@Failure		400		{object}	brokersdk.ErrorResponse	"Wrong, expired or missing code"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		409		{object}	brokersdk.ErrorResponse	"Channel already verified or code already used"
//	@Failure		429		{object}	brokersdk.ErrorResponse	"Too many failed attempts"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/verification/{channel}/confirm [post].
func (h *VerificationHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}
	channel := domain.Channel(r.PathValue("channel"))

	var req brokersdk.VerificationCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	status, err := h.VerificationService.SubmitChannelCode(ctx, userID, req.Code, channel)
	if err != nil {
		log.Warn("verification confirm failed", "user_id", userID, "channel", channel, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusView(status))
}

// HandleStatus handles GET /v1/verification/status
//
//	@Summary		Verification status
//	@Description	Reports the per-channel flags and the aggregate state derived from them.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	brokersdk.VerificationStatusResponse
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/verification/status [get].
func (h *VerificationHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	status, err := h.VerificationService.Status(ctx, userID)
	if err != nil {
		log.Error("status lookup failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusView(status))
}
