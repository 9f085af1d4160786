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

// PermissionsHandler handles the user-side consent ledger.
type PermissionsHandler struct {
	PermissionService *service.PermissionService
}

// HandleAssign handles POST /v1/permissions
//
//	@Summary		Grant a company access to fields
//	@Description	Creates or replaces the grant for a company. At least one field must be allowed.
//	@Tags			Permissions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		brokersdk.PermissionRequest	true	"Company and fields"
//	@Success		201		{object}	brokersdk.PermissionResponse
//	@Failure		400		{object}	brokersdk.ErrorResponse	"No fields selected"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	brokersdk.ErrorResponse	"Account not fully verified or company suspended"
//	@Failure		404		{object}	brokersdk.ErrorResponse	"Company not found"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/permissions [post].
func (h *PermissionsHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req brokersdk.PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompanyID == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	grant, err := h.PermissionService.Assign(ctx, userID, req.CompanyID,
		req.EmailAllowed, req.PhoneAllowed, req.IDNumberAllowed)
	if err != nil {
		log.Warn("permission assign rejected", "user_id", userID, "company_id", req.CompanyID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, permissionView(grant))
}

// HandleList handles GET /v1/permissions
//
//	@Summary		List the user's grants
//	@Tags			Permissions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	brokersdk.PermissionListResponse
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	brokersdk.ErrorResponse	"Account not fully verified"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/permissions [get].
func (h *PermissionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	grants, err := h.PermissionService.ListForUser(ctx, userID)
	if err != nil {
		log.Error("permission list failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	views := make([]brokersdk.PermissionResponse, 0, len(grants))
	for _, g := range grants {
		views = append(views, permissionView(g))
	}
	httpx.WriteJSON(w, http.StatusOK, brokersdk.PermissionListResponse{Permissions: views})
}

// HandleUpdate handles PATCH /v1/permissions/{id}
//
//	@Summary		Update a grant
//	@Description	Applies a partial change to the grant's fields. Clearing the last field removes the grant; the response is then 204.
//	@Tags			Permissions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Grant ID"
//	@Param			request	body		brokersdk.PermissionPatchRequest	true	"Fields to change"
//	@Success		200		{object}	brokersdk.PermissionResponse
//	@Success		204		"Grant removed because no field remained"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	brokersdk.ErrorResponse	"Account not fully verified"
//	@Failure		404		{object}	brokersdk.ErrorResponse	"Grant not found"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/permissions/{id} [patch].
func (h *PermissionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}
	grantID := r.PathValue("id")

	var req brokersdk.PermissionPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// The route carries the grant id, but the service keys on
	// (user, company) so the acting user can only touch their own rows.
	grant, err := h.PermissionService.Get(ctx, userID, grantID)
	if err != nil {
		log.Warn("permission lookup failed", "user_id", userID, "grant_id", grantID, "err", err)
		writeServiceError(w, err)
		return
	}

	updated, err := h.PermissionService.Update(ctx, userID, grant.CompanyID, domain.PermissionFields{
		EmailAllowed:    req.EmailAllowed,
		PhoneAllowed:    req.PhoneAllowed,
		IDNumberAllowed: req.IDNumberAllowed,
	})
	if err != nil {
		log.Warn("permission update rejected", "user_id", userID, "grant_id", grantID, "err", err)
		writeServiceError(w, err)
		return
	}

	if updated.ID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, permissionView(updated))
}

// HandleRevoke handles DELETE /v1/permissions/{companyID}
//
//	@Summary		Revoke the grant for one company
//	@Description	Removes the grant. Revoking an absent grant succeeds.
//	@Tags			Permissions
//	@Security		BearerAuth
//	@Param			companyID	path	string	true	"Company ID"
//	@Success		204			"Grant removed"
//	@Failure		401			{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403			{object}	brokersdk.ErrorResponse	"Account not fully verified"
//	@Failure		500			{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/permissions/{companyID} [delete].
func (h *PermissionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.PermissionService.Revoke(ctx, userID, r.PathValue("companyID")); err != nil {
		log.Warn("permission revoke failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeAll handles DELETE /v1/permissions
//
//	@Summary		Revoke every grant
//	@Description	Removes all grants the user holds. Idempotent.
//	@Tags			Permissions
//	@Security		BearerAuth
//	@Success		204	"All grants removed"
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	brokersdk.ErrorResponse	"Account not fully verified"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/permissions [delete].
func (h *PermissionsHandler) HandleRevokeAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.PermissionService.RevokeAll(ctx, userID); err != nil {
		log.Error("revoke all failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
