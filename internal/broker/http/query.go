package http

import (
	"net/http"

	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/slogx"
)

// QueryHandler handles the company-side contract endpoint.
type QueryHandler struct {
	PermissionService *service.PermissionService
}

// HandleAllowedFields handles GET /v1/query/{handle}/allowed-fields
//
//	@Summary		Fields a company may read
//	@Description	Given a user's pseudo handle, returns the attribute names the company is allowed to read.
//	@Description	Unknown handles and absent grants both return an empty list, so the endpoint reveals nothing about account existence.
//	@Tags			Query
//	@Produce		json
//	@Param			handle		path		string	true	"Pseudo handle"
//	@Param			company_id	query		string	true	"Company ID"
//	@Success		200			{object}	brokersdk.AllowedFieldsResponse
//	@Failure		400			{object}	brokersdk.ErrorResponse	"Missing company_id"
//	@Failure		403			{object}	brokersdk.ErrorResponse	"Company suspended"
//	@Failure		404			{object}	brokersdk.ErrorResponse	"Company not found"
//	@Failure		500			{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/query/{handle}/allowed-fields [get].
func (h *QueryHandler) HandleAllowedFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	handle := r.PathValue("handle")
	companyID := r.URL.Query().Get("company_id")
	if handle == "" || companyID == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	fields, err := h.PermissionService.AllowedFields(ctx, handle, companyID)
	if err != nil {
		log.Warn("allowed-fields query failed", "company_id", companyID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, brokersdk.AllowedFieldsResponse{Fields: fields})
}
