package http

import (
	"encoding/json"
	"net/http"

	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/slogx"
)

// CompaniesHandler handles the registry of data-consuming organisations.
type CompaniesHandler struct {
	CompanyService *service.CompanyService
}

// HandleCreate handles POST /v1/companies
//
//	@Summary		Register a company
//	@Tags			Companies
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		brokersdk.CompanyRequest	true	"Company details"
//	@Success		201		{object}	brokersdk.CompanyResponse
//	@Failure		400		{object}	brokersdk.ErrorResponse	"Missing name"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/companies [post].
func (h *CompaniesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req brokersdk.CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	c, err := h.CompanyService.Register(ctx, req.Name, req.ExternalID, req.Segment)
	if err != nil {
		log.Error("company registration failed", "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, companyView(c))
}

// HandleList handles GET /v1/companies
//
//	@Summary		List registered companies
//	@Tags			Companies
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	brokersdk.CompanyListResponse
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/companies [get].
func (h *CompaniesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	companies, err := h.CompanyService.List(ctx)
	if err != nil {
		log.Error("company list failed", "err", err)
		writeServiceError(w, err)
		return
	}

	views := make([]brokersdk.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		views = append(views, companyView(c))
	}
	httpx.WriteJSON(w, http.StatusOK, brokersdk.CompanyListResponse{Companies: views})
}
