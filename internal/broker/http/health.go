package http

import (
	"net/http"
	"time"

	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/brokersdk"
	"github.com/veilhq/veil/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 while the process is up, with uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	brokersdk.HealthResponse
//	@Router			/livez [get].
func LivezHandler(version string, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, brokersdk.HealthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).String(),
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Returns 200 when the database answers, 503 otherwise.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	brokersdk.HealthResponse
//	@Failure		503	{object}	brokersdk.HealthResponse
//	@Router			/readyz [get].
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, brokersdk.HealthResponse{
				Status: "degraded",
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, brokersdk.HealthResponse{Status: "ok"})
	}
}
