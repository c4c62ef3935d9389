package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/pkg/authsdk"
	"github.com/aussiebroadwan/quizdesk/pkg/httpx"
)

// HealthzHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse
//	@Router			/healthz [get]
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{Status: "ok"})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the store and, when configured, the answer cache.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse
//	@Failure		503	{object}	authsdk.HealthResponse	"store unreachable"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, st store.Store, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := store.ReadContext(r.Context(), 2*time.Second)
		defer cancel()

		checks := &authsdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		// Cache failures are reported but never fail readiness.
		if cache != nil {
			checks.Cache = "ok"
			if err := cache.Ping(ctx); err != nil {
				checks.Cache = "error: " + err.Error()
			}
		}

		httpx.WriteJSON(w, code, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
