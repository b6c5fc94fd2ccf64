// Package hubapi implements the hub's HTTP surface that the distributor
// depends on (SPEC_FULL.md §4.7), grounded on the teacher's chi router
// (pkg/controlplane/api.NewRouter): same middleware stack and route-group
// shape, trimmed to four unauthenticated-by-path-shape, device-token-
// authenticated routes instead of the teacher's full admin CRUD surface.
package hubapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arcadefleet/hub/internal/cli/health"
	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/artifactstore"
	"github.com/arcadefleet/hub/pkg/hubapi/devicetoken"
)

// NewRouter builds the hub's HTTP surface. tokens may be nil, in which case
// DeviceAuth is skipped entirely — useful for local-dev and tests that don't
// exercise token issuance.
func NewRouter(assignments *AssignmentStore, artifacts artifactstore.Store, tokens *devicetoken.Service) http.Handler {
	r := chi.NewRouter()
	startedAt := time.Now()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(startedAt)
		resp := health.Response{Status: "ok", Timestamp: time.Now().UTC().Format(time.RFC3339)}
		resp.Data.Service = "arcade-hub"
		resp.Data.StartedAt = startedAt.UTC().Format(time.RFC3339)
		resp.Data.Uptime = uptime.String()
		resp.Data.UptimeSec = int64(uptime.Seconds())
		writeJSONOK(w, resp)
	})

	h := NewHandlers(assignments, artifacts)

	r.Route("/api/arcade", func(r chi.Router) {
		if tokens != nil {
			r.Use(DeviceAuth(tokens))
		}
		r.Get("/games", h.ListGames)
		r.Get("/games/{gameID}/download", h.DownloadGame)
		r.Post("/games/{gameID}/status", h.ReportStatus)
		r.Get("/snorlax/latest", h.LatestClientRelease)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("hub API request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			logger.DurationMs(float64(time.Since(start).Microseconds())/1000),
		)
	})
}
