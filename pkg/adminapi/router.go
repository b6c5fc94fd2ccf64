// Package adminapi implements the hub's fleet-operator HTTP surface: the
// thin, in-process bridge hubctl talks to for fleet listing and command
// fan-out, using the same chi router/middleware shape as pkg/hubapi.NewRouter.
package adminapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/command"
	"github.com/arcadefleet/hub/pkg/devicereg"
)

// NewRouter builds the admin HTTP surface used by cmd/hubctl. token, if
// non-empty, is required as a bearer token on every request (a static
// shared operator secret, distinct from the per-device tokens
// pkg/hubapi/devicetoken issues).
func NewRouter(devices *devicereg.Registry, executor *command.Executor, token string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSONOK(w, map[string]string{"status": "ok"})
	})

	h := NewHandlers(devices, executor)

	r.Route("/api/admin", func(r chi.Router) {
		if token != "" {
			r.Use(bearerAuth(token))
		}
		r.Get("/devices", h.ListDevices)
		r.Post("/commands/launch", h.Launch)
		r.Post("/commands/volume", h.SetVolume)
		r.Post("/commands/close-all", h.CloseAll)
		r.Post("/commands/shutdown", h.Shutdown)
	})

	return r
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := extractBearerToken(r)
			if got == "" || got != token {
				writeJSON(w, http.StatusUnauthorized, errorBody{"missing or invalid operator token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return ""
	}
	return h[len(prefix):]
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("admin API request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			logger.DurationMs(float64(time.Since(start).Microseconds())/1000),
		)
	})
}
