package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recordvault/recordvault/internal/logging"
)

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter assembles the HTTP surface. Owner routes sit behind the
// bearer-token authenticator; the share download does not.
func NewRouter(h *RecordsHandler, resolver IdentityResolver, db Pinger, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(logger))
	r.Use(Metrics())

	r.Group(func(r chi.Router) {
		r.Use(Authenticator(resolver, logger))
		r.Post("/api/upload", h.Upload)
		r.Get("/api/records", h.List)
		r.Get("/api/records/{id}", h.Download)
		r.Delete("/api/records/{id}", h.Delete)
		r.Post("/api/records/{id}/share", h.Share)
	})

	r.Get("/api/share/{token}", h.SharedDownload)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
