package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/recordvault/recordvault/internal/logging"
	"github.com/recordvault/recordvault/internal/server/models"
)

// IdentityResolver turns a bearer token into a local user, lazily
// creating the row on first sight. Implemented by services.UserService.
type IdentityResolver interface {
	Resolve(ctx context.Context, tokenString string) (*models.User, error)
}

// Authenticator extracts the Authorization bearer token and resolves the
// caller. Requests without a valid identity never reach the handlers.
func Authenticator(resolver IdentityResolver, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			user, err := resolver.Resolve(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}
