// Package httpapi exposes the record and share services over HTTP. It is
// a thin layer: parsing, auth middleware, and error-to-status mapping;
// all rules live in the services.
package httpapi

import (
	"context"

	"github.com/recordvault/recordvault/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// ContextWithUser stores the authenticated user in the request context.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil outside the
// auth middleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
