// Package users declares the repository contract for the local identity
// cache populated by the identity resolver.
package users

import (
	"context"

	"github.com/recordvault/recordvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new user row and returns it with the generated id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByExternalID looks a user up by the identity provider's subject
	// id, returning ErrorNotFound when the id has never been seen.
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
}
