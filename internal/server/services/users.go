// Package services contains server-side business logic: identity
// resolution, record lifecycle, share tokens, and blob retrieval.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/dbx"
	"github.com/recordvault/recordvault/internal/logging"
	"github.com/recordvault/recordvault/internal/server/auth"
	sc "github.com/recordvault/recordvault/internal/server/config"
	"github.com/recordvault/recordvault/internal/server/models"
	"github.com/recordvault/recordvault/internal/server/repositories/repomanager"
)

// UserService resolves inbound bearer tokens to local users, creating the
// local identity row the first time an external id is seen.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.IdentitySecret),
		logger:      logger,
	}
}

// Resolve verifies the token and returns the local user for its subject.
// Verification failures of any kind collapse into ErrorUnauthenticated.
func (s *UserService) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	identity, err := auth.ParseIdentityToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthenticated
	}

	var user *models.User
	txErr := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		found, err := repo.GetByExternalID(ctx, identity.ExternalID)
		if err == nil {
			user = found
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		created, err := repo.Create(ctx, &models.User{
			ExternalID: identity.ExternalID,
			Email:      identity.Email,
			Name:       identity.Name,
		})
		if err != nil {
			return err
		}
		s.logger.Info(ctx, "created local user", "external_id", identity.ExternalID)
		user = created
		return nil
	})
	if txErr == nil {
		return user, nil
	}

	// Two requests can race on the first sight of an external id; the
	// loser of the unique constraint re-reads the winner's row.
	if user, err := s.repomanager.Users(s.db).GetByExternalID(ctx, identity.ExternalID); err == nil {
		return user, nil
	}
	return nil, txErr
}
