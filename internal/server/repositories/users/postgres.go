package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/dbx"
	"github.com/recordvault/recordvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (external_id, email, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ExternalID, user.Email, user.Name).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query := `
		SELECT id, external_id, email, name, created_at FROM users
		WHERE external_id = $1
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, externalID).
		Scan(&user.ID, &user.ExternalID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
