package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/logging"
	sc "github.com/recordvault/recordvault/internal/server/config"
	"github.com/recordvault/recordvault/internal/server/models"
	"github.com/recordvault/recordvault/internal/server/repositories/repomanager"
)

// shareTokenBytes is the entropy of a share token: 16 random bytes render
// to 32 hex characters, 128 bits.
const shareTokenBytes = 16

// ShareService issues and resolves expiring share tokens. A record holds
// at most one token; issuing replaces the pair in a single statement, and
// resolution checks token and expiry in a single query, so there is no
// window where a stale token resolves.
type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	defaultTTL  time.Duration
	logger      logging.Logger

	// now is a seam for expiry tests.
	now func() time.Time
}

func NewShareService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ShareService {
	return &ShareService{
		db:          db,
		repomanager: m,
		defaultTTL:  cfg.DefaultShareTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Issue mints a fresh token for the record and returns it with its expiry.
// A non-positive ttl means the configured default. Any previously issued
// token stops resolving the moment the update lands.
func (s *ShareService) Issue(ctx context.Context, ownerID, recordID string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	token, err := common.MakeRandHexString(shareTokenBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error generating token: %w", err)
	}
	expires := s.now().Add(ttl)

	repo := s.repomanager.Records(s.db)
	if err := repo.SetShareToken(ctx, ownerID, recordID, token, expires); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", time.Time{}, common.ErrorNotFound
		}
		return "", time.Time{}, fmt.Errorf("error saving token: %w", err)
	}

	s.logger.Info(ctx, "share token issued", "record_id", recordID, "expires", expires)
	return token, expires, nil
}

// Resolve returns the record behind a still-valid token. Unknown and
// expired tokens are the same ErrorInvalidOrExpiredToken; nothing about
// which case it was leaks to the caller.
func (s *ShareService) Resolve(ctx context.Context, token string) (*models.Record, error) {
	if token == "" {
		return nil, common.ErrorInvalidOrExpiredToken
	}

	repo := s.repomanager.Records(s.db)
	record, err := repo.FindByActiveToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("error resolving token: %w", err)
	}
	return record, nil
}
