package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/logging"
	"github.com/recordvault/recordvault/internal/server/blob"
	"github.com/recordvault/recordvault/internal/server/models"
)

// RetrievalService is where the owner path and the token path converge on
// the same blob stream. Each path keeps its own error vocabulary: the
// owner path fails with ErrorNotFound, the token path with
// ErrorInvalidOrExpiredToken, even when the underlying cause is the same
// missing blob.
type RetrievalService struct {
	records *RecordService
	shares  *ShareService
	blobs   blob.Store
	logger  logging.Logger
}

func NewRetrievalService(records *RecordService, shares *ShareService, blobs blob.Store, logger logging.Logger) *RetrievalService {
	return &RetrievalService{
		records: records,
		shares:  shares,
		blobs:   blobs,
		logger:  logger,
	}
}

// FetchAsOwner streams a record's contents for its owner.
func (s *RetrievalService) FetchAsOwner(ctx context.Context, ownerID, recordID string) (string, io.ReadCloser, error) {
	record, err := s.records.Get(ctx, ownerID, recordID)
	if err != nil {
		return "", nil, err
	}
	return s.openBlob(ctx, record, common.ErrorNotFound)
}

// FetchByToken streams a record's contents for any holder of a valid
// share token.
func (s *RetrievalService) FetchByToken(ctx context.Context, token string) (string, io.ReadCloser, error) {
	record, err := s.shares.Resolve(ctx, token)
	if err != nil {
		return "", nil, err
	}
	return s.openBlob(ctx, record, common.ErrorInvalidOrExpiredToken)
}

// openBlob opens the stored object. A dangling stored name is reported as
// the path's own not-found kind, never as a server fault, but it is an
// inconsistency worth an alarm in the log.
func (s *RetrievalService) openBlob(ctx context.Context, record *models.Record, missingErr error) (string, io.ReadCloser, error) {
	stream, err := s.blobs.Get(ctx, record.StoredName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "record references a missing blob",
				"record_id", record.ID, "stored_name", record.StoredName)
			return "", nil, missingErr
		}
		return "", nil, fmt.Errorf("error opening blob: %w", err)
	}
	return record.OriginalName, stream, nil
}
