package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/logging"
	"github.com/recordvault/recordvault/internal/server/blob"
	"github.com/recordvault/recordvault/internal/server/models"
	"github.com/recordvault/recordvault/internal/server/repositories/repomanager"
)

// RecordService owns the record lifecycle: create on upload, list, get,
// delete. Ownership is enforced here; callers only ever see ErrorNotFound
// whether a record is absent or belongs to someone else.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	logger      logging.Logger
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, logger logging.Logger) *RecordService {
	return &RecordService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger,
	}
}

// Create stores the payload first, then persists the record pointing at
// the stored name. An empty payload is rejected before anything is
// written. If the insert fails the just-written blob is removed again.
func (s *RecordService) Create(ctx context.Context, ownerID string, payload io.Reader, size int64, originalName string, metadata map[string]any) (*models.Record, error) {
	if payload == nil || size == 0 {
		return nil, common.ErrorMissingPayload
	}

	storedName, err := s.blobs.Put(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("error storing payload: %w", err)
	}

	record := &models.Record{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		StoredName:   storedName,
		OriginalName: originalName,
		UploadDate:   time.Now(),
		Metadata:     metadata,
	}

	repo := s.repomanager.Records(s.db)
	if err := repo.Create(ctx, record); err != nil {
		if _, delErr := s.blobs.Delete(ctx, storedName); delErr != nil {
			s.logger.Error(ctx, "orphaned blob after failed record insert",
				"stored_name", storedName, "error", delErr)
		}
		return nil, fmt.Errorf("error creating record: %w", err)
	}

	return record, nil
}

// List returns all records of ownerID. No ordering is guaranteed; callers
// that need one sort themselves.
func (s *RecordService) List(ctx context.Context, ownerID string) ([]*models.Record, error) {
	return s.repomanager.Records(s.db).ListByOwner(ctx, ownerID)
}

// Get returns the record when it exists and belongs to ownerID.
func (s *RecordService) Get(ctx context.Context, ownerID, recordID string) (*models.Record, error) {
	return s.repomanager.Records(s.db).FindOwned(ctx, ownerID, recordID)
}

// Delete removes the record row first, then the blob. Once the row is
// gone the delete is final for the caller: a failed blob removal is
// logged as a consistency anomaly for out-of-band cleanup, not returned.
func (s *RecordService) Delete(ctx context.Context, ownerID, recordID string) error {
	storedName, err := s.repomanager.Records(s.db).DeleteOwned(ctx, ownerID, recordID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting record: %w", err)
	}

	existed, delErr := s.blobs.Delete(ctx, storedName)
	switch {
	case delErr != nil:
		s.logger.Error(ctx, "blob delete failed after record delete",
			"record_id", recordID, "stored_name", storedName, "error", delErr)
	case !existed:
		s.logger.Warn(ctx, "record referenced a missing blob",
			"record_id", recordID, "stored_name", storedName)
	}
	return nil
}
