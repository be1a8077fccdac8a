package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/dbx"
	"github.com/recordvault/recordvault/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recordColumns = `id, owner_id, stored_name, original_name, upload_date, metadata, share_token, share_token_expires`

// Create inserts a new record row. Metadata is persisted as jsonb; a nil
// map is stored as an empty object.
func (r *PostgresRepository) Create(ctx context.Context, record *models.Record) error {
	meta, err := marshalMetadata(record.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO records (id, owner_id, stored_name, original_name, upload_date, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.OwnerID, record.StoredName, record.OriginalName, record.UploadDate, meta); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindOwned returns the record only when both id and owner match, so a
// guessed id belonging to someone else is indistinguishable from an
// absent one.
func (r *PostgresRepository) FindOwned(ctx context.Context, ownerID, recordID string) (*models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = $1 AND owner_id = $2
	`
	return r.scanRecord(r.db.QueryRowContext(ctx, query, recordID, ownerID))
}

// ListByOwner returns all records of ownerID. No ordering is guaranteed.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE owner_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		item, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteOwned deletes in a single statement and returns the stored name of
// the removed blob. Zero rows affected means ErrorNotFound, whether the
// record never existed or belongs to another owner.
func (r *PostgresRepository) DeleteOwned(ctx context.Context, ownerID, recordID string) (string, error) {
	query := `
		DELETE FROM records
		WHERE id = $1 AND owner_id = $2
		RETURNING stored_name
	`
	var storedName string
	if err := r.db.QueryRowContext(ctx, query, recordID, ownerID).Scan(&storedName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return storedName, nil
}

// SetShareToken replaces the token/expiry pair atomically. A concurrent
// resolve sees either the old pair or the new one, never a mix.
func (r *PostgresRepository) SetShareToken(ctx context.Context, ownerID, recordID, token string, expires time.Time) error {
	query := `
		UPDATE records
		SET share_token = $3, share_token_expires = $4
		WHERE id = $1 AND owner_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, recordID, ownerID, token, expires)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// FindByActiveToken is the single logical token-and-expiry check: the
// expiry predicate runs in the same statement as the token match, closing
// the gap between "token found" and "token still valid".
func (r *PostgresRepository) FindByActiveToken(ctx context.Context, token string, now time.Time) (*models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE share_token = $1 AND share_token_expires > $2
	`
	return r.scanRecord(r.db.QueryRowContext(ctx, query, token, now))
}

func (r *PostgresRepository) scanRecord(row *sql.Row) (*models.Record, error) {
	item := &models.Record{}
	var meta []byte
	err := row.Scan(&item.ID, &item.OwnerID, &item.StoredName, &item.OriginalName,
		&item.UploadDate, &meta, &item.ShareToken, &item.ShareTokenExpires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := unmarshalMetadata(meta, item); err != nil {
		return nil, err
	}
	return item, nil
}

func scanRecordRow(rows *sql.Rows) (*models.Record, error) {
	item := &models.Record{}
	var meta []byte
	err := rows.Scan(&item.ID, &item.OwnerID, &item.StoredName, &item.OriginalName,
		&item.UploadDate, &meta, &item.ShareToken, &item.ShareTokenExpires)
	if err != nil {
		return nil, err
	}
	if err := unmarshalMetadata(meta, item); err != nil {
		return nil, err
	}
	return item, nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return b, nil
}

func unmarshalMetadata(b []byte, item *models.Record) error {
	item.Metadata = map[string]any{}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &item.Metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return nil
}
