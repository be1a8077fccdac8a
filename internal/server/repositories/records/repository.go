// Package records declares the repository contract for persisted file
// records, the durable core of the system.
package records

import (
	"context"
	"time"

	"github.com/recordvault/recordvault/internal/server/models"
)

// Repository defines the durable operations on records.
//
// Every owner-scoped lookup matches id and owner in a single query, so
// "absent" and "owned by someone else" are the same ErrorNotFound to the
// caller. The token lookup and the token overwrite are single statements:
// the store's atomicity is what keeps concurrent issue/resolve correct.
type Repository interface {
	// Create inserts a new record.
	Create(ctx context.Context, record *models.Record) error

	// FindOwned returns the record with the given id if it belongs to
	// ownerID, ErrorNotFound otherwise.
	FindOwned(ctx context.Context, ownerID, recordID string) (*models.Record, error)

	// ListByOwner returns all records of ownerID, in no particular order.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error)

	// DeleteOwned removes the record and returns its stored name so the
	// caller can release the blob. ErrorNotFound under the same hiding
	// rule as FindOwned.
	DeleteOwned(ctx context.Context, ownerID, recordID string) (string, error)

	// SetShareToken overwrites the record's token/expiry pair in one
	// statement. Any previously issued token stops resolving the moment
	// the statement commits.
	SetShareToken(ctx context.Context, ownerID, recordID, token string, expires time.Time) error

	// FindByActiveToken returns the record whose share token equals token
	// and whose expiry is strictly after now, evaluated in a single
	// query. Unknown and expired tokens are both ErrorNotFound.
	FindByActiveToken(ctx context.Context, token string, now time.Time) (*models.Record, error)
}
