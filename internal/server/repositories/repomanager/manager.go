package repomanager

import (
	"context"
	"database/sql"

	"github.com/recordvault/recordvault/internal/dbx"
	"github.com/recordvault/recordvault/internal/server/repositories/records"
	"github.com/recordvault/recordvault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// use the same constructors against *sql.DB or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Records(db dbx.DBTX) records.Repository
}
