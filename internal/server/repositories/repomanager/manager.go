package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/backoffice/internal/dbx"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/settings"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Settings(db dbx.DBTX) settings.Repository
}
