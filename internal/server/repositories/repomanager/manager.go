package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskmanager/internal/dbx"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/avatars"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so that services can
// run several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Avatars(db dbx.DBTX) avatars.Repository
}
