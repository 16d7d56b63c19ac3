package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mitienda/internal/dbx"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/products"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/ratings"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Products(db dbx.DBTX) products.Repository
	Ratings(db dbx.DBTX) ratings.Repository
}
