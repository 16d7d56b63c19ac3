// Package ratings persists one-per-user-per-product endorsements.
package ratings

import (
	"context"

	"github.com/dmitrijs2005/mitienda/internal/server/models"
)

type Repository interface {
	// Create inserts a rating. A duplicate (user, product) pair yields
	// common.ErrorAlreadyExists; the unique constraint is the final
	// arbiter when two requests race past the existence pre-check.
	Create(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	CountForProduct(ctx context.Context, productID int64) (int64, error)
	// DeleteForProduct removes all ratings of a product; used when the
	// product itself is deleted.
	DeleteForProduct(ctx context.Context, productID int64) error
}
