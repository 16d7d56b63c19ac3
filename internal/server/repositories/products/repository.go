// Package products persists marketplace listings.
package products

import (
	"context"

	"github.com/dmitrijs2005/mitienda/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// GetByIDAndOwner returns the product only when it exists AND belongs
	// to ownerID; both a missing product and a foreign owner surface
	// common.ErrorNotFound, so callers cannot tell the cases apart.
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Product, error)
	// ListByPopularity returns all products with their rating counts,
	// most rated first; equal counts are ordered by ascending id.
	ListByPopularity(ctx context.Context) ([]models.ProductWithRating, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}
