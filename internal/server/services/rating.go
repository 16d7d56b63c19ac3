package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/repomanager"
)

// RatingService enforces the one-rating-per-user-per-product invariant.
type RatingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRatingService(db *sql.DB, m repomanager.RepositoryManager) *RatingService {
	return &RatingService{db: db, repomanager: m}
}

// Rate records userID's endorsement of productID.
//
// The product must exist (common.ErrorNotFound otherwise) and the pair
// must not be rated yet (common.ErrorAlreadyExists). The existence
// pre-check only improves the error message; when two requests for the
// same pair race past it, the unique constraint rejects the loser and
// that rejection surfaces as the same common.ErrorAlreadyExists.
func (s *RatingService) Rate(ctx context.Context, userID, productID int64) (*models.Rating, error) {
	if _, err := s.repomanager.Products(s.db).GetByID(ctx, productID); err != nil {
		return nil, err
	}

	ratings := s.repomanager.Ratings(s.db)

	exists, err := ratings.Exists(ctx, userID, productID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	return ratings.Create(ctx, &models.Rating{UserID: userID, ProductID: productID})
}
