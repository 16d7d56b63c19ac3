package ratings

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/dbx"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {

	query :=
		`INSERT INTO ratings (user_id, product_id)
         VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, rating.UserID, rating.ProductID).Scan(&rating.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rating, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM ratings WHERE user_id = $1 AND product_id = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) CountForProduct(ctx context.Context, productID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM ratings WHERE product_id = $1`

	var count int64
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) DeleteForProduct(ctx context.Context, productID int64) error {
	query := `DELETE FROM ratings WHERE product_id = $1`

	if _, err := r.db.ExecContext(ctx, query, productID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
