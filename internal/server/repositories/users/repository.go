// Package users persists registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/mitienda/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns it with the assigned ID.
	// A duplicate username or email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// ExistsByUsernameOrEmail reports whether a user with the given
	// username or email is already registered (case-sensitive exact match).
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}
