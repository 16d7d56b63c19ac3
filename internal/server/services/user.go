// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and user lookups for the
// authentication gate.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/cryptox"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/repomanager"
)

// UserService provides account-related operations:
// - Register: create users (with duplicate username/email protection)
// - Login: verify credentials
// - GetByID: resolve the current user for the authentication gate
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewUserService constructs a UserService using repositories.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Register creates a new user with a bcrypt-hashed password.
//
// The pre-check against existing username/email (case-sensitive exact
// match) gives a friendly conflict message; the storage unique constraints
// remain the authority when two registrations race, so Create may still
// return common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password, whatsapp string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	digest, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: digest,
		Whatsapp:       whatsapp,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the provided password against the stored digest.
// An unknown username and a wrong password are indistinguishable to the
// caller: both return common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.HashedPassword) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// GetByID returns the user with the given id or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}
