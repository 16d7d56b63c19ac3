package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/dbx"
	"github.com/dmitrijs2005/mitienda/internal/logging"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/products"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/ratings"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/users"
)

// --- shared fakes: canned outputs + error injection ---

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeRepoManager struct {
	users    users.Repository
	products products.Repository
	ratings  ratings.Repository
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository       { return m.users }
func (m *fakeRepoManager) Products(db dbx.DBTX) products.Repository { return m.products }
func (m *fakeRepoManager) Ratings(db dbx.DBTX) ratings.Repository   { return m.ratings }

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getByIDOut *models.User
	getByIDErr error

	getByUsernameOut *models.User
	getByUsernameErr error

	existsOut bool
	existsErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getByUsernameErr != nil {
		return nil, f.getByUsernameErr
	}
	return f.getByUsernameOut, nil
}

func (f *fakeUsersRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return f.existsOut, f.existsErr
}

type fakeProductsRepo struct {
	createErr error

	getByIDOut *models.Product
	getByIDErr error

	getByIDAndOwnerOut *models.Product
	getByIDAndOwnerErr error

	listOut []models.ProductWithRating
	listErr error

	listByOwnerOut []models.Product
	listByOwnerErr error

	updateErr error
	updated   *models.Product

	deleteErr error
	deleted   []int64
}

func (f *fakeProductsRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = 11
	return p, nil
}

func (f *fakeProductsRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

func (f *fakeProductsRepo) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Product, error) {
	if f.getByIDAndOwnerErr != nil {
		return nil, f.getByIDAndOwnerErr
	}
	return f.getByIDAndOwnerOut, nil
}

func (f *fakeProductsRepo) ListByPopularity(ctx context.Context) ([]models.ProductWithRating, error) {
	return f.listOut, f.listErr
}

func (f *fakeProductsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	return f.listByOwnerOut, f.listByOwnerErr
}

func (f *fakeProductsRepo) Update(ctx context.Context, p *models.Product) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = p
	return nil
}

func (f *fakeProductsRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeRatingsRepo enforces pair uniqueness atomically, like the real
// unique constraint does, so races past the Exists pre-check lose here.
type fakeRatingsRepo struct {
	mu    sync.Mutex
	pairs map[[2]int64]struct{}

	existsOut bool
	existsErr error
	countOut  int64
	countErr  error

	deletedFor []int64
}

func newFakeRatingsRepo() *fakeRatingsRepo {
	return &fakeRatingsRepo{pairs: make(map[[2]int64]struct{})}
}

func (f *fakeRatingsRepo) Create(ctx context.Context, r *models.Rating) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]int64{r.UserID, r.ProductID}
	if _, dup := f.pairs[key]; dup {
		return nil, common.ErrorAlreadyExists
	}
	f.pairs[key] = struct{}{}
	r.ID = int64(len(f.pairs))
	return r, nil
}

func (f *fakeRatingsRepo) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeRatingsRepo) CountForProduct(ctx context.Context, productID int64) (int64, error) {
	return f.countOut, f.countErr
}

func (f *fakeRatingsRepo) DeleteForProduct(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedFor = append(f.deletedFor, productID)
	return nil
}

// fakeImageStore records saves and deletes in memory.
type fakeImageStore struct {
	mu      sync.Mutex
	saved   []string
	deleted []string

	saveErr   error
	deleteErr error
	nextRef   string
}

func (f *fakeImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	ref := f.nextRef
	if ref == "" {
		ref = "ref_" + filename
	}
	f.mu.Lock()
	f.saved = append(f.saved, ref)
	f.mu.Unlock()
	return ref, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, ref string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, ref)
	f.mu.Unlock()
	return nil
}

func (f *fakeImageStore) URL(ref string) string { return "/static/images/" + ref }
