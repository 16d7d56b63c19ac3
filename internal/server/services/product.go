package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/dbx"
	"github.com/dmitrijs2005/mitienda/internal/logging"
	"github.com/dmitrijs2005/mitienda/internal/server/imagestore"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/repomanager"
)

// ProductInput carries the form fields shared by product creation and edit.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int64
}

// ProductDetail is the product page payload: the product, its rating count
// and whether the viewing user already rated it.
type ProductDetail struct {
	Product      models.Product
	RatingCount  int64
	UserHasRated bool
}

// ProductService implements listing management. Edit and delete are
// owner-gated: a non-owner gets the same common.ErrorNotFound as a caller
// naming a product that does not exist.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      imagestore.Store
	logger      logging.Logger
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, images imagestore.Store, logger logging.Logger) *ProductService {
	return &ProductService{
		db:          db,
		repomanager: m,
		images:      images,
		logger:      logger.With("module", "product_service"),
	}
}

// Create stores the uploaded image and inserts the product row. When the
// insert fails the stored image is removed again so no orphan remains.
func (s *ProductService) Create(ctx context.Context, ownerID int64, in ProductInput, imageName string, image io.Reader) (*models.Product, error) {
	if in.Name == "" || in.Description == "" || imageName == "" {
		return nil, common.ErrorValidation
	}

	ref, err := s.images.Save(ctx, imageName, image)
	if err != nil {
		return nil, fmt.Errorf("error saving image: %w", err)
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       ref,
		OwnerID:     ownerID,
	}

	product, err = s.repomanager.Products(s.db).Create(ctx, product)
	if err != nil {
		if derr := s.images.Delete(ctx, ref); derr != nil {
			s.logger.Warn(ctx, "could not remove image after failed insert", "ref", ref, "error", derr)
		}
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	return product, nil
}

// Detail returns the product page payload. viewerID is ignored unless
// authenticated is true.
func (s *ProductService) Detail(ctx context.Context, id int64, viewerID int64, authenticated bool) (*ProductDetail, error) {
	product, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ratings := s.repomanager.Ratings(s.db)

	count, err := ratings.CountForProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	hasRated := false
	if authenticated {
		hasRated, err = ratings.Exists(ctx, viewerID, id)
		if err != nil {
			return nil, err
		}
	}

	return &ProductDetail{Product: *product, RatingCount: count, UserHasRated: hasRated}, nil
}

// ListByPopularity returns all products ordered by rating count, most
// rated first.
func (s *ProductService) ListByPopularity(ctx context.Context) ([]models.ProductWithRating, error) {
	return s.repomanager.Products(s.db).ListByPopularity(ctx)
}

// ListByOwner returns the products created by the given user.
func (s *ProductService) ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	return s.repomanager.Products(s.db).ListByOwner(ctx, ownerID)
}

// GetForOwner returns the product only when it belongs to ownerID,
// otherwise common.ErrorNotFound.
func (s *ProductService) GetForOwner(ctx context.Context, id, ownerID int64) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByIDAndOwner(ctx, id, ownerID)
}

// Update edits an owner's product. A new image is optional; when supplied,
// the new file is stored first, then the row is updated, and the old file
// is removed last. If the row update fails the new file is taken back out,
// so the row never points at a missing image.
func (s *ProductService) Update(ctx context.Context, ownerID, id int64, in ProductInput, imageName string, image io.Reader) (*models.Product, error) {
	if in.Name == "" || in.Description == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Products(s.db)

	product, err := repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	oldImage := product.Image

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock

	newImage := ""
	if imageName != "" {
		newImage, err = s.images.Save(ctx, imageName, image)
		if err != nil {
			return nil, fmt.Errorf("error saving image: %w", err)
		}
		product.Image = newImage
	}

	if err := repo.Update(ctx, product); err != nil {
		if newImage != "" {
			if derr := s.images.Delete(ctx, newImage); derr != nil {
				s.logger.Warn(ctx, "could not remove image after failed update", "ref", newImage, "error", derr)
			}
		}
		return nil, err
	}

	if newImage != "" {
		if derr := s.images.Delete(ctx, oldImage); derr != nil {
			s.logger.Warn(ctx, "could not remove replaced image", "ref", oldImage, "error", derr)
		}
	}

	return product, nil
}

// Delete removes an owner's product. The ratings and the product row go
// in one transaction first, the image file last: an orphaned file is
// preferable to a product row whose image is gone.
func (s *ProductService) Delete(ctx context.Context, ownerID, id int64) error {
	product, err := s.repomanager.Products(s.db).GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Ratings(tx).DeleteForProduct(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Products(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if derr := s.images.Delete(ctx, product.Image); derr != nil {
		s.logger.Warn(ctx, "could not remove image of deleted product", "ref", product.Image, "error", derr)
	}

	return nil
}
