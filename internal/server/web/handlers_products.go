package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
	"github.com/dmitrijs2005/mitienda/internal/server/services"
	"github.com/gorilla/mux"
)

const maxUploadSize = 10 << 20

type indexPage struct {
	Products []models.ProductWithRating
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListByPopularity(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", "", indexPage{Products: products})
}

func (s *Server) handleAddProductForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	s.render(w, r, http.StatusOK, "add_product.html", "", nil)
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	in, imageName, image, msg := s.parseProductForm(r, true)
	if msg != "" {
		s.render(w, r, http.StatusOK, "add_product.html", msg, nil)
		return
	}
	defer image.Close()

	if _, err := s.products.Create(r.Context(), user.ID, in, imageName, image); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			s.render(w, r, http.StatusOK, "add_product.html", "All fields are required", nil)
			return
		}
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

type productPage struct {
	Product      models.Product
	RatingCount  int64
	UserHasRated bool
	IsOwner      bool
}

func (s *Server) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	user, authenticated := userFromContext(r.Context())
	var viewerID int64
	if authenticated {
		viewerID = user.ID
	}

	detail, err := s.products.Detail(r.Context(), id, viewerID, authenticated)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "product_detail.html", "", productPage{
		Product:      detail.Product,
		RatingCount:  detail.RatingCount,
		UserHasRated: detail.UserHasRated,
		IsOwner:      authenticated && detail.Product.OwnerID == user.ID,
	})
}

type editProductPage struct {
	Product models.Product
}

func (s *Server) handleEditProductForm(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)

	product, err := s.products.GetForOwner(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "edit_product.html", "", editProductPage{Product: *product})
}

func (s *Server) handleEditProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)

	in, imageName, image, msg := s.parseProductForm(r, false)
	if msg != "" {
		s.render(w, r, http.StatusOK, "edit_product.html", msg, editProductPage{Product: models.Product{ID: id}})
		return
	}
	if image != nil {
		defer image.Close()
	}

	var reader io.Reader
	if image != nil {
		reader = image
	}

	product, err := s.products.Update(r.Context(), user.ID, id, in, imageName, reader)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			s.renderNotFound(w, r)
		case errors.Is(err, common.ErrorValidation):
			s.render(w, r, http.StatusOK, "edit_product.html", "All fields are required", editProductPage{Product: models.Product{ID: id}})
		default:
			s.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/product/%d", product.ID), http.StatusFound)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)

	if err := s.products.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleRateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)

	if _, err := s.ratings.Rate(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			s.renderNotFound(w, r)
		case errors.Is(err, common.ErrorAlreadyExists):
			http.Error(w, "you have already rated this product", http.StatusConflict)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/product/%d", id), http.StatusFound)
}

// parseProductForm reads the multipart product form. The image part is
// required for creation and optional for edits; a non-empty msg means the
// form should be re-rendered with it.
func (s *Server) parseProductForm(r *http.Request, imageRequired bool) (services.ProductInput, string, io.ReadCloser, string) {
	var in services.ProductInput

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return in, "", nil, "Invalid form data"
	}

	in.Name = r.PostFormValue("name")
	in.Description = r.PostFormValue("description")

	// only parse failures are rejected; the value range is not checked
	price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
	if err != nil {
		return in, "", nil, "Price must be a number"
	}
	in.Price = price

	stock, err := strconv.ParseInt(r.PostFormValue("stock"), 10, 64)
	if err != nil {
		return in, "", nil, "Stock must be a number"
	}
	in.Stock = stock

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !imageRequired {
			return in, "", nil, ""
		}
		return in, "", nil, "An image is required"
	}

	return in, header.Filename, file, ""
}

// pathID reads the {id} path variable. The route pattern only matches
// digits, so parsing cannot fail for routed requests.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
