package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
)

type userPage struct {
	User     models.User
	Products []models.Product
}

// handleUserDetail shows a seller's public page with their products. It is
// reachable without a session.
func (s *Server) handleUserDetail(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	products, err := s.products.ListByOwner(r.Context(), id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "user_detail.html", "", userPage{User: *user, Products: products})
}
