package web

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// withCurrentUser resolves the session cookie into a user and stores it
// in the request context. Any failure along the way leaves the request
// anonymous; the handler decides whether that is acceptable.
func (s *Server) withCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(common.SessionCookieName)
		if err == nil {
			if userID, ok := s.sessions.Resolve(cookie.Value); ok {
				if user, err := s.users.GetByID(r.Context(), userID); err == nil {
					ctx := context.WithValue(r.Context(), currentUserKey, user)
					r = r.WithContext(ctx)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func userFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*models.User)
	return user, ok
}

// requireUser returns the authenticated user or redirects to the login
// page and reports false.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := userFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil, false
	}
	return user, true
}
