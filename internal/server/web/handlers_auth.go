package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mitienda/internal/common"
)

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.html", "", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "register.html", "Invalid form data", nil)
		return
	}

	user, err := s.users.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
		r.PostFormValue("whatsapp"),
	)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			s.render(w, r, http.StatusOK, "register.html", "Username or email already taken", nil)
		case errors.Is(err, common.ErrorValidation):
			s.render(w, r, http.StatusOK, "register.html", "All fields are required", nil)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	// registration logs the new user in right away
	token, err := s.sessions.Create(user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", "", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", "Invalid form data", nil)
		return
	}

	user, err := s.users.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// same message whether the username or the password was wrong
			s.render(w, r, http.StatusOK, "login.html", "Invalid credentials", nil)
			return
		}
		s.serverError(w, r, err)
		return
	}

	token, err := s.sessions.Create(user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout destroys the session if one exists and always clears the
// cookie, so a stale or unknown token still ends up signed out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(common.SessionCookieName); err == nil {
		s.sessions.Destroy(cookie.Value)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
