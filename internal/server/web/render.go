package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/mitienda/internal/server/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

type templateSet struct {
	t *template.Template
}

// parseTemplates loads every page template. imageURL turns a stored image
// reference into the address the browser fetches it from, so templates do
// not need to know which store backs the images.
func parseTemplates(imageURL func(ref string) string) (*templateSet, error) {
	funcs := template.FuncMap{
		"imageURL": imageURL,
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &templateSet{t: t}, nil
}

// page is the data every template receives.
type page struct {
	CurrentUser *models.User
	Msg         string
	Data        any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, msg string, data any) {
	user, _ := userFromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.t.ExecuteTemplate(w, name, page{CurrentUser: user, Msg: msg, Data: data}); err != nil {
		s.logger.Error(r.Context(), "template error", "template", name, "error", err)
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found.html", "", nil)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
