package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.Use(s.metrics.Middleware)
	r.Use(s.withCurrentUser)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	r.HandleFunc("/register", s.handleRegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	r.HandleFunc("/add_product", s.handleAddProductForm).Methods(http.MethodGet)
	r.HandleFunc("/add_product", s.handleAddProduct).Methods(http.MethodPost)
	r.HandleFunc("/product/{id:[0-9]+}", s.handleProductDetail).Methods(http.MethodGet)
	r.HandleFunc("/edit_product/{id:[0-9]+}", s.handleEditProductForm).Methods(http.MethodGet)
	r.HandleFunc("/edit_product/{id:[0-9]+}", s.handleEditProduct).Methods(http.MethodPost)
	r.HandleFunc("/delete_product/{id:[0-9]+}", s.handleDeleteProduct).Methods(http.MethodPost)
	r.HandleFunc("/rate_product/{id:[0-9]+}", s.handleRateProduct).Methods(http.MethodPost)

	r.HandleFunc("/user/{id:[0-9]+}", s.handleUserDetail).Methods(http.MethodGet)

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	// Disk-backed stores are served by this process; the prefix and the
	// directory both come from the store, so the configured image_dir and
	// the URLs handed to browsers cannot disagree. S3-backed images are
	// fetched from the bucket endpoint directly.
	if static, ok := s.images.(interface {
		Dir() string
		URLPrefix() string
	}); ok {
		prefix := static.URLPrefix()
		r.PathPrefix(prefix).Handler(
			http.StripPrefix(prefix, http.FileServer(http.Dir(static.Dir()))))
	}

	return r
}
