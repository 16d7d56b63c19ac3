// Package web is the HTTP transport of the marketplace: routing, session
// cookie handling, HTML rendering and request metrics. All business rules
// live in the services layer; handlers only translate between HTTP and
// service calls.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mitienda/internal/logging"
	"github.com/dmitrijs2005/mitienda/internal/server/imagestore"
	"github.com/dmitrijs2005/mitienda/internal/server/services"
	"github.com/dmitrijs2005/mitienda/internal/server/session"
	"github.com/gorilla/mux"
)

type Server struct {
	address         string
	logger          logging.Logger
	users           *services.UserService
	products        *services.ProductService
	ratings         *services.RatingService
	sessions        *session.Registry
	images          imagestore.Store
	shutdownTimeout time.Duration

	router    *mux.Router
	templates *templateSet
	metrics   *Metrics
}

func NewServer(address string, l logging.Logger,
	us *services.UserService, ps *services.ProductService, rs *services.RatingService,
	sessions *session.Registry, images imagestore.Store, shutdownTimeout time.Duration) (*Server, error) {

	templates, err := parseTemplates(images.URL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		address:         address,
		logger:          l.With("module", "http_server"),
		users:           us,
		products:        ps,
		ratings:         rs,
		sessions:        sessions,
		images:          images,
		shutdownTimeout: shutdownTimeout,
		templates:       templates,
		metrics:         NewMetrics(),
	}
	s.router = s.routes()

	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
