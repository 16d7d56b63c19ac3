// Package server initializes and runs the marketplace application.
// It opens the database, runs migrations, wires the image store and the
// services, and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/mitienda/internal/logging"
	"github.com/dmitrijs2005/mitienda/internal/server/config"
	"github.com/dmitrijs2005/mitienda/internal/server/imagestore"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mitienda/internal/server/services"
	"github.com/dmitrijs2005/mitienda/internal/server/session"
	"github.com/dmitrijs2005/mitienda/internal/server/web"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	web    *web.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	sessions := session.NewRegistry()

	us := services.NewUserService(db, manager)
	ps := services.NewProductService(db, manager, images, logger)
	rs := services.NewRatingService(db, manager)

	ws, err := web.NewServer(cfg.EndpointAddrHTTP, logger, us, ps, rs, sessions, images, cfg.ShutdownTimeout)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: cfg, logger: logger, db: db, web: ws}, nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (imagestore.Store, error) {
	switch cfg.ImageStoreKind {
	case config.ImageStoreS3:
		return imagestore.NewS3Store(ctx, imagestore.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.ImageStoreDisk:
		return imagestore.NewDiskStore(cfg.ImageDir)
	default:
		return nil, fmt.Errorf("unknown image store kind: %s", cfg.ImageStoreKind)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startWebServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.web.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startWebServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
