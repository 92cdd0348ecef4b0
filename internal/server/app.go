// Package server initializes and runs the backoffice API server.
// It validates configuration, opens the database, applies migrations,
// wires the session codec and services, and serves HTTP until a shutdown
// signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/auth"
	"github.com/dmitrijs2005/backoffice/internal/server/config"
	"github.com/dmitrijs2005/backoffice/internal/server/httpserver"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/backoffice/internal/server/services"
	"github.com/dmitrijs2005/backoffice/internal/server/storage"
)

const dbConnectTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpserver.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if c.InsecureSecret() {
		logger.Warn(ctx, "INSECURE SESSION SECRET: tokens are signed with an empty or well-known key and can be forged; never run like this outside development")
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN, dbConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	var images services.ImageURLSigner
	if c.S3Bucket != "" {
		signer, err := storage.NewS3ImageSigner(ctx, storage.S3Options{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			TTL:          c.ProfileImageURLTTL,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		images = signer
	}

	codec := auth.NewTokenCodec([]byte(c.SecretKey), c.TokenValidityDuration)

	us := services.NewUserService(db, rm, codec, images, logger)
	ss := services.NewSettingsService(db, rm, c.SettingsTimeout, logger)

	hs := httpserver.NewHTTPServer(httpserver.Options{
		Address:       c.EndpointAddrHTTP,
		Users:         us,
		Settings:      ss,
		Resolver:      auth.NewResolver(codec, logger),
		DB:            db,
		Metrics:       httpserver.NewMetrics(),
		TokenValidity: codec.Validity(),
		CookieSecure:  c.CookieSecure,
	}, logger)

	return &App{config: c, logger: logger, db: db, http: hs}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err)
	}
	app.logger.Info(ctx, "App stopped")
}
