// Package httpserver exposes the backoffice HTTP API: session login/logout,
// the authenticated profile endpoint, settings and operational probes.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/auth"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/gin-gonic/gin"
)

// UserService is the login/profile surface used by the handlers.
type UserService interface {
	Login(ctx context.Context, username, password string) (string, auth.Identity, error)
	Profile(ctx context.Context, id auth.Identity) (*models.Profile, error)
}

// SettingsService is the settings surface used by the handlers.
type SettingsService interface {
	GetAll(ctx context.Context) map[string]string
	LookupNumber(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key, value string) error
	Reset(ctx context.Context, key string) error
}

// IdentityResolver turns a request into a verified identity.
type IdentityResolver interface {
	Resolve(r *http.Request) auth.Result
}

// Pinger reports database reachability for /readyz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options wires the server's collaborators.
type Options struct {
	Address       string
	Users         UserService
	Settings      SettingsService
	Resolver      IdentityResolver
	DB            Pinger
	Metrics       *Metrics
	TokenValidity time.Duration
	CookieSecure  bool
	ReadyTimeout  time.Duration
}

type HTTPServer struct {
	address       string
	users         UserService
	settings      SettingsService
	resolver      IdentityResolver
	db            Pinger
	metrics       *Metrics
	tokenValidity time.Duration
	cookieSecure  bool
	readyTimeout  time.Duration
	logger        logging.Logger
	engine        *gin.Engine
}

func NewHTTPServer(o Options, l logging.Logger) *HTTPServer {
	s := &HTTPServer{
		address:       o.Address,
		users:         o.Users,
		settings:      o.Settings,
		resolver:      o.Resolver,
		db:            o.DB,
		metrics:       o.Metrics,
		tokenValidity: o.TokenValidity,
		cookieSecure:  o.CookieSecure,
		readyTimeout:  o.ReadyTimeout,
		logger:        l.With("module", "http_server"),
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.readyTimeout <= 0 {
		s.readyTimeout = 2 * time.Second
	}
	s.engine = s.routes()
	return s
}

// Handler returns the routed engine, mainly for tests.
func (s *HTTPServer) Handler() http.Handler { return s.engine }

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog(), s.metrics.middleware())

	r.GET("/healthz", s.healthz)
	r.GET("/readyz", s.readyz)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.logout)

	protected := api.Group("", s.authRequired())
	protected.GET("/auth/me", s.me)
	protected.GET("/settings", s.listSettings)
	protected.GET("/settings/:key/number", s.settingNumber)

	admin := protected.Group("", requireRole(auth.RoleAdmin))
	admin.PUT("/settings/:key", s.putSetting)
	admin.DELETE("/settings/:key", s.deleteSetting)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
