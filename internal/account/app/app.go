package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/account/internal/account/external"
	httpapi "github.com/aussiebroadwan/account/internal/account/http"
	"github.com/aussiebroadwan/account/internal/account/service"
	"github.com/aussiebroadwan/account/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/account/pkg/cryptox"
	"github.com/aussiebroadwan/account/pkg/slogx"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the account service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db *sqlite.Store

	// Codecs share the server secret but derive a key per purpose.
	bearer         *ticketx.JWECodec
	externalCookie *ticketx.JWECodec
	correlation    *ticketx.JWECodec
	providers      *external.Registry

	credentials   *service.CredentialService
	authorization *service.AuthorizationProvider
	tokens        *service.TokenService

	server *http.Server
	router *httpapi.Router
}

func newLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "account-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized.
// Provider discovery (OIDC) happens here and honours ctx.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: newLogger(cfg),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCodecs(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initProviders(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Migrate applies database migrations and exits without serving.
func Migrate(cfg Config) error {
	logger := newLogger(cfg)

	db, err := sqlite.NewStore(sqlite.DSN(cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	logger.Info("database migrations applied successfully", slog.String("file", cfg.DatabaseFile))
	return nil
}

// Handler exposes the router, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until ctx is cancelled, SIGINT/SIGTERM arrives or the server
// fails, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to listen: %w", err)
	}

	app.logger.Info("account service starting",
		slog.String("addr", ln.Addr().String()),
		slog.String("version", BuildVersion),
		slog.Int("providers", len(app.providers.Providers())),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested", slog.Any("cause", context.Cause(gctx)))
		return app.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down account service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slog.Any("err", err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slog.Any("err", err))
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slog.Any("err", err))
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCodecs loads (or creates) the server secret and builds one codec per
// protected artefact.
func (app *Application) initCodecs() error {
	secret, err := cryptox.LoadOrCreateSecretFile(app.cfg.SecretFile, cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("failed to load token secret: %w", err)
	}

	if app.bearer, err = ticketx.NewJWECodec(secret, ticketx.PurposeBearer, app.cfg.AccessTokenTTL); err != nil {
		return fmt.Errorf("bearer codec: %w", err)
	}
	if app.externalCookie, err = ticketx.NewJWECodec(secret, ticketx.PurposeExternalCookie, app.cfg.ExternalCookieTTL); err != nil {
		return fmt.Errorf("external cookie codec: %w", err)
	}
	// The correlation cookie only has to survive one round trip to the provider.
	if app.correlation, err = ticketx.NewJWECodec(secret, ticketx.PurposeCorrelation, app.cfg.ExternalCookieTTL); err != nil {
		return fmt.Errorf("correlation codec: %w", err)
	}

	for _, c := range []*ticketx.JWECodec{app.bearer, app.externalCookie, app.correlation} {
		app.logger.Debug("ticket codec ready", slog.String("purpose", c.Purpose()), slog.Duration("ttl", c.TTL()))
	}
	return nil
}

func (app *Application) initProviders(ctx context.Context) error {
	var cfgs []external.ProviderConfig
	if app.cfg.ProvidersFile != "" {
		var err error
		if cfgs, err = external.LoadProviderConfigs(app.cfg.ProvidersFile); err != nil {
			return fmt.Errorf("failed to load providers: %w", err)
		}
	}

	registry, err := external.BuildRegistry(ctx, cfgs, app.cfg.PublicURL)
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}
	app.providers = registry

	for _, p := range registry.Providers() {
		app.logger.Info("external provider enabled",
			slog.String("provider", p.Name()),
			slog.String("callback", app.cfg.PublicURL+external.CallbackPath(p.Name())),
		)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.credentials = &service.CredentialService{
		Store:             app.db,
		MinPasswordLength: app.cfg.MinPasswordLength,
	}
	app.authorization = &service.AuthorizationProvider{
		Credentials:    app.credentials,
		PublicClientID: app.cfg.PublicClientID,
	}
	app.tokens = &service.TokenService{
		Codec:       app.bearer,
		Credentials: app.credentials,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.Credentials = app.credentials
	router.Authorization = app.authorization
	router.Tokens = app.tokens
	router.Providers = app.providers
	router.ExternalCookie = app.externalCookie
	router.Correlation = app.correlation
	router.AllowedRedirects = app.cfg.AllowedRedirects
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(app.cfg.Port)),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
