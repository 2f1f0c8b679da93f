package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/invitedesk/internal/invites/http"
	"github.com/aussiebroadwan/invitedesk/internal/invites/notify"
	"github.com/aussiebroadwan/invitedesk/internal/invites/permissions"
	"github.com/aussiebroadwan/invitedesk/internal/invites/plans"
	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/drivers/postgres"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/aussiebroadwan/invitedesk/pkg/jwtx"
	"github.com/aussiebroadwan/invitedesk/pkg/retryx"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
	"golang.org/x/text/language"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the invitation service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	hasher   cryptox.Hasher
	keys     *jwtx.KeySet
	signer   jwtx.Signer
	verifier jwtx.Verifier
	notifier service.Notifier

	tokenIssuer          *service.TokenIssuer
	invitationService    *service.InvitationService
	registrationService  *service.RegistrationService
	bootstrapService     *service.BootstrapService
	analystClientService *service.AnalystClientService
	accountService       *service.AccountService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "invites-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCrypto(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initNotifier()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("invites service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down invites service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("invites service stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch strings.ToLower(app.cfg.DatabaseDriver) {
	case DriverPostgres:
		db, err = postgres.NewStore(context.Background(), app.cfg.DatabaseURL)
	default:
		dsn := app.cfg.DatabaseFile
		if dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", dsn)
		}
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initCrypto loads the password pepper and the token signing key.
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.Hasher{Pepper: pepper}

	pemKey, err := cryptox.LoadOrCreateEd25519Key(app.cfg.SigningKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}
	signer, err := jwtx.NewSignerEdDSA(app.cfg.SigningKeyID, pemKey)
	if err != nil {
		return fmt.Errorf("failed to initialize signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return fmt.Errorf("failed to publish signing key: %w", err)
	}

	app.signer = signer
	app.keys = keys
	app.verifier = jwtx.NewVerifierEdDSA(keys, app.cfg.Issuer, nil)

	if app.cfg.SigningKeyFile == "" {
		app.logger.Warn("no SIGNING_KEY_FILE set, issued tokens will not survive a restart")
	}
	app.logger.Info("signing key loaded", "kid", signer.KID(), "alg", signer.Alg())
	return nil
}

func (app *Application) initNotifier() {
	if app.cfg.SendGridAPIKey == "" {
		app.notifier = notify.LogNotifier{}
		app.logger.Info("no SENDGRID_API_KEY set, invitation links are logged only")
		return
	}

	app.notifier = notify.NewSendGrid(notify.SendGridConfig{
		APIKey:   app.cfg.SendGridAPIKey,
		FromName: app.cfg.MailFromName,
		FromAddr: app.cfg.MailFromAddr,
		Lang:     language.Make(app.cfg.MailLang),
	})
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenIssuer = &service.TokenIssuer{
		Signer: app.signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.AccessTokenTTL,
	}

	app.invitationService = &service.InvitationService{
		Store:    app.db,
		Notifier: app.notifier,
		Origin:   app.cfg.PublicOrigin,
	}
	app.registrationService = &service.RegistrationService{
		Store:       app.db,
		Invitations: app.invitationService,
		Hasher:      app.hasher,
		Tokens:      app.tokenIssuer,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Hasher: app.hasher,
		Tokens: app.tokenIssuer,
		Token:  app.cfg.BootstrapToken,
	}
	app.analystClientService = &service.AnalystClientService{Store: app.db}
	app.accountService = &service.AccountService{
		Store:       app.db,
		Permissions: permissions.Evaluator{Plans: plans.Standard()},
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		app.cfg.RateLimits,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Retry = retryx.Policy{Attempts: app.cfg.RetryAttempts, Delay: app.cfg.RetryDelay}
	router.InvitationService = app.invitationService
	router.RegistrationService = app.registrationService
	router.BootstrapService = app.bootstrapService
	router.AnalystClientService = app.analystClientService
	router.AccountService = app.accountService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
