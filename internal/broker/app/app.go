package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/veilhq/veil/internal/broker/http"
	"github.com/veilhq/veil/internal/broker/notify"
	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/internal/broker/store/drivers/sqlite"
	"github.com/veilhq/veil/pkg/jwtx"
	"github.com/veilhq/veil/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the broker service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	keys   *jwtx.Keypair
	sender notify.Sender

	onboardingService   *service.OnboardingService
	challengeService    *service.ChallengeService
	verificationService *service.VerificationService
	mfaService          *service.MFAService
	permissionService   *service.PermissionService
	accountService      *service.AccountService
	userService         *service.UserService
	companyService      *service.CompanyService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "broker",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Sessions are not expected to outlive a deploy; an ephemeral keypair
	// simply logs everyone out on restart.
	keys, err := jwtx.NewKeypair()
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to generate signing keys: %w", err)
	}
	app.keys = keys

	app.initSender()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("broker starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down broker...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("broker stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

func (app *Application) initSender() {
	if app.cfg.NotifyBaseURL == "" {
		app.logger.Warn("no notification gateway configured, codes will only be logged")
		app.sender = &notify.LogSender{Logger: app.logger}
		return
	}
	app.sender = notify.NewGatewayClient(app.cfg.NotifyAPIKey, app.cfg.NotifyBaseURL, app.cfg.NotifySender)
}

func (app *Application) initServices() {
	app.challengeService = &service.ChallengeService{
		Store:       app.db,
		Sender:      app.sender,
		TTL:         app.cfg.ChallengeTTL,
		Cooldown:    app.cfg.ResendCooldown,
		MaxAttempts: app.cfg.MaxAttempts,
	}

	app.onboardingService = &service.OnboardingService{
		Store: app.db,
		Signer: &jwtx.Signer{
			Keys:   app.keys,
			Issuer: app.cfg.Issuer,
			TTL:    app.cfg.SessionTTL,
		},
		Challenges: app.challengeService,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.verificationService = &service.VerificationService{
		Store:      app.db,
		Challenges: app.challengeService,
	}
	app.mfaService = &service.MFAService{
		Store:        app.db,
		Verification: app.verificationService,
	}
	app.permissionService = &service.PermissionService{
		Store:        app.db,
		Verification: app.verificationService,
	}
	app.accountService = &service.AccountService{
		Store:        app.db,
		Challenges:   app.challengeService,
		Verification: app.verificationService,
	}
	app.userService = &service.UserService{Store: app.db}
	app.companyService = &service.CompanyService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	verifier := &jwtx.Verifier{
		Public: app.keys.Public,
		Issuer: app.cfg.Issuer,
	}

	app.router = httpapi.NewRouter(verifier, BuildVersion, app.db, app.logger)
	app.router.OnboardingService = app.onboardingService
	app.router.VerificationService = app.verificationService
	app.router.MFAService = app.mfaService
	app.router.PermissionService = app.permissionService
	app.router.AccountService = app.accountService
	app.router.UserService = app.userService
	app.router.CompanyService = app.companyService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
