package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/nutridash/internal/nutridash/http"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/lock"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/mail"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/service"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store/drivers/sqlite"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the store, services and HTTP server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    *sqlite.Store
	keys  *Keys
	redis *redis.Client

	authService         *service.AuthService
	tokenService        *service.TokenService
	dashboardService    *service.DashboardService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "nutridash",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// OpenStore opens the SQLite database and applies pending migrations.
func OpenStore(cfg Config) (*sqlite.Store, error) {
	cryptox.SetPepperPath(cfg.PepperFile)

	db, err := sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{cfg: cfg, logger: NewLogger(cfg)}

	db, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.logger.Info("database ready", "file", cfg.DatabaseFile)

	keys, err := LoadKeys(cfg, app.logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keys = keys

	mailer, err := app.newMailer()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app.initServices(app.newLocker(), mailer)
	app.initHTTP()

	return app, nil
}

// newLocker picks Redis when configured so several instances share locks.
func (app *Application) newLocker() lock.Locker {
	if app.cfg.RedisAddr == "" {
		app.logger.Info("using in-process locks")
		return lock.NewMemoryLocker()
	}
	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
	})
	app.logger.Info("using redis locks", "addr", app.cfg.RedisAddr)
	return lock.NewRedisLocker(app.redis, lock.RedisOptions{})
}

func (app *Application) newMailer() (service.Mailer, error) {
	if app.cfg.SMTP.Host == "" {
		app.logger.Warn("SMTP_HOST not set, two-factor codes are written to the log")
		return mail.LogMailer{}, nil
	}

	loc, err := time.LoadLocation(app.cfg.MailTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_TIMEZONE: %w", err)
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     app.cfg.SMTP.Host,
		Port:     app.cfg.SMTP.Port,
		Username: app.cfg.SMTP.Username,
		Password: app.cfg.SMTP.Password,
		From:     app.cfg.SMTP.From,
		Location: loc,
	})
}

func (app *Application) initServices(locker lock.Locker, mailer service.Mailer) {
	passwords := service.Argon2Passwords{}

	app.authService = &service.AuthService{
		Store:       app.db,
		Mailer:      mailer,
		Locker:      locker,
		Passwords:   passwords,
		MailTimeout: app.cfg.MailTimeout,
	}
	app.tokenService = &service.TokenService{
		Signer:    app.keys.Signer,
		Store:     app.db,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.SessionTTL,
	}
	app.dashboardService = &service.DashboardService{Store: app.db, Locker: locker}
	app.userService = &service.UserService{Store: app.db, Passwords: passwords}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)
	router.AuthService = app.authService
	router.TokenService = app.tokenService
	router.DashboardService = app.dashboardService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("nutridash starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains requests and in-flight code emails, then closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down nutridash...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.authService.WaitForMail()
	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("nutridash stopped")
	return nil
}
