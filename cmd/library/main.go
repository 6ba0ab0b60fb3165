package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-library/pkg/account"
	"github.com/tendant/simple-library/pkg/book"
	bookapi "github.com/tendant/simple-library/pkg/book/api"
	"github.com/tendant/simple-library/pkg/bootstrap"
	"github.com/tendant/simple-library/pkg/client"
	"github.com/tendant/simple-library/pkg/config"
	"github.com/tendant/simple-library/pkg/externalprovider"
	"github.com/tendant/simple-library/pkg/login"
	"github.com/tendant/simple-library/pkg/ratelimit"
	"github.com/tendant/simple-library/pkg/reservation"
	reservationapi "github.com/tendant/simple-library/pkg/reservation/api"
	"github.com/tendant/simple-library/pkg/router"
	"github.com/tendant/simple-library/pkg/tokengenerator"
)

type Services struct {
	accountService     *account.AccountService
	bookService        *book.BookService
	reservationService *reservation.ReservationService
	loginService       *login.LoginService
	jwtService         *tokengenerator.JwtService
}

type Repositories struct {
	accounts     account.AccountRepository
	books        book.BookRepository
	reservations reservation.ReservationRepository
}

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting Library Service")

	// Load .env file
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Background loops stop on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("Shutdown signal received, stopping background jobs")
		// Hand signals back to the server and the default handler.
		stop()
	}()

	var pool *pgxpool.Pool
	if cfg.Persistence == config.PersistencePostgres {
		pool, err = pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
		if err != nil {
			slog.Error("Failed to connect to database",
				"host", cfg.Database.Host,
				"port", cfg.Database.Port,
				"database", cfg.Database.Database,
				"schema", cfg.Database.Schema,
				"error", err)
			os.Exit(1)
		}
		defer pool.Close()
		slog.Info("Database connected", "database", cfg.Database.Database, "schema", cfg.Database.Schema)
	} else {
		slog.Warn("Using in-memory persistence - all data is lost when the server stops")
	}

	repos, err := createRepositories(cfg.Persistence, pool)
	if err != nil {
		slog.Error("Failed to create repositories", "error", err)
		os.Exit(1)
	}

	states, err := createStateRepository(ctx, cfg.Redis)
	if err != nil {
		slog.Error("Failed to create login state store", "error", err)
		os.Exit(1)
	}

	registry, err := createProviderRegistry(ctx, cfg.OIDC)
	if err != nil {
		slog.Error("Failed to initialize identity provider", "provider", cfg.OIDC.ID, "error", err)
		os.Exit(1)
	}

	services := createServices(cfg, repos, states, registry)

	if cfg.AdminEmail != "" {
		if _, err := bootstrap.BootstrapAdminAccount(ctx, bootstrap.AdminBootstrapConfig{
			AdminEmail: cfg.AdminEmail,
			Accounts:   repos.accounts,
		}); err != nil {
			slog.Error("Failed to bootstrap admin account", "error", err)
			os.Exit(1)
		}
	}

	go cleanupExpiredStates(ctx, services.loginService, cfg.Redis.StateTTL)

	var rateLimit *ratelimit.Middleware
	if cfg.RateLimit.Enabled() {
		rateLimit = ratelimit.NewMiddleware(cfg.RateLimit.ToRateLimitConfig())
		go rateLimit.Run(ctx)
	} else {
		slog.Warn("Rate limiting disabled")
	}

	// Setup HTTP server
	server := app.DefaultApp()
	setupRoutes(server.R, services, rateLimit, &cfg)

	slog.Info(strings.Repeat("=", 60))
	slog.Info("Library Service Ready")
	slog.Info("Base URL: " + cfg.BaseURL)
	slog.Info("Identity providers", "providers", registry.Names())
	slog.Info(strings.Repeat("=", 60))

	server.Run()
}

func createRepositories(persistence string, pool *pgxpool.Pool) (*Repositories, error) {
	var accountCfg account.RepositoryConfig
	var bookCfg book.RepositoryConfig
	var reservationCfg reservation.RepositoryConfig
	if pool != nil {
		accountCfg.DB = pool
		bookCfg.DB = pool
		reservationCfg.DB = pool
	}

	accounts, err := account.NewAccountRepository(persistence, accountCfg)
	if err != nil {
		return nil, err
	}
	books, err := book.NewBookRepository(persistence, bookCfg)
	if err != nil {
		return nil, err
	}
	reservations, err := reservation.NewReservationRepository(persistence, reservationCfg)
	if err != nil {
		return nil, err
	}
	return &Repositories{accounts: accounts, books: books, reservations: reservations}, nil
}

func createStateRepository(ctx context.Context, cfg config.RedisConfig) (externalprovider.StateRepository, error) {
	if cfg.URL == "" {
		slog.Info("Login states kept in memory")
		return externalprovider.NewInMemoryStateRepository(), nil
	}

	client, err := externalprovider.ConnectRedis(cfg.URL)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	slog.Info("Login states kept in redis")
	return externalprovider.NewRedisStateRepository(client, cfg.StateTTL), nil
}

func createProviderRegistry(ctx context.Context, cfg config.OIDCProviderConfig) (*externalprovider.Registry, error) {
	registry := externalprovider.NewRegistry()
	if !cfg.Enabled() {
		slog.Warn("No identity provider configured - set OIDC_ISSUER_URL to enable login")
		return registry, nil
	}

	provider, err := externalprovider.NewOIDCProvider(ctx, cfg.ToExternalProvider())
	if err != nil {
		return nil, err
	}
	registry.Register(provider)
	return registry, nil
}

func createServices(cfg config.Config, repos *Repositories, states externalprovider.StateRepository, registry *externalprovider.Registry) *Services {
	accountService := account.NewAccountService(repos.accounts)
	bookService := book.NewBookService(repos.books)
	reservationService := reservation.NewReservationService(repos.reservations, bookService)
	bookService.OnDelete(reservationService.ReleaseBook)

	generator := tokengenerator.NewJwtTokenGenerator(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	cookieSetter := tokengenerator.NewCookieSetter(cfg.JWT.CookieHttpOnly, cfg.JWT.CookieSecure, cfg.JWT.CookieSameSite())

	return &Services{
		accountService:     accountService,
		bookService:        bookService,
		reservationService: reservationService,
		loginService: login.NewLoginService(registry, states, accountService, accountService,
			login.WithStateTTL(cfg.Redis.StateTTL)),
		jwtService: tokengenerator.NewJwtService(generator, cookieSetter, cfg.JWT.AccessTokenExpiry),
	}
}

func setupRoutes(r *chi.Mux, services *Services, rateLimit *ratelimit.Middleware, cfg *config.Config) {
	defaults := cfg.Pagination.Defaults()
	loginHandle := login.NewHandle(services.loginService, services.jwtService)

	router.SetupRoutes(r, router.Config{
		BookHandle:        bookapi.NewBookHandler(services.bookService, defaults),
		ReservationHandle: reservationapi.NewReservationHandler(services.reservationService, defaults),
		LoginHandle:       &loginHandle,
		TokenAuth:         client.NewTokenAuth(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience),
		RateLimit:         rateLimit,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
	})

	// Health check endpoints
	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)
}

func cleanupExpiredStates(ctx context.Context, loginService *login.LoginService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := loginService.CleanupExpiredStates(ctx); err != nil {
				slog.Warn("Failed to clean up expired login states", "error", err)
			}
		}
	}
}

func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}

	execDir := filepath.Dir(execPath)
	envFile := filepath.Join(execDir, ".env")

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, _ := os.Getwd()
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found (using environment variables or defaults)")
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}
}
