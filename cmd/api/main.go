package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/softsellhq/softsell-backend/api/routes"
	"github.com/softsellhq/softsell-backend/internal/auth"
	"github.com/softsellhq/softsell-backend/internal/licenses"
	"github.com/softsellhq/softsell-backend/internal/notifications"
	"github.com/softsellhq/softsell-backend/internal/proofs"
	"github.com/softsellhq/softsell-backend/internal/users"
	"github.com/softsellhq/softsell-backend/pkg/auth/session"
	"github.com/softsellhq/softsell-backend/pkg/config"
	"github.com/softsellhq/softsell-backend/pkg/db"
	"github.com/softsellhq/softsell-backend/pkg/logger"
	"github.com/softsellhq/softsell-backend/pkg/mailer"
	"github.com/softsellhq/softsell-backend/pkg/metrics"
	"github.com/softsellhq/softsell-backend/pkg/migrate"
	"github.com/softsellhq/softsell-backend/pkg/redis"
	"github.com/softsellhq/softsell-backend/pkg/uploader"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	mailClient, err := mailer.New(cfg.Sendgrid)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	uploadClient, err := uploader.New(cfg.Cloudinary)
	if err != nil {
		logg.Error(context.Background(), "failed to create uploader", err)
		os.Exit(1)
	}

	notifier, err := notifications.NewService(mailClient, logg, cfg.Marketplace)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	licenseRepo := licenses.NewRepository(dbClient.DB())
	proofRepo := proofs.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Uploader:       uploadClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	licenseService, err := licenses.NewService(licenses.ServiceParams{
		Repo:     licenseRepo,
		UserRepo: userRepo,
		Notifier: notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create license service", err)
		os.Exit(1)
	}

	proofService, err := proofs.NewService(proofs.ServiceParams{
		Repo:        proofRepo,
		LicenseRepo: licenseRepo,
		UserRepo:    userRepo,
		Uploader:    uploadClient,
		Notifier:    notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create proof service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			HTTPMetrics:    metrics.NewHTTPMetrics(),
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			AuthService:    authService,
			LicenseService: licenseService,
			ProofService:   proofService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
