package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/coloriginz/supplier-onboarding-backend/api/routes"
	"github.com/coloriginz/supplier-onboarding-backend/internal/audit"
	"github.com/coloriginz/supplier-onboarding-backend/internal/auth"
	"github.com/coloriginz/supplier-onboarding-backend/internal/files"
	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	"github.com/coloriginz/supplier-onboarding-backend/internal/notify"
	"github.com/coloriginz/supplier-onboarding-backend/internal/requests"
	"github.com/coloriginz/supplier-onboarding-backend/internal/tokens"
	"github.com/coloriginz/supplier-onboarding-backend/internal/users"
	"github.com/coloriginz/supplier-onboarding-backend/internal/vat"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/mail"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/migrate"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/redis"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/storage/gcs"
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

	storageClient, err := gcs.NewClient(cfg.GCS)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}

	issuer := tokens.NewIssuer()
	sender := mail.NewSender(cfg.Mail)

	requestsRepo := requests.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())

	auditService, err := audit.NewService(audit.Params{
		Repo: audit.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	dispatcher, err := notify.NewDispatcher(notify.Params{
		Users:   usersRepo,
		Sender:  sender,
		BaseURL: cfg.App.BaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	lifecycleService, err := lifecycle.NewService(lifecycle.Params{
		Repo:       requestsRepo,
		Tx:         dbClient,
		Audit:      auditService,
		Dispatcher: dispatcher,
		Issuer:     issuer,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.Params{
		Repo:     usersRepo,
		Issuer:   issuer,
		Sender:   sender,
		Logger:   logg,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		BaseURL:  cfg.App.BaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.Params{
		Repo:    usersRepo,
		Issuer:  issuer,
		Sender:  sender,
		Logger:  logg,
		BaseURL: cfg.App.BaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	filesService, err := files.NewService(files.Params{Uploader: storageClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create files service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Redis:     redisClient,
		DB:        dbClient,
		Storage:   storageClient,
		Auth:      authService,
		Users:     usersService,
		Lifecycle: lifecycleService,
		Audit:     auditService,
		Files:     filesService,
		VAT:       vat.NewClient(cfg.VAT),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
