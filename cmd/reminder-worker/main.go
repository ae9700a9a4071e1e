package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coloriginz/supplier-onboarding-backend/internal/audit"
	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	"github.com/coloriginz/supplier-onboarding-backend/internal/notify"
	"github.com/coloriginz/supplier-onboarding-backend/internal/reminders"
	"github.com/coloriginz/supplier-onboarding-backend/internal/requests"
	"github.com/coloriginz/supplier-onboarding-backend/internal/tokens"
	"github.com/coloriginz/supplier-onboarding-backend/internal/users"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/mail"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/metrics"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/migrate"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reminder-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "reminder-worker",
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

	requestsRepo := requests.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	sender := mail.NewSender(cfg.Mail)

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
		Issuer:     tokens.NewIssuer(),
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	lock, err := reminders.NewRedisLock(redisClient, redisClient.LockKey(reminders.JobName), cfg.Reminder.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder lock", err)
		os.Exit(1)
	}

	job, err := reminders.NewJob(reminders.JobParams{
		Repo:       requestsRepo,
		Lifecycle:  lifecycleService,
		Logger:     logg,
		Metrics:    jobMetrics,
		StaleAfter: cfg.Reminder.StaleAfter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder job", err)
		os.Exit(1)
	}

	runner, err := reminders.NewRunner(reminders.RunnerParams{
		Logger:   logg,
		Job:      job,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Reminder.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder runner", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Reminder.Interval.String(),
	})
	logg.Info(ctx, "starting reminder worker")

	metricsServer := &http.Server{
		Addr:    ":" + cfg.Reminder.MetricsPort,
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()
	defer metricsServer.Close()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "reminder worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "reminder worker shutting down gracefully")
}
