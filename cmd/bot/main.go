package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/dumwala/tournament-bot/internal/config"
	"github.com/dumwala/tournament-bot/internal/infrastructure/notify/telegram"
	mongorepo "github.com/dumwala/tournament-bot/internal/infrastructure/repository/mongo"
	"github.com/dumwala/tournament-bot/internal/platform/id"
	"github.com/dumwala/tournament-bot/internal/platform/logging"
	"github.com/dumwala/tournament-bot/internal/platform/resilience"
	"github.com/dumwala/tournament-bot/internal/usecase"
)

func main() {
	// Local development convenience; in production the variables come
	// from the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, disconnect, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		logger.Error("connect document store", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := disconnect(closeCtx); err != nil {
			logger.Error("disconnect document store", "error", err)
		}
	}()

	tournaments := mongorepo.NewTournamentRepository(db)
	users := mongorepo.NewUserRepository(db)
	payments := mongorepo.NewPaymentRepository(db)

	notifier := telegram.NewClient(telegram.ClientConfig{
		BaseURL:    cfg.TelegramBaseURL,
		Token:      cfg.TelegramToken,
		Timeout:    cfg.TelegramTimeout,
		MaxRetries: cfg.TelegramMaxRetries,
		ParseMode:  cfg.TelegramParseMode,
		Logger:     logger,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.TelegramCircuitEnabled,
			FailureThreshold: cfg.TelegramCircuitFailures,
			OpenTimeout:      cfg.TelegramCircuitOpenFor,
			HalfOpenProbes:   cfg.TelegramCircuitProbeCount,
		},
	})

	registryCfg := usecase.DefaultRegistryConfig()
	registryCfg.AvgKillsEstimate = cfg.AvgKillsEstimate
	if cfg.UPIID != "" {
		registryCfg.DefaultUPIID = cfg.UPIID
	}

	registry := usecase.NewRegistryService(tournaments, users, id.NewRandomGenerator(), registryCfg, logger)
	paymentService := usecase.NewPaymentService(payments, users, logger)
	broadcast := usecase.NewBroadcastService(notifier, cfg.BroadcastWorkers, logger)
	reconcile := usecase.NewReconcileService(registry, broadcast, logger)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Error("build scheduler", "error", err)
		os.Exit(1)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.ReconcileInterval),
		gocron.NewTask(func() {
			jobCtx, cancel := context.WithTimeout(ctx, cfg.ReconcileInterval)
			defer cancel()

			if _, err := reconcile.Run(jobCtx); err != nil {
				logger.ErrorContext(jobCtx, "reconcile pass failed", "error", err)
			}
		}),
	)
	if err != nil {
		logger.Error("schedule reconcile job", "error", err)
		os.Exit(1)
	}

	// Daily collection digest for the operators.
	_, err = scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()

			today, err := paymentService.CollectionToday(jobCtx)
			if err != nil {
				logger.ErrorContext(jobCtx, "collection digest failed", "error", err)
				return
			}
			week, err := paymentService.CollectionThisWeek(jobCtx)
			if err != nil {
				logger.ErrorContext(jobCtx, "collection digest failed", "error", err)
				return
			}

			text := fmt.Sprintf("Collection digest\nToday: ₹%.2f\nThis week: ₹%.2f", today, week)
			broadcast.Send(jobCtx, cfg.AdminIDs, text)
		}),
	)
	if err != nil {
		logger.Error("schedule collection digest", "error", err)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("tournament bot started",
		"env", cfg.AppEnv,
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"reconcile_interval", cfg.ReconcileInterval.String(),
	)

	<-ctx.Done()

	if err := scheduler.Shutdown(); err != nil {
		logger.Error("scheduler shutdown failed", "error", err)
	}
	logger.Info("tournament bot stopped")
}
