package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/fitcoach/internal/catalog"
	"example.com/fitcoach/internal/config"
	"example.com/fitcoach/internal/dialog"
	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/events"
	"example.com/fitcoach/internal/progress"
	"example.com/fitcoach/internal/storage/memory"
	"example.com/fitcoach/internal/storage/postgres"
	"example.com/fitcoach/internal/transport/telegram"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	if cfg.TelegramToken == "" {
		logger.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo domain.Repository
	switch cfg.Storage {
	case "memory":
		repo = memory.NewRepository()
		logger.Warn("using in-memory storage, records will not survive a restart")
	default:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatal("connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		pgRepo := postgres.NewRepository(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal("ensure schema", zap.Error(err))
		}
		repo = pgRepo
	}

	resolver, err := catalog.NewResolver(repo)
	if err != nil {
		logger.Fatal("load builtin catalog", zap.Error(err))
	}

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	machine := dialog.NewMachine(
		dialog.NewStore(),
		repo,
		resolver,
		progress.NewAggregator(repo),
		producer,
		logger,
	)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("telegram auth", zap.Error(err))
	}

	bot := telegram.New(api, machine, resolver.Categories(), cfg.PollTimeoutSeconds, logger)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsServer := &http.Server{
		Addr:         cfg.MetricsAddress,
		Handler:      metricsMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := bot.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		logger.Info("metrics listening", zap.String("address", cfg.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
