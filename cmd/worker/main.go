package main

import (
	"cargo_quotes/internal/adapter/http/routes"
	"cargo_quotes/internal/adapter/persistence/repository"
	"cargo_quotes/internal/infrastructure/cache"
	"cargo_quotes/internal/infrastructure/config"
	"cargo_quotes/internal/infrastructure/database"
	"cargo_quotes/internal/infrastructure/logger"
	"cargo_quotes/internal/infrastructure/notifications"
	"cargo_quotes/internal/infrastructure/scheduler"
	"cargo_quotes/internal/usecase"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Init(cfg.Environment, cfg.LogLevel, "worker")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := database.NewAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return err
	}
	ddb := database.NewDynamoDBClient(awsCfg, cfg.AWS.DynamoDBEndpoint)

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	quotationRepo := repository.NewQuotationDynamoRepository(ddb, cfg.Tables.Quotations)
	sweepUC := usecase.NewExpirySweepUseCase(quotationRepo, notifications.NewRedisPublisher(rdb), log.Named("expiry"), nil)

	metrics := scheduler.NewMetrics(prometheus.DefaultRegisterer)
	loc, err := time.LoadLocation(cfg.Scheduler.ExpirySweepTimezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	worker, err := scheduler.NewWorker(scheduler.WorkerConfig{
		RedisURL: cfg.Redis.URL,
		Logger:   log.Named("asynq"),
		CronSpec: cfg.Scheduler.ExpirySweepCron,
		Location: loc,
		Job:      scheduler.NewExpirySweepJob(sweepUC, log.Named("expiry"), metrics),
	})
	if err != nil {
		return err
	}

	if cfg.Scheduler.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := routes.NewServer(cfg.Scheduler.MetricsPort, mux, log.Named("metrics"))
		go func() {
			if err := metricsServer.Run(ctx); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	log.Info("expiry sweep scheduled",
		zap.String("cron", cfg.Scheduler.ExpirySweepCron),
		zap.String("timezone", loc.String()),
	)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
