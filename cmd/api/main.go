package main

import (
	"cargo_quotes/internal/adapter/http/dto/request"
	"cargo_quotes/internal/adapter/http/routes"
	"cargo_quotes/internal/adapter/persistence/repository"
	"cargo_quotes/internal/infrastructure/auth"
	"cargo_quotes/internal/infrastructure/cache"
	"cargo_quotes/internal/infrastructure/config"
	"cargo_quotes/internal/infrastructure/database"
	"cargo_quotes/internal/infrastructure/documents"
	"cargo_quotes/internal/infrastructure/logger"
	"cargo_quotes/internal/infrastructure/notifications"
	"cargo_quotes/internal/usecase"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// @title           Cargo Quotes API
// @version         1.0
// @description     Logistics quotation lifecycle (pricing, approval, client response, expiry) backed by DynamoDB.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Init(cfg.Environment, cfg.LogLevel, "api")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := request.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := database.NewAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return err
	}
	ddb := database.NewDynamoDBClient(awsCfg, cfg.AWS.DynamoDBEndpoint)
	if cfg.AWS.DynamoDBEndpoint != "" {
		if err := repository.EnsureTables(ctx, ddb, repository.TableNames{
			Quotations: cfg.Tables.Quotations,
			Warehouses: cfg.Tables.Warehouses,
			Users:      cfg.Tables.Users,
		}); err != nil {
			return err
		}
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	quotationRepo := repository.NewQuotationDynamoRepository(ddb, cfg.Tables.Quotations)
	warehouseRepo := repository.NewWarehouseDynamoRepository(ddb, cfg.Tables.Warehouses)
	userRepo := repository.NewUserDynamoRepository(ddb, cfg.Tables.Users)
	publisher := notifications.NewRedisPublisher(rdb)

	opts := []usecase.QuotationOption{
		usecase.WithQuotationLogger(log.Named("quotations")),
		usecase.WithDefaultValidityDays(cfg.DefaultValidityDays),
	}
	if cfg.Documents.Enabled() {
		gotenberg := documents.NewGotenbergClient(cfg.Documents.GotenbergURL)
		if err := gotenberg.Ping(ctx); err != nil {
			log.Warn("document renderer not reachable", zap.Error(err))
		}
		store := database.NewS3Client(awsCfg, cfg.AWS.S3Endpoint)
		opts = append(opts, usecase.WithDocumentService(
			documents.NewService(gotenberg, store, cfg.Documents.Bucket, cfg.Documents.PublicBaseURL),
		))
	} else {
		log.Info("document generation disabled")
	}

	quotationUC := usecase.NewQuotationUseCase(quotationRepo, warehouseRepo, publisher, opts...)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	authUC := usecase.NewAuthUseCase(userRepo, cache.NewSessionStore(rdb), auth.NewJWTManager(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL, log.Named("auth"))
	sweepUC := usecase.NewExpirySweepUseCase(quotationRepo, publisher, log.Named("expiry"), nil)

	if err := authUC.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	hub := notifications.NewHub(log.Named("ws"), cfg.CORSOrigins)
	go hub.Run(ctx)
	go func() {
		if err := notifications.Relay(ctx, rdb, hub, log.Named("relay")); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("notification relay stopped", zap.Error(err))
		}
	}()

	router := routes.NewRouter(routes.Dependencies{
		Logger:      log.Named("http"),
		CORSOrigins: cfg.CORSOrigins,
		Quotations:  quotationUC,
		Warehouses:  warehouseUC,
		Auth:        authUC,
		Sweep:       sweepUC,
		Sockets:     hub.ServeWs(authUC.Authenticate),
	})

	return routes.NewServer(cfg.ServerPort, router, log).Run(ctx)
}
