package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/veloxpay/payment-service/internal/adapters/database/pgsql"
	"github.com/veloxpay/payment-service/internal/adapters/ledger"
	"github.com/veloxpay/payment-service/internal/adapters/lock"
	"github.com/veloxpay/payment-service/internal/adapters/messaging/rabbitmq"
	"github.com/veloxpay/payment-service/internal/consumers"
	"github.com/veloxpay/payment-service/internal/core/services"
	"github.com/veloxpay/payment-service/internal/handlers"
	"github.com/veloxpay/payment-service/internal/middleware"
	"github.com/veloxpay/payment-service/internal/platform/config"
	"github.com/veloxpay/payment-service/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database connection pool
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis client for the account lock service
	redisClient, err := lock.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()
	lockService := lock.NewRedisLockService(redisClient, logger)

	// RabbitMQ connection, topology and publishers
	conn, err := rabbitmq.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer conn.Close()

	publishCh, err := conn.Channel()
	if err != nil {
		logger.Error("Failed to open RabbitMQ publish channel", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := rabbitmq.DeclareTopology(publishCh); err != nil {
		logger.Error("Failed to declare queue topology", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Queue topology declared.")

	transactionPublisher := rabbitmq.NewTransactionPublisher(publishCh, logger)
	notificationPublisher := rabbitmq.NewNotificationPublisher(publishCh, logger)

	// Ledger client with its auth session
	httpClient := &http.Client{Timeout: 15 * time.Second}
	authSession := ledger.NewAuthSession(httpClient, cfg.LedgerBaseURL, cfg.LedgerAuthUsername, cfg.LedgerAuthPassword, logger)
	ledgerClient := ledger.NewClient(httpClient, cfg.LedgerBaseURL, authSession, logger)

	// Repositories and services
	transactionRepo := pgsql.NewTransactionRepository(dbPool)
	notificationRepo := pgsql.NewNotificationRepository(dbPool)
	transactionService := services.NewTransactionService(transactionRepo, ledgerClient, transactionPublisher, lockService)
	notificationService := services.NewNotificationService(notificationRepo)

	// Execution consumers, one channel each so a blocked consumer cannot
	// stall the others
	consumerDefs := []struct {
		queue   string
		handler rabbitmq.HandlerFunc
	}{
		{rabbitmq.PaymentDepositQueue, consumers.NewDepositConsumer(transactionRepo, ledgerClient, lockService, notificationPublisher).Handle},
		{rabbitmq.PaymentWithdrawalQueue, consumers.NewWithdrawalConsumer(transactionRepo, ledgerClient, lockService, notificationPublisher).Handle},
		{rabbitmq.PaymentTransferQueue, consumers.NewTransferConsumer(transactionRepo, ledgerClient, lockService, notificationPublisher).Handle},
		{rabbitmq.NotificationQueue, consumers.NewNotificationConsumer(notificationRepo).Handle},
	}
	for _, def := range consumerDefs {
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("Failed to open RabbitMQ consumer channel", slog.String("queue", def.queue), slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := rabbitmq.NewConsumer(ch, logger).Consume(context.Background(), def.queue, def.handler); err != nil {
			logger.Error("Failed to start consumer", slog.String("queue", def.queue), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	v1 := r.Group("/api/v1", middleware.RateLimit(limiterInstance), middleware.AuthMiddleware(cfg.JWTSecret))
	handlers.RegisterRoutes(v1, transactionService, notificationService)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending migrations using a temporary database/sql
// connection compatible with the pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
