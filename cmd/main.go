package main

import (
	"context"
	"customer-service/internal/api"
	"customer-service/internal/api/middleware"
	"customer-service/internal/batch"
	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/event"
	"customer-service/internal/infrastructure/database/memory"
	"customer-service/internal/infrastructure/database/postgres"
	"customer-service/internal/infrastructure/logging"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	defaultStatsSchedule = "@every 1m"
	defaultStatsTimeout  = 30 * time.Second
	limiterCleanupPeriod = 10 * time.Minute
)

// @title Customer Service API
// @version 1.0
// @description CRUD API for customer records.
// @termsOfService http://customer-service.local/terms/

// @contact.name API Support
// @contact.url http://customer-service.local/support
// @contact.email support@customer-service.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	customerRepo, closeDB := initializeRepository(ctx, cfg, logger)
	defer closeDB()

	rabbitMQConn := setupRabbitMQ(cfg, logger)
	redisClient := initializeRedisClient(cfg, logger)
	rateLimiter := initializeRateLimiter(ctx, cfg, redisClient, logger)
	customerService := initializeServices(cfg, customerRepo, rabbitMQConn, logger)

	statsJob := batch.NewCustomerStatsJob(customerRepo, logger)
	cronScheduler := startBatchJobs(cfg, logger, statsJob)

	router := api.SetupRouter(rateLimiter, customerService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

// initializeRepository picks the storage backend from database.driver. The
// returned func releases it.
func initializeRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (customer.CustomerRepository, func()) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory customer storage; data is lost on restart")
		return memory.NewCustomerRepository(), func() {}
	case config.DriverPostgres, "":
		logger.Info("Initializing database connection pool...")
		dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("Failed to initialize database connection pool", "error", err)
			os.Exit(1)
		}
		return postgres.NewCustomerRepository(dbPool, logger), func() {
			logger.Info("Closing database connection pool...")
			dbPool.Close()
		}
	default:
		logger.Error("Unsupported database driver", "driver", cfg.Database.Driver)
		os.Exit(1)
		return nil, nil
	}
}

func initializeRateLimiter(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) *middleware.RateLimiterMiddleware {
	rlMiddleware := middleware.NewRateLimiterMiddleware(
		cfg.Server.RateLimit,
		redisClient,
		logger,
	)
	if rlMiddleware.IsEnabled() {
		go rlMiddleware.Cleanup(ctx, limiterCleanupPeriod)
	}
	return rlMiddleware
}

func initializeServices(cfg *config.Config, repo customer.CustomerRepository, rabbitConn *amqp.Connection, logger *slog.Logger) customer.CustomerService {
	logger.Info("Initializing application components...")

	var publisher event.EventPublisher = event.NoopEventPublisher{}
	if rabbitConn != nil {
		rabbitPublisher, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
		if err != nil {
			logger.Error("Failed to create RabbitMQ event publisher, events will not be published", slog.Any("error", err))
		} else {
			publisher = rabbitPublisher
		}
	}

	return customer.NewCustomerService(repo, publisher, logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	shutdownHTTPServer(srv, serverErrors, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn != nil && !rabbitConn.IsClosed() {
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	} else if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
	} else {
		logger.Info("RabbitMQ connection already closed, skipping close.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

// initializeRedisClient returns nil when no address is configured; rate
// limiting then stays in process.
func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		logger.Info("Redis address not configured, skipping Redis client.")
		return nil
	}

	logger.Info("Initializing Redis client...", "addr", cfg.Redis.Addr)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status := rdb.Ping(ctx); status.Err() != nil {
		logger.Error("Failed to connect to Redis, falling back to in-process rate limiting", "error", status.Err(), "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient != nil {
		logger.Info("Closing Redis client connection...")
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis client connection gracefully", "error", err)
		} else {
			logger.Info("Redis client connection closed.")
		}
	} else {
		logger.Info("Redis client was not initialized, skipping close.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, statsJob *batch.CustomerStatsJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.CustomerStatsSchedule
	if scheduleSpec == "" {
		scheduleSpec = defaultStatsSchedule
		logger.Warn("Customer stats schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.CustomerStatsTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultStatsTimeout
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "CustomerStats")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := statsJob.Run(ctx); runErr != nil {
			jobLogger.Error("Customer stats job finished with error", slog.Any("error", runErr))
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule customer stats job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled customer stats job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func rabbitMQURI(cfg config.RabbitMQConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("RabbitMQ host is not configured")
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		return "", fmt.Errorf("RabbitMQ username and password must be provided together")
	}

	port := cfg.Port
	if port == 0 {
		port = 5672
	}
	if cfg.Username != "" {
		return fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.Username, cfg.Password, cfg.Host, port), nil
	}
	return fmt.Sprintf("amqp://%s:%d/", cfg.Host, port), nil
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					if e != nil {
						logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
					}
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

// setupRabbitMQ returns nil when publishing is disabled or the broker cannot
// be reached; the service then runs without lifecycle events.
func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ publishing disabled via configuration.")
		return nil
	}

	uri, err := rabbitMQURI(cfg.RabbitMQ)
	if err != nil {
		logger.Error("Invalid RabbitMQ configuration", "error", err)
		return nil
	}

	conn, err := connectRabbitMQ(uri, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil
	}
	return conn
}
