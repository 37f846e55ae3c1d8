// @title           Project Task API
// @version         1.0
// @description     프로젝트와 Task 관리 API

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "project-task-api/docs" // Swagger docs import

	"project-task-api/internal/auth"
	"project-task-api/internal/client"
	"project-task-api/internal/config"
	"project-task-api/internal/database"
	"project-task-api/internal/job"
	"project-task-api/internal/metrics"
	"project-task-api/internal/repository"
	"project-task-api/internal/router"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Project Task API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database; keep retrying until it answers or we are told to stop
	db, err := database.Connect(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 30, 5*time.Second, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}()
	logger.Info("Database connected successfully")

	if err := database.AutoMigrateWithRetry(db, logger, 3); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	logger.Info("Metrics initialized")

	// Token revocation needs Redis; without it logout only discards the client's token
	var blacklist auth.Blacklist = auth.NoopBlacklist{}
	redisClient, err := database.NewRedis(ctx, cfg.Redis, logger)
	switch {
	case err != nil:
		logger.Warn("Failed to connect to Redis, token revocation disabled", zap.Error(err))
	case redisClient == nil:
		logger.Info("Redis not configured, token revocation disabled")
	default:
		blacklist = auth.NewRedisBlacklist(redisClient)
		defer redisClient.Close()
	}

	// Initialize S3 client
	var s3Client client.S3ClientInterface
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		c, err := client.NewS3Client(ctx, cfg.S3, m)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, attachment features disabled", zap.Error(err))
		} else {
			s3Client = c
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, attachment features disabled")
	}

	notification := client.NewNoOpNotificationClient()
	if cfg.Notification.BaseURL != "" {
		notification = client.NewNotificationClient(cfg.Notification.BaseURL, cfg.Notification.APIKey, cfg.Notification.Timeout, logger, m)
		logger.Info("Notification client initialized", zap.String("url", cfg.Notification.BaseURL))
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:             db,
		Logger:         logger,
		Metrics:        m,
		Tokens:         auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL),
		Blacklist:      blacklist,
		S3Client:       s3Client,
		Notification:   notification,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	scheduler, err := startJobs(db, cfg.Jobs, m, logger)
	if err != nil {
		logger.Fatal("Failed to schedule background jobs", zap.Error(err))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Project Task API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)

	logger.Info("Server exited gracefully")
}

// startJobs schedules the periodic metrics jobs
func startJobs(db *gorm.DB, cfg config.JobsConfig, m *metrics.Metrics, logger *zap.Logger) (*job.Scheduler, error) {
	scheduler := job.NewScheduler(logger)

	businessMetrics := job.NewBusinessMetricsJob(
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
		m,
		logger,
	)
	if err := scheduler.Add("business_metrics", cfg.BusinessMetricsSpec, businessMetrics); err != nil {
		return nil, err
	}
	if err := scheduler.Add("db_stats", cfg.DBStatsSpec, job.NewDBStatsJob(db, m)); err != nil {
		return nil, err
	}

	// Populate the gauges before the first tick
	businessMetrics.Run()
	scheduler.Start()
	return scheduler, nil
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
