package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/config"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/providers/cloudflare"
	temporal "github.com/evermarks/evermark-minter/internal/providers/temporal"
	"github.com/evermarks/evermark-minter/internal/store"
	workflowsmedia "github.com/evermarks/evermark-minter/internal/workflows/media"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerMediaConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		Environment:     cfg.Environment,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "worker-media",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Worker Media")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	cfClient, err := adapter.NewCloudflareClient(cfg.Cloudflare.APIToken)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create Cloudflare client", zap.Error(err))
	}
	images := cloudflare.NewImagesProvider(cfClient, cloudflare.ImagesConfig{
		AccountID: cfg.Cloudflare.AccountID,
		Variants:  cfg.Cloudflare.ImageVariants,
	})
	logger.InfoCtx(ctx, "Initialized Cloudflare Images provider",
		zap.String("accountID", cfg.Cloudflare.AccountID),
		zap.Strings("variants", cfg.Cloudflare.ImageVariants),
	)

	mediaExecutor := workflowsmedia.NewExecutor(dataStore, images, adapter.NewJSON(), adapter.NewActivity())

	temporalClient, err := temporal.Dial(temporal.ClientConfig{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	}, logger.Default())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err))
	}
	defer temporalClient.Close()
	logger.InfoCtx(ctx, "Connected to Temporal",
		zap.String("host_port", cfg.Temporal.HostPort),
		zap.String("namespace", cfg.Temporal.Namespace),
	)

	temporalWorker := worker.New(temporalClient,
		cfg.Temporal.MediaTaskQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.Temporal.MaxConcurrentActivityExecutionSize,
			WorkerActivitiesPerSecond:          cfg.Temporal.WorkerActivitiesPerSecond,
			MaxConcurrentActivityTaskPollers:   cfg.Temporal.MaxConcurrentActivityTaskPollers,
			Interceptors: []interceptor.WorkerInterceptor{
				temporal.NewSentryActivityInterceptor(),
			},
		})

	mediaWorker := workflowsmedia.NewWorker(mediaExecutor)
	temporalWorker.RegisterWorkflow(mediaWorker.GenerateDerivedArtifactsWorkflow)
	temporalWorker.RegisterActivity(mediaExecutor.GenerateDerivedArtifacts)
	logger.InfoCtx(ctx, "Registered derived artifact workflow")

	if err := temporalWorker.Start(); err != nil {
		logger.FatalCtx(ctx, "Failed to start Temporal worker", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Worker Media started successfully",
		zap.String("media_task_queue", cfg.Temporal.MediaTaskQueue),
	)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.InfoCtx(ctx, "Shutting down Worker Media...")
	temporalWorker.Stop()
	logger.InfoCtx(ctx, "Worker Media stopped")
}
