package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/config"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/providers/jetstream"
	temporal "github.com/evermarks/evermark-minter/internal/providers/temporal"
	"github.com/evermarks/evermark-minter/internal/reconciler"
	"github.com/evermarks/evermark-minter/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadReconcilerConfig(*configFile, *envPath)
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
			"service": "reconciler",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Reconciler")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Receipts are read only, no signer is needed
	gasBuffer, fallbackFee, err := cfg.Ethereum.Wei()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid ethereum configuration", zap.Error(err))
	}
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial ethereum RPC", zap.Error(err))
	}
	defer ethClient.Close()
	minter := chain.NewMinter(chain.Config{
		ContractAddress:     cfg.Ethereum.ContractAddress,
		ChainID:             big.NewInt(cfg.Ethereum.ChainID),
		GasBufferWei:        gasBuffer,
		FallbackFeeWei:      fallbackFee,
		ReceiptTimeout:      cfg.Ethereum.ReceiptTimeout,
		ReceiptPollInterval: cfg.Ethereum.ReceiptPollInterval,
		Read:                chain.ReadOptions{Timeout: cfg.Ethereum.ReadTimeout},
	}, ethClient, nil, clock)

	temporalClient, err := temporal.Dial(temporal.ClientConfig{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	}, logger.Default())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err))
	}
	defer temporalClient.Close()

	subscriber, err := jetstream.NewSubscriber(ctx, jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		Subject:        cfg.NATS.Subject,
		ConsumerName:   cfg.NATS.ConsumerName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWait:        cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS subscriber", zap.Error(err))
	}
	defer subscriber.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
	)

	rec := reconciler.NewReconciler(reconciler.Config{
		MediaTaskQueue: cfg.Temporal.MediaTaskQueue,
		WorkerPoolSize: cfg.Worker.WorkerPoolSize,
		SweepInterval:  cfg.Worker.SweepInterval,
		SweepBatchSize: cfg.Worker.SweepBatchSize,
		PendingTTL:     cfg.Worker.PendingTTL,
	}, subscriber, dataStore, minter, temporalClient, clock)

	errCh := make(chan error, 1)
	go func() {
		errCh <- rec.Run(ctx)
	}()
	logger.InfoCtx(ctx, "Reconciler started",
		zap.Int("worker_pool_size", cfg.Worker.WorkerPoolSize),
		zap.Duration("sweep_interval", cfg.Worker.SweepInterval),
	)

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		select {
		case <-errCh:
		case <-time.After(10 * time.Second):
			logger.Warn("Reconciler did not stop in time")
		}
	case err := <-errCh:
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "reconciler"))
		}
	}

	logger.Info("Reconciler stopped")
}
