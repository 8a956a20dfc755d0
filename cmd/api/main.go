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
	"github.com/evermarks/evermark-minter/internal/api/middleware"
	"github.com/evermarks/evermark-minter/internal/api/server"
	"github.com/evermarks/evermark-minter/internal/api/shared/executor"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/config"
	"github.com/evermarks/evermark-minter/internal/creation"
	"github.com/evermarks/evermark-minter/internal/duplicate"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/messaging"
	"github.com/evermarks/evermark-minter/internal/metadata"
	"github.com/evermarks/evermark-minter/internal/persistence"
	"github.com/evermarks/evermark-minter/internal/providers/cloudflare"
	"github.com/evermarks/evermark-minter/internal/providers/ipfs"
	"github.com/evermarks/evermark-minter/internal/providers/jetstream"
	temporal "github.com/evermarks/evermark-minter/internal/providers/temporal"
	"github.com/evermarks/evermark-minter/internal/season"
	"github.com/evermarks/evermark-minter/internal/storage"
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
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "evermark-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Evermark API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if cfg.Database.ReadHost != "" {
		if err := store.RegisterReadReplica(db, cfg.Database.ReadDSN()); err != nil {
			logger.FatalCtx(ctx, "Failed to register read replica", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Registered read replica", zap.String("read_host", cfg.Database.ReadHost))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.IPFS.Timeout)

	// Asset storage: Cloudflare KV primary, Pinata replica when configured
	cfClient, err := adapter.NewCloudflareClient(cfg.Cloudflare.APIToken)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create Cloudflare client", zap.Error(err))
	}
	primary := cloudflare.NewKVBackend(cfClient, cloudflare.KVConfig{
		AccountID:     cfg.Cloudflare.AccountID,
		NamespaceID:   cfg.Cloudflare.KVNamespaceID,
		PublicBaseURL: cfg.Cloudflare.PublicBaseURL,
	})
	var secondary storage.ContentAddressedBackend
	if cfg.IPFS.PinataJWT != "" {
		secondary = ipfs.NewPinataBackend(httpClient, jsonAdapter, ipfs.Config{
			JWT:               cfg.IPFS.PinataJWT,
			APIURL:            cfg.IPFS.APIURL,
			GatewayURL:        cfg.IPFS.GatewayURL,
			RequestsPerSecond: cfg.IPFS.RequestsPerSecond,
			Burst:             cfg.IPFS.Burst,
		})
	} else {
		logger.WarnCtx(ctx, "IPFS replication disabled, assets are stored on the primary backend only")
	}
	assets := storage.NewAssetStore(storage.Config{
		MaxImageSize: cfg.Storage.MaxImageSize,
	}, primary, secondary, jsonAdapter, httpClient, clock)

	genesis, err := cfg.Season.GenesisTime()
	if err != nil {
		logger.WarnCtx(ctx, "Season calendar disabled", zap.Error(err))
	}
	seasons := season.NewOracle(season.Config{
		Genesis:  genesis,
		Length:   cfg.Season.Length,
		CacheTTL: cfg.Season.CacheTTL,
	}, dataStore, clock)

	guard := duplicate.NewGuard(dataStore, duplicate.Config{
		LookupTimeout: cfg.Duplicate.LookupTimeout,
		MaxRetries:    cfg.Duplicate.MaxRetries,
	})

	// Connect to the ledger
	minter, closeEth := newMinter(ctx, cfg.Ethereum, clock)
	defer closeEth()
	logger.InfoCtx(ctx, "Minting account ready",
		zap.String("account", minter.Account()),
		zap.String("contract", cfg.Ethereum.ContractAddress),
	)

	// Connect to Temporal with logger integration
	temporalClient, err := temporal.Dial(temporal.ClientConfig{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	}, logger.Default())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err))
	}
	defer temporalClient.Close()
	logger.InfoCtx(ctx, "Connected to Temporal", zap.String("host_port", cfg.Temporal.HostPort))

	// Minted events are optional; the reconciler sweep covers their absence
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			Subject:        cfg.NATS.Subject,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, minted events will not be published")
	}

	persister := persistence.NewSync(persistence.Config{
		MediaTaskQueue: cfg.Temporal.MediaTaskQueue,
	}, dataStore, temporalClient, publisher, clock)

	orchestrator := creation.NewOrchestrator(assets, metadata.NewBuilder(clock, jsonAdapter), guard, minter, persister, seasons, clock)
	exec := executor.NewExecutor(orchestrator, guard, dataStore, seasons, minter,
		time.Duration(cfg.Server.CreateTimeout)*time.Second)

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, exec)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
	}
	cancel()

	// In-flight creations may be waiting on a receipt
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.CreateTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("message", "Server forced to shutdown"))
	}

	logger.Info("Evermark API stopped")
}

// newMinter dials the RPC endpoint and builds a signing minter
func newMinter(ctx context.Context, cfg config.EthereumConfig, clock adapter.Clock) (chain.Minter, func()) {
	gasBuffer, fallbackFee, err := cfg.Wei()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid ethereum configuration", zap.Error(err))
	}

	var signer adapter.Signer
	if cfg.Signer.PrivateKey != "" {
		signer, err = adapter.NewLocalKeySigner(cfg.Signer.PrivateKey)
	} else {
		signer, err = adapter.NewClefSigner(cfg.Signer.ClefURL, cfg.Signer.Account)
	}
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize signer", zap.Error(err))
	}

	client, err := adapter.NewEthClientDialer().Dial(ctx, cfg.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial ethereum RPC", zap.Error(err))
	}

	minter := chain.NewMinter(chain.Config{
		ContractAddress:     cfg.ContractAddress,
		ChainID:             big.NewInt(cfg.ChainID),
		GasBufferWei:        gasBuffer,
		FallbackFeeWei:      fallbackFee,
		ReceiptTimeout:      cfg.ReceiptTimeout,
		ReceiptPollInterval: cfg.ReceiptPollInterval,
		Read:                chain.ReadOptions{Timeout: cfg.ReadTimeout},
	}, client, signer, clock)

	return minter, client.Close
}
