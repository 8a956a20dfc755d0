package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/config"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/providers/cloudflare"
	"github.com/evermarks/evermark-minter/internal/storage"
	"github.com/evermarks/evermark-minter/internal/store"
)

// commandContext lazily builds the dependencies a command needs
type commandContext struct {
	configFlag *string
	envFlag    *string

	configOnce sync.Once
	config     *config.CLIConfig
	configErr  error

	clock   adapter.Clock
	closers []func()
}

func newCommandContext(configFlag, envFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		envFlag:    envFlag,
		clock:      adapter.NewClock(),
	}
}

func (c *commandContext) ensureConfig() (*config.CLIConfig, error) {
	c.configOnce.Do(func() {
		var path, envPath string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if c.envFlag != nil {
			envPath = strings.TrimSpace(*c.envFlag)
		}

		config.ChdirRepoRoot()
		cfg, err := config.LoadCLIConfig(path, envPath)
		if err != nil {
			c.configErr = err
			return
		}
		if err := logger.Initialize(logger.Config{
			Debug:           cfg.Debug,
			SentryDSN:       cfg.SentryDSN,
			Environment:     cfg.Environment,
			BreadcrumbLevel: zapcore.WarnLevel,
			Tags:            map[string]string{"service": "evermark-cli"},
		}); err != nil {
			c.configErr = fmt.Errorf("initialize logger: %w", err)
			return
		}
		c.closers = append(c.closers, func() { logger.Flush(2 * time.Second) })
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openStore() (store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		return nil, fmt.Errorf("database.host and database.dbname are required")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		c.closers = append(c.closers, func() { _ = sqlDB.Close() })
	}
	return store.NewPGStore(db), nil
}

// openMinter dials the RPC endpoint. Without requireSigner the minter is read only.
func (c *commandContext) openMinter(ctx context.Context, requireSigner bool) (chain.Minter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Ethereum.Validate(requireSigner); err != nil {
		return nil, err
	}
	gasBuffer, fallbackFee, err := cfg.Ethereum.Wei()
	if err != nil {
		return nil, err
	}

	var signer adapter.Signer
	if requireSigner {
		if cfg.Ethereum.Signer.PrivateKey != "" {
			signer, err = adapter.NewLocalKeySigner(cfg.Ethereum.Signer.PrivateKey)
		} else {
			signer, err = adapter.NewClefSigner(cfg.Ethereum.Signer.ClefURL, cfg.Ethereum.Signer.Account)
		}
		if err != nil {
			return nil, fmt.Errorf("initialize signer: %w", err)
		}
	}

	client, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum RPC: %w", err)
	}
	c.closers = append(c.closers, client.Close)

	return chain.NewMinter(chain.Config{
		ContractAddress:     cfg.Ethereum.ContractAddress,
		ChainID:             big.NewInt(cfg.Ethereum.ChainID),
		GasBufferWei:        gasBuffer,
		FallbackFeeWei:      fallbackFee,
		ReceiptTimeout:      cfg.Ethereum.ReceiptTimeout,
		ReceiptPollInterval: cfg.Ethereum.ReceiptPollInterval,
		Read:                chain.ReadOptions{Timeout: cfg.Ethereum.ReadTimeout},
	}, client, signer, c.clock), nil
}

// openAssetStore builds an asset store over the primary backend only
func (c *commandContext) openAssetStore() (storage.AssetStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Cloudflare.Validate(); err != nil {
		return nil, err
	}

	cfClient, err := adapter.NewCloudflareClient(cfg.Cloudflare.APIToken)
	if err != nil {
		return nil, fmt.Errorf("create Cloudflare client: %w", err)
	}
	primary := cloudflare.NewKVBackend(cfClient, cloudflare.KVConfig{
		AccountID:     cfg.Cloudflare.AccountID,
		NamespaceID:   cfg.Cloudflare.KVNamespaceID,
		PublicBaseURL: cfg.Cloudflare.PublicBaseURL,
	})

	return storage.NewAssetStore(storage.Config{MaxImageSize: cfg.Storage.MaxImageSize},
		primary, nil, adapter.NewJSON(), adapter.NewHTTPClient(cfg.IPFS.Timeout), c.clock), nil
}

// close releases everything opened by the command, newest first
func (c *commandContext) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
