package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/evermarks/evermark-minter/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // e.g. "5m", "1h"
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // e.g. "10m"
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	Subject        string        `mapstructure:"subject"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// SignerConfig selects how mint transactions are signed.
// Exactly one of PrivateKey or ClefURL must be set.
type SignerConfig struct {
	PrivateKey string `mapstructure:"private_key"`
	ClefURL    string `mapstructure:"clef_url"`
	Account    string `mapstructure:"account"`
}

// EthereumConfig holds ledger configuration
type EthereumConfig struct {
	RPCURL              string        `mapstructure:"rpc_url"`
	ChainID             int64         `mapstructure:"chain_id"`
	ContractAddress     string        `mapstructure:"contract_address"`
	Signer              SignerConfig  `mapstructure:"signer"`
	GasBufferWei        string        `mapstructure:"gas_buffer_wei"`
	FallbackFeeWei      string        `mapstructure:"fallback_fee_wei"`
	ReceiptTimeout      time.Duration `mapstructure:"receipt_timeout"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout"`
}

// CloudflareConfig holds Cloudflare configuration
type CloudflareConfig struct {
	// AccountID is the Cloudflare account ID (used for both Workers KV and Images)
	AccountID     string   `mapstructure:"account_id"`
	APIToken      string   `mapstructure:"api_token"`
	KVNamespaceID string   `mapstructure:"kv_namespace_id"`
	PublicBaseURL string   `mapstructure:"public_base_url"`
	ImageVariants []string `mapstructure:"image_variants"`
}

// IPFSConfig holds the pinning service configuration.
// Replication is disabled when PinataJWT is empty.
type IPFSConfig struct {
	PinataJWT         string        `mapstructure:"pinata_jwt"`
	APIURL            string        `mapstructure:"api_url"`
	GatewayURL        string        `mapstructure:"gateway_url"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds asset store limits
type StorageConfig struct {
	MaxImageSize int64         `mapstructure:"max_image_size"`
	TempAssetTTL time.Duration `mapstructure:"temp_asset_ttl"`
}

// SeasonConfig holds the calendar used when no season row exists
type SeasonConfig struct {
	Genesis  string        `mapstructure:"genesis"` // RFC3339
	Length   time.Duration `mapstructure:"length"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// DuplicateConfig holds duplicate guard configuration
type DuplicateConfig struct {
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	MaxRetries    uint64        `mapstructure:"max_retries"`
}

// TemporalConfig holds Temporal configuration
type TemporalConfig struct {
	HostPort                           string  `mapstructure:"host_port"`
	Namespace                          string  `mapstructure:"namespace"`
	MediaTaskQueue                     string  `mapstructure:"media_task_queue"`
	MaxConcurrentActivityExecutionSize int     `mapstructure:"max_concurrent_activity_execution_size"`
	WorkerActivitiesPerSecond          float64 `mapstructure:"worker_activities_per_second"`
	MaxConcurrentActivityTaskPollers   int     `mapstructure:"max_concurrent_activity_task_pollers"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ReadTimeout    int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int    `mapstructure:"idle_timeout"`  // in seconds
	CreateTimeout  int    `mapstructure:"create_timeout"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	// AllowedOrigins restricts CORS; empty allows all origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	WorkerPoolSize  int           `mapstructure:"pool_size"`
	WorkerQueueSize int           `mapstructure:"queue_size"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"` // zero disables the sweep
	SweepBatchSize  int           `mapstructure:"sweep_batch_size"`
	// PendingTTL is how long a transaction may stay unknown to the node before its record is marked unresolvable
	PendingTTL time.Duration `mapstructure:"pending_ttl"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	IPFS       IPFSConfig       `mapstructure:"ipfs"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Season     SeasonConfig     `mapstructure:"season"`
	Duplicate  DuplicateConfig  `mapstructure:"duplicate"`
}

// WorkerMediaConfig holds configuration for worker-media
type WorkerMediaConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
}

// ReconcilerConfig holds configuration for the reconciler
type ReconcilerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Worker     WorkerConfig   `mapstructure:"worker"`
	Database   DatabaseConfig `mapstructure:"database"`
	Temporal   TemporalConfig `mapstructure:"temporal"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
	Season     SeasonConfig   `mapstructure:"season"`
}

// CLIConfig holds configuration for evermark-cli
type CLIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	IPFS       IPFSConfig       `mapstructure:"ipfs"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Season     SeasonConfig     `mapstructure:"season"`
	Duplicate  DuplicateConfig  `mapstructure:"duplicate"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 300) // SSE create streams stay open until confirmation
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.create_timeout", 240)
	v.SetDefault("server.max_upload_bytes", 12*1024*1024)
	setDatabaseDefaults(v)
	setTemporalDefaults(v)
	setNATSDefaults(v, "evermark-api")
	setEthereumDefaults(v)
	setStorageDefaults(v)
	setSeasonDefaults(v)

	var cfg APIConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if err := validateDatabase(cfg.Database); err != nil {
		return nil, err
	}
	if err := cfg.Ethereum.Validate(true); err != nil {
		return nil, err
	}
	if err := cfg.Cloudflare.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWorkerMediaConfig loads configuration for worker-media
func LoadWorkerMediaConfig(configFile string, envPath string) (*WorkerMediaConfig, error) {
	v := configureViper("worker-media", configFile, envPath)

	setDatabaseDefaults(v)
	setTemporalDefaults(v)
	v.SetDefault("temporal.max_concurrent_activity_execution_size", 10)
	v.SetDefault("temporal.worker_activities_per_second", 10)
	v.SetDefault("temporal.max_concurrent_activity_task_pollers", 2)
	v.SetDefault("cloudflare.image_variants", []string{"thumbnail", "preview"})

	var cfg WorkerMediaConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadReconcilerConfig loads configuration for the reconciler
func LoadReconcilerConfig(configFile string, envPath string) (*ReconcilerConfig, error) {
	v := configureViper("reconciler", configFile, envPath)

	setDatabaseDefaults(v)
	setTemporalDefaults(v)
	setNATSDefaults(v, "evermark-reconciler")
	setEthereumDefaults(v)
	setSeasonDefaults(v)
	v.SetDefault("nats.consumer_name", "evermark-reconciler")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
	v.SetDefault("worker.pool_size", 8)
	v.SetDefault("worker.queue_size", 256)
	v.SetDefault("worker.sweep_interval", "1m")
	v.SetDefault("worker.sweep_batch_size", 50)
	v.SetDefault("worker.pending_ttl", "6h")

	var cfg ReconcilerConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if err := validateDatabase(cfg.Database); err != nil {
		return nil, err
	}
	if cfg.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}
	if err := cfg.Ethereum.Validate(false); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadCLIConfig loads configuration for evermark-cli.
// Requirements are checked per command.
func LoadCLIConfig(configFile string, envPath string) (*CLIConfig, error) {
	v := configureViper("evermark-cli", configFile, envPath)

	setDatabaseDefaults(v)
	setEthereumDefaults(v)
	setStorageDefaults(v)
	setSeasonDefaults(v)

	var cfg CLIConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the ledger configuration. A signer is only required by
// components that submit transactions.
func (c EthereumConfig) Validate(requireSigner bool) error {
	if c.RPCURL == "" {
		return &domain.ConfigurationError{Component: "ethereum", Reason: "rpc_url is required"}
	}
	if !domain.IsValidEthereumAddress(c.ContractAddress) {
		return &domain.ConfigurationError{Component: "ethereum", Reason: "contract_address must be a 0x-prefixed 40 hex digit address"}
	}
	if c.ChainID <= 0 {
		return &domain.ConfigurationError{Component: "ethereum", Reason: "chain_id must be positive"}
	}
	if !requireSigner {
		return nil
	}

	switch {
	case c.Signer.PrivateKey != "" && c.Signer.ClefURL != "":
		return &domain.ConfigurationError{Component: "ethereum", Reason: "signer.private_key and signer.clef_url are mutually exclusive"}
	case c.Signer.PrivateKey == "" && c.Signer.ClefURL == "":
		return &domain.ConfigurationError{Component: "ethereum", Reason: "one of signer.private_key or signer.clef_url is required"}
	case c.Signer.ClefURL != "" && !domain.IsValidEthereumAddress(c.Signer.Account):
		return &domain.ConfigurationError{Component: "ethereum", Reason: "signer.account is required with clef_url"}
	}
	return nil
}

// Wei parses the gas buffer and fallback fee, both decimal wei strings
func (c EthereumConfig) Wei() (gasBuffer *big.Int, fallbackFee *big.Int, err error) {
	gasBuffer, ok := new(big.Int).SetString(c.GasBufferWei, 10)
	if !ok || gasBuffer.Sign() < 0 {
		return nil, nil, &domain.ConfigurationError{Component: "ethereum", Reason: "gas_buffer_wei must be a non-negative decimal integer"}
	}
	fallbackFee, ok = new(big.Int).SetString(c.FallbackFeeWei, 10)
	if !ok || fallbackFee.Sign() < 0 {
		return nil, nil, &domain.ConfigurationError{Component: "ethereum", Reason: "fallback_fee_wei must be a non-negative decimal integer"}
	}
	return gasBuffer, fallbackFee, nil
}

// Validate checks the primary storage configuration
func (c CloudflareConfig) Validate() error {
	switch {
	case c.AccountID == "":
		return &domain.ConfigurationError{Component: "cloudflare", Reason: "account_id is required"}
	case c.APIToken == "":
		return &domain.ConfigurationError{Component: "cloudflare", Reason: "api_token is required"}
	case c.KVNamespaceID == "":
		return &domain.ConfigurationError{Component: "cloudflare", Reason: "kv_namespace_id is required"}
	case !domain.IsValidHTTPURL(c.PublicBaseURL):
		return &domain.ConfigurationError{Component: "cloudflare", Reason: "public_base_url must be an http(s) URL"}
	}
	return nil
}

// GenesisTime parses the season genesis timestamp
func (c SeasonConfig) GenesisTime() (time.Time, error) {
	if c.Genesis == "" {
		return time.Time{}, errors.New("season.genesis is not set")
	}
	t, err := time.Parse(time.RFC3339, c.Genesis)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid season.genesis: %w", err)
	}
	return t.UTC(), nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
}

func setTemporalDefaults(v *viper.Viper) {
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.media_task_queue", "evermark-media")
}

func setNATSDefaults(v *viper.Viper, connectionName string) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "EVERMARKS")
	v.SetDefault("nats.subject", "evermark.minted")
	v.SetDefault("nats.connection_name", connectionName)
}

func setEthereumDefaults(v *viper.Viper) {
	v.SetDefault("ethereum.chain_id", 8453)
	v.SetDefault("ethereum.gas_buffer_wei", domain.DEFAULT_GAS_BUFFER_WEI)
	v.SetDefault("ethereum.fallback_fee_wei", domain.DEFAULT_FALLBACK_MINT_FEE_WEI)
	v.SetDefault("ethereum.receipt_timeout", domain.DEFAULT_RECEIPT_TIMEOUT)
	v.SetDefault("ethereum.receipt_poll_interval", domain.DEFAULT_RECEIPT_POLL_INTERVAL)
	v.SetDefault("ethereum.read_timeout", "10s")
}

func setStorageDefaults(v *viper.Viper) {
	v.SetDefault("storage.max_image_size", domain.DEFAULT_MAX_IMAGE_SIZE)
	v.SetDefault("storage.temp_asset_ttl", "24h")
	v.SetDefault("ipfs.api_url", "https://api.pinata.cloud")
	v.SetDefault("ipfs.gateway_url", domain.DEFAULT_IPFS_GATEWAY)
	v.SetDefault("ipfs.requests_per_second", 3)
	v.SetDefault("ipfs.burst", 3)
	v.SetDefault("ipfs.timeout", "60s")
	v.SetDefault("duplicate.lookup_timeout", "5s")
	v.SetDefault("duplicate.max_retries", 2)
}

func setSeasonDefaults(v *viper.Viper) {
	v.SetDefault("season.length", "168h") // 1 week
	v.SetDefault("season.cache_ttl", "5m")
}

func validateDatabase(c DatabaseConfig) error {
	if c.Host == "" {
		return errors.New("database.host is required")
	}
	if c.DBName == "" {
		return errors.New("database.dbname is required")
	}
	return nil
}

// readAndUnmarshal reads the config file, tolerating a missing one, and
// decodes it into out
func readAndUnmarshal(v *viper.Viper, out any) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("EVERMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars binds every key so env-only deployments (no config file)
// still populate the config structs
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"environment",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.contract_address",
		"ethereum.signer.private_key",
		"ethereum.signer.clef_url",
		"ethereum.signer.account",
		"ethereum.gas_buffer_wei",
		"ethereum.fallback_fee_wei",
		"ethereum.receipt_timeout",
		"ethereum.receipt_poll_interval",
		"ethereum.read_timeout",
		// Cloudflare
		"cloudflare.account_id",
		"cloudflare.api_token",
		"cloudflare.kv_namespace_id",
		"cloudflare.public_base_url",
		"cloudflare.image_variants",
		// IPFS
		"ipfs.pinata_jwt",
		"ipfs.api_url",
		"ipfs.gateway_url",
		"ipfs.requests_per_second",
		"ipfs.burst",
		"ipfs.timeout",
		// Storage
		"storage.max_image_size",
		"storage.temp_asset_ttl",
		// Season
		"season.genesis",
		"season.length",
		"season.cache_ttl",
		// Duplicate
		"duplicate.lookup_timeout",
		"duplicate.max_retries",
		// Temporal
		"temporal.host_port",
		"temporal.namespace",
		"temporal.media_task_queue",
		"temporal.max_concurrent_activity_execution_size",
		"temporal.worker_activities_per_second",
		"temporal.max_concurrent_activity_task_pollers",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.create_timeout",
		"server.max_upload_bytes",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Worker
		"worker.pool_size",
		"worker.queue_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads .env, .env.local and .env.<service>.local in that order,
// later files overriding earlier ones
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica connection string, falling back to Port
// when ReadPort is not set
func (c *DatabaseConfig) ReadDSN() string {
	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
