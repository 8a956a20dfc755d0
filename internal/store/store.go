package store

import (
	"context"
	"time"

	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertEvermark inserts or updates an evermark keyed by its mint transaction hash.
	// A known token id is never overwritten by an unknown one.
	UpsertEvermark(ctx context.Context, record domain.EvermarkRecord) (*schema.Evermark, error)
	// GetEvermarkByTokenID retrieves an evermark by token id, nil when absent
	GetEvermarkByTokenID(ctx context.Context, tokenID string) (*schema.Evermark, error)
	// GetEvermarkByTxHash retrieves an evermark by mint transaction hash, nil when absent
	GetEvermarkByTxHash(ctx context.Context, txHash string) (*schema.Evermark, error)
	// FindEvermarksByNormalizedKey returns evermarks sharing a duplicate comparison key
	FindEvermarksByNormalizedKey(ctx context.Context, normalizedKey string, limit int) ([]schema.Evermark, error)
	// FindEvermarksByHostAndTitle returns evermarks on the same host with a case-insensitively equal title
	FindEvermarksByHostAndTitle(ctx context.Context, host string, title string, limit int) ([]schema.Evermark, error)
	// ListEvermarksMissingTokenID returns evermarks whose token id has not been parsed yet, oldest first
	ListEvermarksMissingTokenID(ctx context.Context, limit int) ([]schema.Evermark, error)
	// MarkReconcileFailed flags the evermark minted by txHash as unresolvable
	MarkReconcileFailed(ctx context.Context, txHash string, reason string) error
	// IsAssetReferenced reports whether any evermark still points at assets stored under the asset id
	IsAssetReferenced(ctx context.Context, assetID string) (bool, error)

	// GetSeasonAt returns the season whose window contains t, nil when none is recorded
	GetSeasonAt(ctx context.Context, t time.Time) (*schema.Season, error)
	// UpsertSeason inserts or updates a season window
	UpsertSeason(ctx context.Context, season domain.Season) error

	// UpsertMediaAsset records derived artifacts for a minted evermark
	UpsertMediaAsset(ctx context.Context, input CreateMediaAssetInput) (*schema.EvermarkMediaAsset, error)
	// GetMediaAssetsByTokenID returns the derived artifacts of an evermark
	GetMediaAssetsByTokenID(ctx context.Context, tokenID string) ([]schema.EvermarkMediaAsset, error)

	// Ping checks database connectivity
	Ping(ctx context.Context) error
}

// CreateMediaAssetInput is the input for recording derived artifacts
type CreateMediaAssetInput struct {
	TokenID          string
	SourceURL        string
	MimeType         *string
	FileSizeBytes    *int64
	Provider         schema.StorageProvider
	ProviderAssetID  *string
	ProviderMetadata []byte
	VariantURLs      map[string]string
}
