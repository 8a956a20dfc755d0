package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// RegisterReadReplica routes reads to a replica. Writes and explicit
// dbresolver.Write queries stay on the primary.
func RegisterReadReplica(db *gorm.DB, readDSN string) error {
	if readDSN == "" {
		return nil
	}
	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(readDSN)},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replica: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// UpsertEvermark inserts or updates an evermark keyed by tx hash
func (s *pgStore) UpsertEvermark(ctx context.Context, record domain.EvermarkRecord) (*schema.Evermark, error) {
	if record.TxHash == "" {
		return nil, fmt.Errorf("evermark record has no tx hash")
	}

	row, err := toSchemaEvermark(record)
	if err != nil {
		return nil, err
	}

	// Token id and block number come from receipt parsing which may lag; keep known values
	updates := clause.AssignmentColumns([]string{
		"content_type",
		"source_url",
		"normalized_key",
		"source_host",
		"source_query",
		"doi",
		"isbn",
		"title",
		"description",
		"author",
		"owner",
		"referrer",
		"tags",
		"metadata_uri",
		"image_primary_url",
		"image_secondary_url",
		"image_content_hash",
		"image_storage_key",
		"image_content_type",
		"image_byte_size",
		"image_width",
		"image_height",
		"verified",
		"season",
	})
	updates = append(updates,
		clause.Assignment{Column: clause.Column{Name: "token_id"}, Value: gorm.Expr("COALESCE(EXCLUDED.token_id, evermarks.token_id)")},
		clause.Assignment{Column: clause.Column{Name: "block_number"}, Value: gorm.Expr("COALESCE(EXCLUDED.block_number, evermarks.block_number)")},
		clause.Assignment{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("now()")},
		// A resolved token id clears an earlier reconcile failure
		clause.Assignment{Column: clause.Column{Name: "reconcile_failed_at"}, Value: gorm.Expr("CASE WHEN EXCLUDED.token_id IS NULL THEN evermarks.reconcile_failed_at END")},
		clause.Assignment{Column: clause.Column{Name: "reconcile_error"}, Value: gorm.Expr("CASE WHEN EXCLUDED.token_id IS NULL THEN evermarks.reconcile_error END")},
	)

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}},
			DoUpdates: updates,
		}).
		Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert evermark: %w", err)
	}

	return row, nil
}

// GetEvermarkByTokenID retrieves an evermark by token id
func (s *pgStore) GetEvermarkByTokenID(ctx context.Context, tokenID string) (*schema.Evermark, error) {
	var evermark schema.Evermark
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&evermark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evermark: %w", err)
	}
	return &evermark, nil
}

// GetEvermarkByTxHash retrieves an evermark by mint transaction hash.
// The reconciler reads right after a write, so a replica miss is retried on the primary.
func (s *pgStore) GetEvermarkByTxHash(ctx context.Context, txHash string) (*schema.Evermark, error) {
	var evermark schema.Evermark
	err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&evermark).Error
	if err == nil {
		return &evermark, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get evermark: %w", err)
	}
	if !hasDBResolver(s.db) {
		return nil, nil
	}

	// Replica can lag behind primary; retry on primary before returning not found.
	err = s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("tx_hash = ?", txHash).
		First(&evermark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evermark from primary: %w", err)
	}
	return &evermark, nil
}

// FindEvermarksByNormalizedKey returns evermarks sharing a normalized key, newest first
func (s *pgStore) FindEvermarksByNormalizedKey(ctx context.Context, normalizedKey string, limit int) ([]schema.Evermark, error) {
	if normalizedKey == "" {
		return []schema.Evermark{}, nil
	}

	var evermarks []schema.Evermark
	err := s.db.WithContext(ctx).
		Where("normalized_key = ? AND reconcile_failed_at IS NULL", normalizedKey).
		Order("created_at DESC").
		Limit(normalizeLimit(limit)).
		Find(&evermarks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find evermarks by normalized key: %w", err)
	}
	return evermarks, nil
}

// FindEvermarksByHostAndTitle returns evermarks on host whose title matches case-insensitively
func (s *pgStore) FindEvermarksByHostAndTitle(ctx context.Context, host string, title string, limit int) ([]schema.Evermark, error) {
	if host == "" || title == "" {
		return []schema.Evermark{}, nil
	}

	var evermarks []schema.Evermark
	err := s.db.WithContext(ctx).
		Where("source_host = ? AND LOWER(title) = LOWER(?) AND reconcile_failed_at IS NULL", host, title).
		Order("created_at DESC").
		Limit(normalizeLimit(limit)).
		Find(&evermarks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find evermarks by host and title: %w", err)
	}
	return evermarks, nil
}

// ListEvermarksMissingTokenID returns evermarks with an unparsed token id
// that have not been marked unresolvable
func (s *pgStore) ListEvermarksMissingTokenID(ctx context.Context, limit int) ([]schema.Evermark, error) {
	var evermarks []schema.Evermark
	err := s.db.WithContext(ctx).
		Where("token_id IS NULL AND reconcile_failed_at IS NULL").
		Order("created_at ASC").
		Limit(normalizeLimit(limit)).
		Find(&evermarks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evermarks missing token id: %w", err)
	}
	return evermarks, nil
}

// MarkReconcileFailed records why the token id of txHash cannot be resolved.
// Rows that already have a token id are left alone.
func (s *pgStore) MarkReconcileFailed(ctx context.Context, txHash string, reason string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Evermark{}).
		Where("tx_hash = ? AND token_id IS NULL", txHash).
		Updates(map[string]any{
			"reconcile_failed_at": gorm.Expr("now()"),
			"reconcile_error":     reason,
			"updated_at":          gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark evermark %s unresolvable: %w", txHash, err)
	}
	return nil
}

// IsAssetReferenced reports whether an evermark image or metadata document
// is still addressed under the asset id prefix
func (s *pgStore) IsAssetReferenced(ctx context.Context, assetID string) (bool, error) {
	if assetID == "" {
		return false, nil
	}

	prefix := fmt.Sprintf("evermarks/%s/", assetID)
	var count int64
	err := s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Model(&schema.Evermark{}).
		Where("image_storage_key LIKE ? OR metadata_uri LIKE ?", prefix+"%", "%/"+prefix+"%").
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check asset references: %w", err)
	}
	return count > 0, nil
}

// GetSeasonAt returns the season containing t
func (s *pgStore) GetSeasonAt(ctx context.Context, t time.Time) (*schema.Season, error) {
	var season schema.Season
	err := s.db.WithContext(ctx).
		Where("start_time <= ? AND end_time > ?", t, t).
		Order("number DESC").
		First(&season).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return &season, nil
}

// UpsertSeason inserts or updates a season window
func (s *pgStore) UpsertSeason(ctx context.Context, season domain.Season) error {
	if season.Number <= 0 {
		return fmt.Errorf("invalid season number: %d", season.Number)
	}
	if !season.EndTime.After(season.StartTime) {
		return fmt.Errorf("season %d ends before it starts", season.Number)
	}

	row := schema.Season{
		Number:    season.Number,
		StartTime: season.StartTime.UTC(),
		EndTime:   season.EndTime.UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert season: %w", err)
	}
	return nil
}

// UpsertMediaAsset records derived artifacts for a minted evermark.
// Uses ON CONFLICT so re-running artifact generation replaces the variants.
func (s *pgStore) UpsertMediaAsset(ctx context.Context, input CreateMediaAssetInput) (*schema.EvermarkMediaAsset, error) {
	variantJSON, err := json.Marshal(input.VariantURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal variant urls: %w", err)
	}

	var mediaAsset *schema.EvermarkMediaAsset
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var evermark schema.Evermark
		err := tx.Select("id").Where("token_id = ?", input.TokenID).First(&evermark).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: token %s", domain.ErrRecordNotFound, input.TokenID)
			}
			return fmt.Errorf("failed to get evermark: %w", err)
		}

		row := schema.EvermarkMediaAsset{
			EvermarkID:       evermark.ID,
			SourceURL:        input.SourceURL,
			MimeType:         input.MimeType,
			FileSizeBytes:    input.FileSizeBytes,
			Provider:         input.Provider,
			ProviderAssetID:  input.ProviderAssetID,
			ProviderMetadata: datatypes.JSON(input.ProviderMetadata),
			VariantURLs:      datatypes.JSON(variantJSON),
		}

		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "evermark_id"}, {Name: "provider"}},
			DoUpdates: append(clause.AssignmentColumns([]string{
				"source_url",
				"mime_type",
				"file_size_bytes",
				"provider_asset_id",
				"provider_metadata",
				"variant_urls",
			}), clause.Assignment{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("now()")}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to upsert media asset: %w", err)
		}

		mediaAsset = &row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mediaAsset, nil
}

// GetMediaAssetsByTokenID returns the derived artifacts of an evermark
func (s *pgStore) GetMediaAssetsByTokenID(ctx context.Context, tokenID string) ([]schema.EvermarkMediaAsset, error) {
	var assets []schema.EvermarkMediaAsset
	err := s.db.WithContext(ctx).
		Joins("JOIN evermarks ON evermarks.id = evermark_media_assets.evermark_id").
		Where("evermarks.token_id = ?", tokenID).
		Order("evermark_media_assets.id ASC").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get media assets: %w", err)
	}
	return assets, nil
}

// Ping checks database connectivity
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func normalizeLimit(limit int) int {
	const maxLimit = 100
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}
