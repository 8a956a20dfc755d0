package schema

import (
	"time"

	"gorm.io/datatypes"
)

// StorageProvider represents the storage provider type
type StorageProvider string

// String returns the storage provider name
func (sp StorageProvider) String() string {
	return string(sp)
}

const (
	// StorageProviderCloudflareImages represents Cloudflare Images derived variants
	StorageProviderCloudflareImages StorageProvider = "cloudflare_images"
)

// EvermarkMediaAsset represents the evermark_media_assets table - derived artifacts
// (thumbnails, previews) generated after a mint
type EvermarkMediaAsset struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// EvermarkID references evermarks.id
	EvermarkID int64 `gorm:"column:evermark_id;not null;index:idx_evermark_media_assets_evermark_id;uniqueIndex:idx_evermark_media_assets_evermark_provider,priority:1"`
	// SourceURL is the primary image URL the artifact was generated from
	SourceURL string `gorm:"column:source_url;not null;type:text"`
	// MimeType is the MIME type of the source image
	MimeType *string `gorm:"column:mime_type;type:text"`
	// FileSizeBytes is the source image size in bytes
	FileSizeBytes *int64 `gorm:"column:file_size_bytes"`

	// Provider identifies the storage provider type
	Provider StorageProvider `gorm:"column:provider;not null;type:text;uniqueIndex:idx_evermark_media_assets_evermark_provider,priority:2"`
	// ProviderAssetID is the provider-specific ID (e.g. cf image id)
	ProviderAssetID *string `gorm:"column:provider_asset_id;type:text"`
	// ProviderMetadata stores provider-specific data as JSON
	ProviderMetadata datatypes.JSON `gorm:"column:provider_metadata;type:jsonb"`
	// VariantURLs stores variants by name (e.g. {"thumbnail": "https://...", "preview": "https://..."})
	VariantURLs datatypes.JSON `gorm:"column:variant_urls;not null;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the EvermarkMediaAsset model
func (EvermarkMediaAsset) TableName() string {
	return "evermark_media_assets"
}
