package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Evermark represents the evermarks table - the queryable projection of a minted Evermark.
// The chain is authoritative for TokenID and TxHash; everything else is a best-effort cache.
type Evermark struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TxHash is the mint transaction hash, always known once a record exists
	TxHash string `gorm:"column:tx_hash;not null;uniqueIndex;type:text"`
	// TokenID is the decimal token id; nil until the mint receipt has been parsed
	TokenID *string `gorm:"column:token_id;uniqueIndex;type:text"`

	// Content reference
	ContentType string `gorm:"column:content_type;not null;type:text"`
	SourceURL   string `gorm:"column:source_url;not null;type:text"`
	// NormalizedKey is the duplicate comparison key (host+path, doi:..., isbn:...)
	NormalizedKey string `gorm:"column:normalized_key;not null;type:text;index:idx_evermarks_normalized_key"`
	// SourceHost is the normalized host, used for title matches on the same site
	SourceHost  string  `gorm:"column:source_host;not null;type:text;index:idx_evermarks_source_host"`
	SourceQuery string  `gorm:"column:source_query;not null;default:'';type:text"`
	DOI         *string `gorm:"column:doi;type:text"`
	ISBN        *string `gorm:"column:isbn;type:text"`

	Title       string         `gorm:"column:title;not null;type:text"`
	Description *string        `gorm:"column:description;type:text"`
	Author      string         `gorm:"column:author;not null;type:text"`
	Owner       string         `gorm:"column:owner;not null;type:text;index:idx_evermarks_owner"`
	Referrer    *string        `gorm:"column:referrer;type:text"`
	Tags        datatypes.JSON `gorm:"column:tags;type:jsonb"`
	MetadataURI string         `gorm:"column:metadata_uri;not null;type:text"`

	// Image asset
	ImagePrimaryURL   string  `gorm:"column:image_primary_url;not null;type:text"`
	ImageSecondaryURL *string `gorm:"column:image_secondary_url;type:text"`
	ImageContentHash  *string `gorm:"column:image_content_hash;type:text"`
	ImageStorageKey   string  `gorm:"column:image_storage_key;not null;type:text;index:idx_evermarks_image_storage_key"`
	ImageContentType  string  `gorm:"column:image_content_type;not null;type:text"`
	ImageByteSize     int64   `gorm:"column:image_byte_size;not null;default:0"`
	ImageWidth        int     `gorm:"column:image_width;not null;default:0"`
	ImageHeight       int     `gorm:"column:image_height;not null;default:0"`

	Verified    bool    `gorm:"column:verified;not null;default:false"`
	Season      int     `gorm:"column:season;not null;default:0;index:idx_evermarks_season"`
	BlockNumber *uint64 `gorm:"column:block_number"`

	// ReconcileFailedAt is set once the mint receipt proved the token id can never be resolved
	// (reverted transaction or no mint log). Such rows leave the sweep and duplicate lookups.
	ReconcileFailedAt *time.Time `gorm:"column:reconcile_failed_at;type:timestamptz"`
	ReconcileError    *string    `gorm:"column:reconcile_error;type:text"`

	// CreatedAt is the creation time reported by the minting pipeline
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	MediaAssets []EvermarkMediaAsset `gorm:"foreignKey:EvermarkID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Evermark model
func (Evermark) TableName() string {
	return "evermarks"
}
