package store

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/store/schema"
	"github.com/evermarks/evermark-minter/internal/types"
)

func toSchemaEvermark(record domain.EvermarkRecord) (*schema.Evermark, error) {
	ref := record.ContentReference

	var tags datatypes.JSON
	if len(record.Tags) > 0 {
		raw, err := json.Marshal(record.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		tags = raw
	}

	row := &schema.Evermark{
		TxHash:            record.TxHash,
		TokenID:           optionalString(record.TokenID),
		ContentType:       string(ref.ContentType),
		SourceURL:         ref.SourceURL,
		NormalizedKey:     ref.Normalize(),
		SourceHost:        ref.Host(),
		SourceQuery:       ref.RawQuery(),
		DOI:               optionalString(ref.DOI),
		ISBN:              optionalString(domain.NormalizeISBN(ref.ISBN)),
		Title:             record.Title,
		Description:       optionalString(record.Description),
		Author:            record.Author,
		Owner:             record.Owner,
		Referrer:          optionalString(record.Referrer),
		Tags:              tags,
		MetadataURI:       record.MetadataURI,
		ImagePrimaryURL:   record.ImageAsset.PrimaryURL,
		ImageSecondaryURL: optionalString(record.ImageAsset.SecondaryURL),
		ImageContentHash:  optionalString(record.ImageAsset.ContentHash),
		ImageStorageKey:   record.ImageAsset.StorageKey,
		ImageContentType:  record.ImageAsset.ContentType,
		ImageByteSize:     record.ImageAsset.ByteSize,
		ImageWidth:        record.ImageAsset.Width,
		ImageHeight:       record.ImageAsset.Height,
		Verified:          record.Verified,
		Season:            record.Season,
		BlockNumber:       record.BlockNumber,
	}
	if !record.CreatedAt.IsZero() {
		row.CreatedAt = record.CreatedAt.UTC()
	}

	return row, nil
}

// ToDomainRecord converts a stored evermark back into its domain projection
func ToDomainRecord(e *schema.Evermark) domain.EvermarkRecord {
	var tags []string
	if len(e.Tags) > 0 {
		// Tags are written by this package; a decode failure leaves them empty
		_ = json.Unmarshal(e.Tags, &tags)
	}

	return domain.EvermarkRecord{
		TokenID: types.SafeString(e.TokenID),
		TxHash:  e.TxHash,
		ContentReference: domain.ContentReference{
			SourceURL:   e.SourceURL,
			ContentType: domain.ContentType(e.ContentType),
			DOI:         types.SafeString(e.DOI),
			ISBN:        types.SafeString(e.ISBN),
		},
		Title:       e.Title,
		Description: types.SafeString(e.Description),
		MetadataURI: e.MetadataURI,
		ImageAsset: domain.ImageAsset{
			PrimaryURL:   e.ImagePrimaryURL,
			SecondaryURL: types.SafeString(e.ImageSecondaryURL),
			ContentHash:  types.SafeString(e.ImageContentHash),
			StorageKey:   e.ImageStorageKey,
			ContentType:  e.ImageContentType,
			ByteSize:     e.ImageByteSize,
			Width:        e.ImageWidth,
			Height:       e.ImageHeight,
		},
		Author:      e.Author,
		Owner:       e.Owner,
		Referrer:    types.SafeString(e.Referrer),
		Tags:        tags,
		Verified:    e.Verified,
		Season:      e.Season,
		BlockNumber: e.BlockNumber,
		CreatedAt:   e.CreatedAt,
	}
}

// ToDomainSeason converts a stored season
func ToDomainSeason(s *schema.Season) domain.Season {
	return domain.Season{
		Number:    s.Number,
		StartTime: s.StartTime.UTC(),
		EndTime:   s.EndTime.UTC(),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return types.StringPtr(s)
}
