package workflowsmedia

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/providers/cloudflare"
	"github.com/evermarks/evermark-minter/internal/store"
	"github.com/evermarks/evermark-minter/internal/store/schema"
)

// ArtifactsRequest identifies the minted Evermark whose image gets derived variants
type ArtifactsRequest struct {
	TokenID       string `json:"token_id"`
	TxHash        string `json:"tx_hash"`
	ImageURL      string `json:"image_url"`
	MimeType      string `json:"mime_type,omitempty"`
	FileSizeBytes int64  `json:"file_size_bytes,omitempty"`
}

// Executor defines the activities of the derived-artifact workflow
//
//go:generate mockgen -source=executor.go -destination=../../mocks/executor_media.go -package=mocks -mock_names=Executor=MockMediaExecutor
type Executor interface {
	// GenerateDerivedArtifacts uploads the primary image to Cloudflare Images and records its variants
	GenerateDerivedArtifacts(ctx context.Context, req ArtifactsRequest) error
}

type executor struct {
	store    store.Store
	images   cloudflare.ImagesProvider
	json     adapter.JSON
	activity adapter.Activity
}

// NewExecutor creates a new media executor instance
func NewExecutor(st store.Store, images cloudflare.ImagesProvider, jsonAdapter adapter.JSON, activity adapter.Activity) Executor {
	return &executor{
		store:    st,
		images:   images,
		json:     jsonAdapter,
		activity: activity,
	}
}

func (e *executor) GenerateDerivedArtifacts(ctx context.Context, req ArtifactsRequest) error {
	if req.TokenID == "" {
		return temporal.NewNonRetryableApplicationError("token id is required", "InvalidInput", nil)
	}
	if !domain.IsValidHTTPURL(req.ImageURL) {
		return temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("invalid image URL: %s", req.ImageURL), "InvalidInput", domain.ErrInvalidURL)
	}

	existing, err := e.store.GetMediaAssetsByTokenID(ctx, req.TokenID)
	if err != nil {
		return fmt.Errorf("failed to load media assets: %w", err)
	}
	for _, asset := range existing {
		if asset.Provider == schema.StorageProviderCloudflareImages && asset.SourceURL == req.ImageURL {
			logger.InfoCtx(ctx, "Derived artifacts already exist", zap.String("token_id", req.TokenID))
			return nil
		}
	}

	// Cloudflare fetches the image itself; the upload can take a while
	e.activity.RecordHeartbeat(ctx, req.TokenID)
	result, err := e.images.UploadFromURL(ctx, req.ImageURL, map[string]any{
		"token_id": req.TokenID,
		"tx_hash":  req.TxHash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidURL) {
			return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
		}
		logger.WarnCtx(ctx, "Image upload failed",
			zap.String("token_id", req.TokenID),
			zap.Int32("attempt", e.activity.Attempt(ctx)),
			zap.Error(err))
		return fmt.Errorf("failed to upload image: %w", err)
	}

	metadata, err := e.json.Marshal(map[string]any{
		"provider":    e.images.Name(),
		"uploaded_at": result.UploadedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal provider metadata: %w", err)
	}

	input := store.CreateMediaAssetInput{
		TokenID:          req.TokenID,
		SourceURL:        req.ImageURL,
		Provider:         schema.StorageProviderCloudflareImages,
		ProviderAssetID:  &result.ProviderAssetID,
		ProviderMetadata: metadata,
		VariantURLs:      result.VariantURLs,
	}
	if req.MimeType != "" {
		input.MimeType = &req.MimeType
	}
	if req.FileSizeBytes > 0 {
		input.FileSizeBytes = &req.FileSizeBytes
	}

	if _, err := e.store.UpsertMediaAsset(ctx, input); err != nil {
		// Do not leave an orphaned image behind; the retry uploads a new one
		if delErr := e.images.Delete(ctx, result.ProviderAssetID); delErr != nil {
			logger.WarnCtx(ctx, "Failed to clean up uploaded image",
				zap.String("image_id", result.ProviderAssetID),
				zap.Error(delErr))
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			// The record may not have been persisted yet; let Temporal retry
			return fmt.Errorf("evermark %s not indexed yet: %w", req.TokenID, err)
		}
		return fmt.Errorf("failed to save media asset: %w", err)
	}

	logger.InfoCtx(ctx, "Derived artifacts generated",
		zap.String("token_id", req.TokenID),
		zap.Int("variants", len(result.VariantURLs)))
	return nil
}
