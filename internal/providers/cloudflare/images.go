package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudflare/cloudflare-go"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
)

const IMAGES_PROVIDER_NAME = "cloudflare-images"

// ImagesConfig holds configuration for Cloudflare Images
type ImagesConfig struct {
	AccountID string
	// Variants restricts the variants kept from an upload; empty keeps all
	Variants []string
}

// UploadResult is the outcome of an Images upload
type UploadResult struct {
	ProviderAssetID string
	// VariantURLs maps variant names to delivery URLs, e.g. {"thumbnail": "https://imagedelivery.net/..."}
	VariantURLs map[string]string
	UploadedAt  time.Time
}

// ImagesProvider produces resized variants of stored Evermark images
//
//go:generate mockgen -source=images.go -destination=../../mocks/cloudflare_images.go -package=mocks -mock_names=ImagesProvider=MockImagesProvider
type ImagesProvider interface {
	// UploadFromURL lets Cloudflare fetch sourceURL and derive its variants
	UploadFromURL(ctx context.Context, sourceURL string, metadata map[string]any) (*UploadResult, error)

	// Delete removes an uploaded image and its variants
	Delete(ctx context.Context, providerAssetID string) error

	// Name returns the provider name
	Name() string
}

type imagesProvider struct {
	client   adapter.CloudflareClient
	config   ImagesConfig
	rc       *cloudflare.ResourceContainer
	variants map[string]struct{}
}

// NewImagesProvider creates a Cloudflare Images provider
func NewImagesProvider(client adapter.CloudflareClient, config ImagesConfig) ImagesProvider {
	variants := make(map[string]struct{}, len(config.Variants))
	for _, v := range config.Variants {
		variants[v] = struct{}{}
	}

	return &imagesProvider{
		client:   client,
		config:   config,
		variants: variants,
		rc: &cloudflare.ResourceContainer{
			Level:      cloudflare.AccountRouteLevel,
			Identifier: config.AccountID,
		},
	}
}

func (p *imagesProvider) Name() string {
	return IMAGES_PROVIDER_NAME
}

func (p *imagesProvider) UploadFromURL(ctx context.Context, sourceURL string, metadata map[string]any) (*UploadResult, error) {
	if !domain.IsValidHTTPURL(sourceURL) {
		logger.WarnCtx(ctx, "Invalid image URL", zap.String("url", sourceURL))
		return nil, domain.ErrInvalidURL
	}

	var image cloudflare.Image
	operation := func() error {
		var err error
		image, err = p.client.UploadImage(ctx, p.rc, cloudflare.UploadImageParams{
			URL:      sourceURL,
			Metadata: metadata,
		})
		if err != nil {
			var reqErr *cloudflare.RequestError
			if errors.As(err, &reqErr) {
				// 4xx other than rate limiting will not succeed on retry
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("failed to upload image to cloudflare images: %w", err)
	}

	result := &UploadResult{
		ProviderAssetID: image.ID,
		VariantURLs:     make(map[string]string),
		UploadedAt:      image.Uploaded,
	}
	for _, variantURL := range image.Variants {
		name := path.Base(variantURL)
		if len(p.variants) > 0 {
			if _, ok := p.variants[name]; !ok {
				continue
			}
		}
		result.VariantURLs[name] = variantURL
	}

	logger.InfoCtx(ctx, "Uploaded to Cloudflare Images",
		zap.String("imageID", image.ID),
		zap.Int("variantCount", len(result.VariantURLs)))

	return result, nil
}

func (p *imagesProvider) Delete(ctx context.Context, providerAssetID string) error {
	if err := p.client.DeleteImage(ctx, p.rc, providerAssetID); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", providerAssetID, err)
	}
	return nil
}
