package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
)

// AssetStore stores Evermark images and metadata documents on a required
// primary backend, replicating to an optional content-addressed backend.
//
//go:generate mockgen -source=asset_store.go -destination=../mocks/asset_store.go -package=mocks -mock_names=AssetStore=MockAssetStore
type AssetStore interface {
	// Validate checks an image before any network call
	Validate(data []byte) (*ValidatedImage, error)

	// UploadImage validates and stores an image under id
	UploadImage(ctx context.Context, id string, data []byte, contentTypeHint string) (*domain.ImageAsset, error)

	// UploadMetadata stores the canonical JSON of doc under id
	UploadMetadata(ctx context.Context, id string, doc *domain.MetadataDocument) (*domain.MetadataLocation, error)

	// MoveAsset copies every object of fromID except the metadata document to toID,
	// then deletes the sources. Published metadata documents never move.
	MoveAsset(ctx context.Context, fromID, toID string) error

	// RelocateImage moves the image of asset to toID and returns the updated asset
	RelocateImage(ctx context.Context, asset domain.ImageAsset, toID string) (*domain.ImageAsset, error)

	// CheckResolvable verifies that url answers 200
	CheckResolvable(ctx context.Context, url string) error

	// PurgeTemporary deletes temporary assets older than olderThan that are not in use
	PurgeTemporary(ctx context.Context, olderThan time.Duration, inUse InUseFunc) (*PurgeReport, error)
}

// InUseFunc reports whether an asset id is still referenced by a record
type InUseFunc func(ctx context.Context, assetID string) (bool, error)

// PurgeReport summarizes a PurgeTemporary run
type PurgeReport struct {
	Scanned int
	Purged  []string
	Skipped []string
}

// Config holds asset store configuration
type Config struct {
	MaxImageSize int64
	// MaxConcurrentReplications bounds in-flight secondary uploads across requests
	MaxConcurrentReplications int
	// ReplicationWait bounds how long a finished primary upload waits for the secondary
	ReplicationWait time.Duration
	// MoveMaxElapsedTime bounds the retries of each copy during relocation
	MoveMaxElapsedTime time.Duration
}

type assetStore struct {
	cfg       Config
	primary   PrimaryBackend
	secondary ContentAddressedBackend
	json      adapter.JSON
	http      adapter.HTTPClient
	clock     adapter.Clock
	pool      pond.Pool
}

// NewAssetStore creates an asset store. secondary may be nil to disable replication.
func NewAssetStore(
	cfg Config,
	primary PrimaryBackend,
	secondary ContentAddressedBackend,
	jsonAdapter adapter.JSON,
	httpClient adapter.HTTPClient,
	clock adapter.Clock,
) AssetStore {
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = domain.DEFAULT_MAX_IMAGE_SIZE
	}
	if cfg.MaxConcurrentReplications <= 0 {
		cfg.MaxConcurrentReplications = 16
	}
	if cfg.ReplicationWait <= 0 {
		cfg.ReplicationWait = 30 * time.Second
	}
	if cfg.MoveMaxElapsedTime <= 0 {
		cfg.MoveMaxElapsedTime = 30 * time.Second
	}

	return &assetStore{
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		json:      jsonAdapter,
		http:      httpClient,
		clock:     clock,
		pool:      pond.NewPool(cfg.MaxConcurrentReplications),
	}
}

func (s *assetStore) Validate(data []byte) (*ValidatedImage, error) {
	return ValidateImage(data, s.cfg.MaxImageSize)
}

func (s *assetStore) UploadImage(ctx context.Context, id string, data []byte, contentTypeHint string) (*domain.ImageAsset, error) {
	v, err := s.Validate(data)
	if err != nil {
		return nil, err
	}
	if contentTypeHint != "" && !strings.EqualFold(contentTypeHint, v.ContentType) {
		logger.DebugCtx(ctx, "Image content type hint differs from detected type",
			zap.String("hint", contentTypeHint),
			zap.String("detected", v.ContentType))
	}

	key := ImageKey(id, v.ContentType)
	cid, err := s.putBoth(ctx, key, func() error {
		return s.primary.Put(ctx, key, data, v.ContentType)
	}, func() (string, error) {
		return s.secondary.PutFile(ctx, id+path.Ext(key), data, v.ContentType)
	})
	if isFatal(err) {
		return nil, err
	}

	asset := &domain.ImageAsset{
		PrimaryURL:  s.primary.URL(key),
		StorageKey:  key,
		ContentType: v.ContentType,
		ByteSize:    int64(len(data)),
		Width:       v.Width,
		Height:      v.Height,
	}
	if cid != "" {
		asset.ContentHash = cid
		asset.SecondaryURL = s.secondary.GatewayURL(cid)
	}

	logger.InfoCtx(ctx, "Image stored",
		zap.String("key", key),
		zap.String("contentHash", asset.ContentHash),
		zap.Int64("bytes", asset.ByteSize))

	return asset, nil
}

func (s *assetStore) UploadMetadata(ctx context.Context, id string, doc *domain.MetadataDocument) (*domain.MetadataLocation, error) {
	if doc == nil {
		return nil, domain.NewValidationError("metadata", "document is nil")
	}

	body, err := s.json.Canonicalize(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	key := MetadataKey(id)
	cid, err := s.putBoth(ctx, key, func() error {
		return s.primary.Put(ctx, key, body, "application/json")
	}, func() (string, error) {
		return s.secondary.PutJSON(ctx, id+"-metadata.json", body)
	})
	if isFatal(err) {
		return nil, err
	}

	loc := &domain.MetadataLocation{
		URI:        s.primary.URL(key),
		PrimaryURL: s.primary.URL(key),
	}
	if cid != "" {
		loc.URI = "ipfs://" + cid
		loc.ContentHash = cid
	}

	logger.InfoCtx(ctx, "Metadata stored", zap.String("key", key), zap.String("uri", loc.URI))
	return loc, nil
}

// putBoth runs the secondary upload concurrently with the primary one.
// A primary failure is returned as a fatal StorageError. A secondary failure,
// or a secondary upload still running ReplicationWait after the primary
// finished, is logged and returned as a non-fatal one alongside an empty cid.
func (s *assetStore) putBoth(ctx context.Context, key string, primary func() error, secondary func() (string, error)) (string, error) {
	var (
		cid          string
		secondaryErr = domain.ErrSecondaryBackendDisabled
		task         pond.Task
	)

	if s.secondary != nil {
		task = s.pool.Submit(func() {
			cid, secondaryErr = secondary()
		})
	}

	primaryErr := primary()
	if primaryErr != nil {
		return "", &domain.StorageError{Backend: s.primary.Name(), Op: "put " + key, Fatal: true, Err: primaryErr}
	}

	if task == nil {
		return "", nil
	}

	select {
	case <-task.Done():
	case <-s.clock.After(s.cfg.ReplicationWait):
		logger.WarnCtx(ctx, "Content-addressed replication is slow, continuing with primary only",
			zap.String("key", key),
			zap.Duration("waited", s.cfg.ReplicationWait))
		return "", &domain.StorageError{Backend: s.secondary.Name(), Op: "pin " + key, Fatal: false, Err: context.DeadlineExceeded}
	case <-ctx.Done():
		return "", &domain.StorageError{Backend: s.secondary.Name(), Op: "pin " + key, Fatal: false, Err: ctx.Err()}
	}

	if secondaryErr != nil {
		logger.WarnCtx(ctx, "Content-addressed replication failed, continuing with primary only",
			zap.String("key", key),
			zap.String("backend", s.secondary.Name()),
			zap.Error(secondaryErr))
		return "", &domain.StorageError{Backend: s.secondary.Name(), Op: "pin " + key, Fatal: false, Err: secondaryErr}
	}
	return cid, nil
}

func (s *assetStore) MoveAsset(ctx context.Context, fromID, toID string) error {
	if fromID == "" || toID == "" || fromID == toID {
		return fmt.Errorf("invalid move from %q to %q", fromID, toID)
	}

	fromPrefix := AssetPrefix(fromID)
	keys, err := s.primary.List(ctx, fromPrefix)
	if err != nil {
		return &domain.StorageError{Backend: s.primary.Name(), Op: "list " + fromPrefix, Fatal: true, Err: err}
	}

	var moved []string
	for _, key := range keys {
		if isMetadataKey(key) {
			continue
		}
		toKey := AssetPrefix(toID) + strings.TrimPrefix(key, fromPrefix)
		if err := s.copyWithRetry(ctx, key, toKey); err != nil {
			return &domain.StorageError{Backend: s.primary.Name(), Op: "copy " + key, Fatal: true, Err: err}
		}
		moved = append(moved, key)
	}
	if len(moved) == 0 {
		return fmt.Errorf("no movable assets under %s", fromPrefix)
	}

	// Sources are removed only after every copy succeeded
	for _, key := range moved {
		if err := s.primary.Delete(ctx, key); err != nil {
			logger.WarnCtx(ctx, "Failed to delete source after copy", zap.String("key", key), zap.Error(err))
		}
	}

	logger.InfoCtx(ctx, "Assets moved",
		zap.String("from", fromID),
		zap.String("to", toID),
		zap.Int("count", len(moved)))
	return nil
}

func (s *assetStore) copyWithRetry(ctx context.Context, fromKey, toKey string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = s.cfg.MoveMaxElapsedTime

	return backoff.RetryNotify(func() error {
		return s.primary.Copy(ctx, fromKey, toKey)
	}, backoff.WithContext(b, ctx), func(err error, d time.Duration) {
		logger.WarnCtx(ctx, "Copy failed, retrying",
			zap.String("from", fromKey),
			zap.Duration("retryIn", d),
			zap.Error(err))
	})
}

// RelocateImage copies the known image key instead of listing the temporary
// prefix; a freshly written key may not be listed yet.
func (s *assetStore) RelocateImage(ctx context.Context, asset domain.ImageAsset, toID string) (*domain.ImageAsset, error) {
	fromID := AssetIDFromKey(asset.StorageKey)
	if fromID == "" || toID == "" || fromID == toID {
		return nil, fmt.Errorf("invalid relocation of %q to %q", asset.StorageKey, toID)
	}

	fromKey := asset.StorageKey
	toKey := AssetPrefix(toID) + strings.TrimPrefix(fromKey, AssetPrefix(fromID))
	if err := s.copyWithRetry(ctx, fromKey, toKey); err != nil {
		return nil, &domain.StorageError{Backend: s.primary.Name(), Op: "copy " + fromKey, Fatal: true, Err: err}
	}
	if err := s.primary.Delete(ctx, fromKey); err != nil {
		logger.WarnCtx(ctx, "Failed to delete source after copy", zap.String("key", fromKey), zap.Error(err))
	}

	logger.InfoCtx(ctx, "Image relocated", zap.String("from", fromKey), zap.String("to", toKey))
	asset.StorageKey = toKey
	asset.PrimaryURL = s.primary.URL(toKey)
	return &asset, nil
}

func (s *assetStore) CheckResolvable(ctx context.Context, url string) error {
	status, err := s.http.Head(ctx, url)
	if err != nil {
		return fmt.Errorf("asset %s is not reachable: %w", url, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("asset %s answered %d", url, status)
	}
	return nil
}

func (s *assetStore) PurgeTemporary(ctx context.Context, olderThan time.Duration, inUse InUseFunc) (*PurgeReport, error) {
	keys, err := s.primary.List(ctx, keyRoot+"/"+domain.TEMP_ASSET_ID_PREFIX)
	if err != nil {
		return nil, &domain.StorageError{Backend: s.primary.Name(), Op: "list temporary assets", Fatal: true, Err: err}
	}

	byID := make(map[string][]string)
	for _, key := range keys {
		if id := AssetIDFromKey(key); IsTemporaryID(id) {
			byID[id] = append(byID[id], key)
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := &PurgeReport{Scanned: len(ids)}
	for _, id := range ids {
		createdAt, err := TemporaryIDTime(id)
		if err != nil || s.clock.Since(createdAt) < olderThan {
			report.Skipped = append(report.Skipped, id)
			continue
		}

		if inUse != nil {
			used, err := inUse(ctx, id)
			if err != nil {
				logger.WarnCtx(ctx, "Failed to check asset usage, keeping it", zap.String("assetID", id), zap.Error(err))
				report.Skipped = append(report.Skipped, id)
				continue
			}
			if used {
				report.Skipped = append(report.Skipped, id)
				continue
			}
		}

		for _, key := range byID[id] {
			if err := s.primary.Delete(ctx, key); err != nil {
				return report, &domain.StorageError{Backend: s.primary.Name(), Op: "delete " + key, Fatal: true, Err: err}
			}
		}
		report.Purged = append(report.Purged, id)
	}

	logger.InfoCtx(ctx, "Temporary assets purged",
		zap.Int("scanned", report.Scanned),
		zap.Int("purged", len(report.Purged)))
	return report, nil
}

func isFatal(err error) bool {
	var se *domain.StorageError
	return errors.As(err, &se) && se.Fatal
}
