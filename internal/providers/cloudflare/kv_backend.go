package cloudflare

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudflare/cloudflare-go"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/storage"
)

const (
	KV_BACKEND_NAME = "cloudflare-kv"
	kvListPageSize  = 1000
)

// KVConfig holds configuration for the Workers KV object store
type KVConfig struct {
	AccountID   string
	NamespaceID string
	// PublicBaseURL is the Worker route serving the namespace, e.g. https://assets.example.com
	PublicBaseURL string
}

// kvBackend stores objects as Workers KV values. A Worker bound to the
// namespace serves them under PublicBaseURL using the content type kept in
// the key metadata.
type kvBackend struct {
	client adapter.CloudflareClient
	config KVConfig
	rc     *cloudflare.ResourceContainer
}

type kvMetadata struct {
	ContentType string `json:"content_type"`
}

// NewKVBackend creates the primary storage backend
func NewKVBackend(client adapter.CloudflareClient, config KVConfig) storage.PrimaryBackend {
	config.PublicBaseURL = strings.TrimRight(config.PublicBaseURL, "/")
	return &kvBackend{
		client: client,
		config: config,
		rc:     cloudflare.AccountIdentifier(config.AccountID),
	}
}

func (b *kvBackend) Name() string {
	return KV_BACKEND_NAME
}

func (b *kvBackend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.WriteWorkersKVEntries(ctx, b.rc, cloudflare.WriteWorkersKVEntriesParams{
		NamespaceID: b.config.NamespaceID,
		KVs: []*cloudflare.WorkersKVPair{
			{
				Key:      key,
				Value:    base64.StdEncoding.EncodeToString(data),
				Base64:   true,
				Metadata: kvMetadata{ContentType: contentType},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (b *kvBackend) Copy(ctx context.Context, fromKey, toKey string) error {
	data, err := b.client.GetWorkersKV(ctx, b.rc, cloudflare.GetWorkersKVParams{
		NamespaceID: b.config.NamespaceID,
		Key:         fromKey,
	})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fromKey, err)
	}

	return b.Put(ctx, toKey, data, storage.ContentTypeForKey(toKey))
}

func (b *kvBackend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteWorkersKVEntry(ctx, b.rc, cloudflare.DeleteWorkersKVEntryParams{
		NamespaceID: b.config.NamespaceID,
		Key:         key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (b *kvBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor string
	)

	for {
		resp, err := b.client.ListWorkersKVKeys(ctx, b.rc, cloudflare.ListWorkersKVsParams{
			NamespaceID: b.config.NamespaceID,
			Prefix:      prefix,
			Limit:       kvListPageSize,
			Cursor:      cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}

		for _, k := range resp.Result {
			keys = append(keys, k.Name)
		}

		if resp.ResultInfo.Cursor == "" || len(resp.Result) == 0 {
			return keys, nil
		}
		cursor = resp.ResultInfo.Cursor
	}
}

func (b *kvBackend) URL(key string) string {
	return b.config.PublicBaseURL + "/" + key
}
