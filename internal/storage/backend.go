package storage

import (
	"context"
)

// PrimaryBackend is a location-addressed object store. Objects are
// addressed by key and served from a public base URL.
//
//go:generate mockgen -source=backend.go -destination=../mocks/storage_backend.go -package=mocks -mock_names=PrimaryBackend=MockPrimaryBackend,ContentAddressedBackend=MockContentAddressedBackend
type PrimaryBackend interface {
	// Name identifies the backend in errors and logs
	Name() string

	// Put stores data under key
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Copy duplicates the object stored under fromKey to toKey
	Copy(ctx context.Context, fromKey, toKey string) error

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error

	// List returns all keys starting with prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns the public URL of key
	URL(key string) string
}

// ContentAddressedBackend pins content and returns its content identifier
type ContentAddressedBackend interface {
	// Name identifies the backend in errors and logs
	Name() string

	// PutFile pins a binary file
	PutFile(ctx context.Context, name string, data []byte, contentType string) (string, error)

	// PutJSON pins a JSON document
	PutJSON(ctx context.Context, name string, body []byte) (string, error)

	// GatewayURL returns the HTTP gateway URL of a content identifier
	GatewayURL(cid string) string
}
