package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/evermarks/evermark-minter/internal/domain"
)

const (
	keyRoot          = "evermarks"
	imageFileName    = "image"
	metadataFileName = "metadata.json"
)

// NewTemporaryID returns an asset id for uploads that happen before the token id is known.
// The embedded ULID timestamp drives garbage collection.
func NewTemporaryID() string {
	return domain.TEMP_ASSET_ID_PREFIX + ulid.Make().String()
}

// IsTemporaryID reports whether id was produced by NewTemporaryID
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, domain.TEMP_ASSET_ID_PREFIX)
}

// TemporaryIDTime extracts the creation time of a temporary id
func TemporaryIDTime(id string) (time.Time, error) {
	if !IsTemporaryID(id) {
		return time.Time{}, fmt.Errorf("not a temporary id: %s", id)
	}
	u, err := ulid.ParseStrict(strings.TrimPrefix(id, domain.TEMP_ASSET_ID_PREFIX))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid temporary id %s: %w", id, err)
	}
	return ulid.Time(u.Time()).UTC(), nil
}

// AssetPrefix returns the key prefix of every object belonging to id
func AssetPrefix(id string) string {
	return path.Join(keyRoot, id) + "/"
}

// ImageKey returns the storage key of the image of id
func ImageKey(id string, contentType string) string {
	return AssetPrefix(id) + imageFileName + domain.AllowedImageTypes[contentType]
}

// MetadataKey returns the storage key of the metadata document of id
func MetadataKey(id string) string {
	return AssetPrefix(id) + metadataFileName
}

// AssetIDFromKey returns the asset id segment of a storage key
func AssetIDFromKey(key string) string {
	rest, ok := strings.CutPrefix(key, keyRoot+"/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}

// ContentTypeForKey infers the content type of a stored object from its file name
func ContentTypeForKey(key string) string {
	ext := path.Ext(key)
	for ct, e := range domain.AllowedImageTypes {
		if e == ext {
			return ct
		}
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func isMetadataKey(key string) bool {
	return path.Base(key) == metadataFileName
}
