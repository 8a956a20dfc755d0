package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/mocks"
	"github.com/evermarks/evermark-minter/internal/storage"
)

// publicBucket serves the keys written through the primary backend
type publicBucket struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (b *publicBucket) put(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[key] = true
}

func (b *publicBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keys[strings.TrimPrefix(r.URL.Path, "/")] {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func TestUploadedImageIsResolvable(t *testing.T) {
	bucket := &publicBucket{keys: map[string]bool{}}
	srv := httptest.NewServer(bucket)
	defer srv.Close()

	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryBackend(ctrl)
	primary.EXPECT().Name().Return("cloudflare-kv").AnyTimes()
	primary.EXPECT().URL(gomock.Any()).DoAndReturn(func(key string) string {
		return srv.URL + "/" + key
	}).AnyTimes()
	primary.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ []byte, _ string) error {
			bucket.put(key)
			return nil
		})

	store := storage.NewAssetStore(storage.Config{}, primary, nil, adapter.NewJSON(), adapter.NewHTTPClient(5*time.Second), mocks.NewMockClock(ctrl))

	asset, err := store.UploadImage(context.Background(), storage.NewTemporaryID(), pngBytes(t), "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, asset.PrimaryURL)

	assert.NoError(t, store.CheckResolvable(context.Background(), asset.PrimaryURL))
	assert.Error(t, store.CheckResolvable(context.Background(), srv.URL+"/evermarks/missing/image.png"))
}
