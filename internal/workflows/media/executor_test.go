package workflowsmedia_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/mocks"
	"github.com/evermarks/evermark-minter/internal/providers/cloudflare"
	"github.com/evermarks/evermark-minter/internal/store"
	"github.com/evermarks/evermark-minter/internal/store/schema"
	workflowsmedia "github.com/evermarks/evermark-minter/internal/workflows/media"
)

type testExecutorMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	images   *mocks.MockImagesProvider
	activity *mocks.MockActivity
	executor workflowsmedia.Executor
}

func setupTestExecutor(t *testing.T) *testExecutorMocks {
	ctrl := gomock.NewController(t)
	tm := &testExecutorMocks{
		ctrl:     ctrl,
		store:    mocks.NewMockStore(ctrl),
		images:   mocks.NewMockImagesProvider(ctrl),
		activity: mocks.NewMockActivity(ctrl),
	}
	tm.executor = workflowsmedia.NewExecutor(tm.store, tm.images, adapter.NewJSON(), tm.activity)
	tm.images.EXPECT().Name().Return(cloudflare.IMAGES_PROVIDER_NAME).AnyTimes()
	tm.activity.EXPECT().RecordHeartbeat(gomock.Any(), gomock.Any()).AnyTimes()
	return tm
}

func artifactsRequest() workflowsmedia.ArtifactsRequest {
	return workflowsmedia.ArtifactsRequest{
		TokenID:       "42",
		TxHash:        "0xabc",
		ImageURL:      "https://assets.example.com/evermarks/42/image.png",
		MimeType:      "image/png",
		FileSizeBytes: 2048,
	}
}

func TestGenerateDerivedArtifacts_Success(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	req := artifactsRequest()
	tm.store.EXPECT().GetMediaAssetsByTokenID(gomock.Any(), "42").Return(nil, nil)
	tm.images.EXPECT().UploadFromURL(gomock.Any(), req.ImageURL, gomock.Any()).Return(&cloudflare.UploadResult{
		ProviderAssetID: "cf-1",
		VariantURLs:     map[string]string{"thumbnail": "https://imagedelivery.net/x/cf-1/thumbnail"},
		UploadedAt:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}, nil)
	tm.store.EXPECT().UpsertMediaAsset(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input store.CreateMediaAssetInput) (*schema.EvermarkMediaAsset, error) {
			assert.Equal(t, "42", input.TokenID)
			assert.Equal(t, schema.StorageProviderCloudflareImages, input.Provider)
			assert.Equal(t, "cf-1", *input.ProviderAssetID)
			assert.Equal(t, "image/png", *input.MimeType)
			assert.Equal(t, int64(2048), *input.FileSizeBytes)
			assert.Contains(t, string(input.ProviderMetadata), cloudflare.IMAGES_PROVIDER_NAME)
			assert.Len(t, input.VariantURLs, 1)
			return &schema.EvermarkMediaAsset{ID: 1}, nil
		})

	require.NoError(t, tm.executor.GenerateDerivedArtifacts(context.Background(), req))
}

func TestGenerateDerivedArtifacts_AlreadyExists(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	req := artifactsRequest()
	tm.store.EXPECT().GetMediaAssetsByTokenID(gomock.Any(), "42").Return([]schema.EvermarkMediaAsset{
		{Provider: schema.StorageProviderCloudflareImages, SourceURL: req.ImageURL},
	}, nil)

	require.NoError(t, tm.executor.GenerateDerivedArtifacts(context.Background(), req))
}

func TestGenerateDerivedArtifacts_InvalidInput(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	req := artifactsRequest()
	req.ImageURL = "not-a-url"
	err := tm.executor.GenerateDerivedArtifacts(context.Background(), req)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())

	req = artifactsRequest()
	req.TokenID = ""
	err = tm.executor.GenerateDerivedArtifacts(context.Background(), req)
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
}

func TestGenerateDerivedArtifacts_SaveFailureCleansUp(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	req := artifactsRequest()
	tm.store.EXPECT().GetMediaAssetsByTokenID(gomock.Any(), "42").Return(nil, nil)
	tm.images.EXPECT().UploadFromURL(gomock.Any(), req.ImageURL, gomock.Any()).Return(&cloudflare.UploadResult{
		ProviderAssetID: "cf-2",
		VariantURLs:     map[string]string{},
	}, nil)
	tm.store.EXPECT().UpsertMediaAsset(gomock.Any(), gomock.Any()).Return(nil, domain.ErrRecordNotFound)
	tm.images.EXPECT().Delete(gomock.Any(), "cf-2").Return(nil)

	err := tm.executor.GenerateDerivedArtifacts(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestGenerateDerivedArtifacts_UploadFailure(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	req := artifactsRequest()
	tm.store.EXPECT().GetMediaAssetsByTokenID(gomock.Any(), "42").Return(nil, nil)
	tm.images.EXPECT().UploadFromURL(gomock.Any(), req.ImageURL, gomock.Any()).Return(nil, errors.New("502 bad gateway"))
	tm.activity.EXPECT().Attempt(gomock.Any()).Return(int32(2))

	err := tm.executor.GenerateDerivedArtifacts(context.Background(), req)
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	assert.False(t, errors.As(err, &appErr))
}
