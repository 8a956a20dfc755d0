package creation_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math/big"
	"slices"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/creation"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/metadata"
	"github.com/evermarks/evermark-minter/internal/mocks"
	"github.com/evermarks/evermark-minter/internal/persistence"
	"github.com/evermarks/evermark-minter/internal/storage"
)

const (
	testTxHash = "0x5f1c2e3d4b5a69788796a5b4c3d2e1f00112233445566778899aabbccddeeff0"
	minterAcct = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testMocks struct {
	ctrl    *gomock.Controller
	assets  *mocks.MockAssetStore
	guard   *mocks.MockDuplicateGuard
	minter  *mocks.MockChainMinter
	sync    *mocks.MockPersistenceSync
	seasons *mocks.MockSeasonOracle
	clock   *mocks.MockClock
}

func setupMocks(t *testing.T) *testMocks {
	ctrl := gomock.NewController(t)
	tm := &testMocks{
		ctrl:    ctrl,
		assets:  mocks.NewMockAssetStore(ctrl),
		guard:   mocks.NewMockDuplicateGuard(ctrl),
		minter:  mocks.NewMockChainMinter(ctrl),
		sync:    mocks.NewMockPersistenceSync(ctrl),
		seasons: mocks.NewMockSeasonOracle(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(fixedNow).AnyTimes()
	tm.minter.EXPECT().Account().Return(minterAcct).AnyTimes()
	return tm
}

func (tm *testMocks) orchestrator(assets storage.AssetStore) creation.Orchestrator {
	if assets == nil {
		assets = tm.assets
	}
	builder := metadata.NewBuilder(tm.clock, adapter.NewJSON())
	return creation.NewOrchestrator(assets, builder, tm.guard, tm.minter, tm.sync, tm.seasons, tm.clock)
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func lowVerdict() domain.DuplicateVerdict {
	return domain.DuplicateVerdict{Exists: false, Confidence: domain.DuplicateConfidenceLow}
}

func mintedReceipt(tokenID int64) *domain.MintReceipt {
	block := uint64(100)
	r := &domain.MintReceipt{TxHash: testTxHash, BlockNumber: &block}
	if tokenID > 0 {
		r.TokenID = big.NewInt(tokenID)
	} else {
		r.Warning = chain.MissingTokenIDWarning
	}
	return r
}

// expectMint stubs a mint that reports the awaiting state before returning
func (tm *testMocks) expectMint(receipt *domain.MintReceipt, err error) *gomock.Call {
	return tm.minter.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ chain.MintRequest, onState chain.StateFunc) (*domain.MintReceipt, error) {
			onState(chain.StateSubmitting, "")
			onState(chain.StateAwaitingReceipt, testTxHash)
			return receipt, err
		})
}

func doiRequest(t *testing.T) creation.Request {
	return creation.Request{
		Title:       "Paper X",
		Author:      "A. Author",
		ContentType: domain.ContentTypeDOI,
		DOI:         "10.1000/test",
		Image:       pngImage(t),
	}
}

func storedImage(contentHash string) *domain.ImageAsset {
	return &domain.ImageAsset{
		PrimaryURL:  "https://assets.example.com/evermarks/tmp-1/image.png",
		StorageKey:  "evermarks/tmp-1/image.png",
		ContentType: "image/png",
		ContentHash: contentHash,
		ByteSize:    100,
	}
}

func TestCreate_ScenarioA_DOI(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	req := doiRequest(t)
	img := storedImage("bafyimage")
	relocated := *img
	relocated.StorageKey = "evermarks/7/image.png"
	relocated.PrimaryURL = "https://assets.example.com/evermarks/7/image.png"

	tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{ContentType: "image/png"}, nil)
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), "Paper X").DoAndReturn(
		func(_ context.Context, ref domain.ContentReference, _ string) domain.DuplicateVerdict {
			assert.Equal(t, "doi:10.1000/test", ref.Normalize())
			return lowVerdict()
		})
	tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), req.Image, "").DoAndReturn(
		func(_ context.Context, id string, _ []byte, _ string) (*domain.ImageAsset, error) {
			assert.True(t, storage.IsTemporaryID(id))
			return img, nil
		})
	tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, doc *domain.MetadataDocument) (*domain.MetadataLocation, error) {
			assert.Equal(t, "ipfs://bafyimage", doc.Image)
			assert.Equal(t, "10.1000/test", doc.Evermark.DOI)
			return &domain.MetadataLocation{URI: "ipfs://bafymeta", PrimaryURL: "https://assets.example.com/evermarks/tmp-1/metadata.json"}, nil
		})
	tm.minter.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, mr chain.MintRequest, onState chain.StateFunc) (*domain.MintReceipt, error) {
			assert.Equal(t, "ipfs://bafymeta", mr.MetadataURI)
			assert.Equal(t, "Paper X", mr.Title)
			assert.Equal(t, "A. Author", mr.Creator)
			onState(chain.StateAwaitingReceipt, testTxHash)
			return mintedReceipt(7), nil
		})
	tm.assets.EXPECT().RelocateImage(gomock.Any(), *img, "7").Return(&relocated, nil)
	tm.seasons.EXPECT().CurrentSeason(gomock.Any()).Return(domain.Season{Number: 3}, nil)
	tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record domain.EvermarkRecord) persistence.Result {
			assert.Equal(t, domain.ContentTypeDOI, record.ContentReference.ContentType)
			assert.Equal(t, "7", record.TokenID)
			assert.Equal(t, testTxHash, record.TxHash)
			assert.Equal(t, relocated.StorageKey, record.ImageAsset.StorageKey)
			assert.Equal(t, minterAcct, record.Owner)
			assert.Equal(t, 3, record.Season)
			return persistence.Result{Status: persistence.StatusOK}
		})

	var percents []int
	result, err := tm.orchestrator(nil).Create(context.Background(), req, func(p creation.Progress) {
		percents = append(percents, p.Percent)
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.PartialSuccess)
	assert.False(t, result.NeedsReconciliation)
	assert.Equal(t, testTxHash, result.TxHash)
	assert.Equal(t, "7", result.TokenID)
	assert.Equal(t, "ipfs://bafymeta", result.MetadataURI)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []int{5, 10, 25, 40, 50, 60, 75, 85, 90, 100}, percents)
}

func TestCreate_ScenarioB_ExactDuplicate(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	req := creation.Request{
		Title:       "An article",
		ContentType: domain.ContentTypeURL,
		SourceURL:   "https://example.com/article",
		Image:       pngImage(t),
	}
	matched := "12"
	tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{ContentType: "image/png"}, nil)
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), req.Title).Return(domain.DuplicateVerdict{
		Exists:          true,
		Confidence:      domain.DuplicateConfidenceExact,
		MatchedRecordID: &matched,
	})
	// No upload, mint or persistence expectations: any such call fails the test

	result, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateExact)
	assert.False(t, result.Success)
	assert.Equal(t, creation.StepDuplicateCheck, result.FailedStep)
	assert.Equal(t, "DuplicateContent", result.ErrorKind)
	require.NotNil(t, result.Duplicate)
	assert.Equal(t, "12", *result.Duplicate.MatchedRecordID)
	assert.Empty(t, result.TxHash)
}

func TestCreate_ScenarioC_SecondaryFails(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	primary := mocks.NewMockPrimaryBackend(tm.ctrl)
	secondary := mocks.NewMockContentAddressedBackend(tm.ctrl)
	primary.EXPECT().Name().Return("cloudflare-kv").AnyTimes()
	secondary.EXPECT().Name().Return("pinata").AnyTimes()
	primary.EXPECT().URL(gomock.Any()).DoAndReturn(func(key string) string {
		return "https://assets.example.com/" + key
	}).AnyTimes()
	primary.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	secondary.EXPECT().PutFile(gomock.Any(), gomock.Any(), gomock.Any(), "image/png").Return("", errors.New("pinata: 503"))
	secondary.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("pinata: 503"))
	tm.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		return make(chan time.Time)
	}).AnyTimes()

	assets := storage.NewAssetStore(storage.Config{}, primary, secondary, adapter.NewJSON(), nil, tm.clock)

	req := creation.Request{
		Title:       "An article",
		ContentType: domain.ContentTypeURL,
		SourceURL:   "https://example.com/article",
		Image:       pngImage(t),
	}
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), req.Title).Return(lowVerdict())
	tm.minter.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, mr chain.MintRequest, _ chain.StateFunc) (*domain.MintReceipt, error) {
			assert.Contains(t, mr.MetadataURI, "https://assets.example.com/evermarks/tmp-")
			return mintedReceipt(8), nil
		})
	tm.seasons.EXPECT().CurrentSeason(gomock.Any()).Return(domain.Season{Number: 1}, nil)
	tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).Return(persistence.Result{Status: persistence.StatusOK})

	result, err := tm.orchestrator(assets).Create(context.Background(), req, nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.ImageAsset)
	assert.Empty(t, result.ImageAsset.SecondaryURL)
	assert.Empty(t, result.ImageAsset.ContentHash)
	assert.NotEmpty(t, result.ImageAsset.PrimaryURL)
	assert.Equal(t, 4, result.ImageAsset.Width)
	assert.Contains(t, result.Warnings, creation.WarningNotReplicated)
}

func TestCreate_ScenarioD_PersistenceFails(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	req := doiRequest(t)
	img := storedImage("")
	tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{}, nil)
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(lowVerdict())
	tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(img, nil)
	tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.MetadataLocation{URI: "https://assets.example.com/evermarks/tmp-1/metadata.json"}, nil)
	tm.expectMint(mintedReceipt(9), nil)
	tm.seasons.EXPECT().CurrentSeason(gomock.Any()).Return(domain.Season{Number: 1}, nil)
	tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).Return(persistence.Result{
		Status: persistence.StatusError,
		Err:    &domain.PersistenceError{TokenID: "9", Err: errors.New("database down")},
	})

	result, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.NeedsReconciliation)
	assert.Equal(t, testTxHash, result.TxHash)
	assert.Contains(t, result.Warnings, creation.WarningNotPersisted)
}

func TestCreate_PartialSuccessAfterSubmission(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	req := doiRequest(t)
	tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{}, nil)
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(lowVerdict())
	tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(storedImage("bafyimage"), nil)
	tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.MetadataLocation{URI: "ipfs://bafymeta"}, nil)
	tm.expectMint(nil, &chain.Error{
		Kind:   chain.ErrorKindReceiptTimeout,
		State:  chain.StateAwaitingReceipt,
		TxHash: testTxHash,
		Err:    errors.New("no receipt after 2m0s"),
	})
	tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record domain.EvermarkRecord) persistence.Result {
			assert.Equal(t, testTxHash, record.TxHash)
			assert.Empty(t, record.TokenID)
			assert.Equal(t, "ipfs://bafymeta", record.MetadataURI)
			assert.Equal(t, "doi:10.1000/test", record.ContentReference.Normalize())
			assert.Equal(t, "evermarks/tmp-1/image.png", record.ImageAsset.StorageKey)
			assert.Equal(t, minterAcct, record.Owner)
			return persistence.Result{Status: persistence.StatusOKWithWarning, Warning: persistence.WarningTokenIDUnknown}
		})

	var last creation.Progress
	result, err := tm.orchestrator(nil).Create(context.Background(), req, func(p creation.Progress) { last = p })
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.True(t, result.PartialSuccess)
	assert.True(t, result.NeedsReconciliation)
	assert.Equal(t, testTxHash, result.TxHash)
	assert.Equal(t, string(chain.ErrorKindReceiptTimeout), result.ErrorKind)
	assert.Equal(t, creation.StepAwaitingConfirmation, result.FailedStep)
	assert.Equal(t, testTxHash, last.TxHash)
	assert.Equal(t, chain.UserMessage(chain.ErrorKindReceiptTimeout), result.Message)
	require.NotNil(t, result.Record)
	assert.Equal(t, testTxHash, result.Record.TxHash)
	assert.NotContains(t, result.Warnings, creation.WarningNotPersisted)
}

func TestCreate_PartialSuccessPendingRecord(t *testing.T) {
	tests := []struct {
		name        string
		kind        chain.ErrorKind
		synced      *persistence.Result
		wantRecord  bool
		wantWarning bool
	}{
		{
			name:       "broadcast connection dropped",
			kind:       chain.ErrorKindNetworkError,
			synced:     &persistence.Result{Status: persistence.StatusOKWithWarning, Warning: persistence.WarningTokenIDUnknown},
			wantRecord: true,
		},
		{
			name: "pending record not saved",
			kind: chain.ErrorKindReceiptTimeout,
			synced: &persistence.Result{
				Status: persistence.StatusError,
				Err:    &domain.PersistenceError{Err: errors.New("database down")},
			},
			wantRecord:  true,
			wantWarning: true,
		},
		{
			name: "reverted transaction",
			kind: chain.ErrorKindTransactionReverted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupMocks(t)
			defer tm.ctrl.Finish()

			req := doiRequest(t)
			tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{}, nil)
			tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(lowVerdict())
			tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(storedImage("bafyimage"), nil)
			tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.MetadataLocation{URI: "ipfs://bafymeta"}, nil)
			tm.expectMint(nil, &chain.Error{Kind: tt.kind, TxHash: testTxHash, Err: errors.New("boom")})
			if tt.synced != nil {
				tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, record domain.EvermarkRecord) persistence.Result {
						assert.Equal(t, testTxHash, record.TxHash)
						assert.Empty(t, record.TokenID)
						return *tt.synced
					})
			}

			result, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
			require.NoError(t, err)

			assert.True(t, result.PartialSuccess)
			assert.True(t, result.NeedsReconciliation)
			assert.Equal(t, tt.wantRecord, result.Record != nil)
			assert.Equal(t, tt.wantWarning, slices.Contains(result.Warnings, creation.WarningNotPersisted))
		})
	}
}

func TestCreate_ChainFailureBeforeSubmission(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	req := doiRequest(t)
	tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{}, nil)
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(lowVerdict())
	tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(storedImage(""), nil)
	tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.MetadataLocation{URI: "https://assets.example.com/m.json"}, nil)
	tm.minter.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, &chain.Error{
		Kind:  chain.ErrorKindContractPaused,
		State: chain.StateCheckingPaused,
		Err:   errors.New("contract is paused"),
	})

	result, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
	require.Error(t, err)

	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindContractPaused, chainErr.Kind)
	assert.False(t, result.Success)
	assert.False(t, result.PartialSuccess)
	assert.Empty(t, result.TxHash)
	assert.Equal(t, creation.StepMinting, result.FailedStep)
	assert.Equal(t, "ContractPaused", result.ErrorKind)
}

func TestCreate_HighDuplicate(t *testing.T) {
	req := creation.Request{
		Title:       "An article",
		ContentType: domain.ContentTypeURL,
		SourceURL:   "https://example.com/article?utm_source=x",
	}
	verdict := domain.DuplicateVerdict{Exists: true, Confidence: domain.DuplicateConfidenceHigh}

	t.Run("blocked without override", func(t *testing.T) {
		tm := setupMocks(t)
		defer tm.ctrl.Finish()

		r := req
		r.Image = pngImage(t)
		tm.assets.EXPECT().Validate(gomock.Any()).Return(&storage.ValidatedImage{}, nil)
		tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(verdict)

		_, err := tm.orchestrator(nil).Create(context.Background(), r, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateNeedsOverride)
	})

	t.Run("proceeds with override", func(t *testing.T) {
		tm := setupMocks(t)
		defer tm.ctrl.Finish()

		r := req
		r.Image = pngImage(t)
		r.OverrideDuplicate = true
		tm.assets.EXPECT().Validate(gomock.Any()).Return(&storage.ValidatedImage{}, nil)
		tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(verdict)
		tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(storedImage(""), nil)
		tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.MetadataLocation{URI: "https://assets.example.com/m.json"}, nil)
		tm.expectMint(mintedReceipt(10), nil)
		tm.seasons.EXPECT().CurrentSeason(gomock.Any()).Return(domain.Season{}, errors.New("season unknown"))
		tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).Return(persistence.Result{Status: persistence.StatusOK})

		result, err := tm.orchestrator(nil).Create(context.Background(), r, nil)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Duplicate)
		assert.Contains(t, result.Warnings, creation.WarningSeasonUnknown)
		assert.Equal(t, 0, result.Record.Season)
	})
}

func TestCreate_MissingTokenID(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	req := doiRequest(t)
	tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{}, nil)
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(lowVerdict())
	tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(storedImage("bafyimage"), nil)
	tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.MetadataLocation{URI: "ipfs://bafymeta"}, nil)
	tm.expectMint(mintedReceipt(0), nil)
	tm.seasons.EXPECT().CurrentSeason(gomock.Any()).Return(domain.Season{Number: 2}, nil)
	tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).Return(persistence.Result{
		Status:  persistence.StatusOKWithWarning,
		Warning: persistence.WarningTokenIDUnknown,
	})
	// No RelocateImage expectation: the image stays under the temporary id

	result, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.NeedsReconciliation)
	assert.Empty(t, result.TokenID)
	assert.Contains(t, result.Warnings, chain.MissingTokenIDWarning)
	assert.Contains(t, result.Warnings, persistence.WarningTokenIDUnknown)
}

func TestCreate_RelocationFailureIsWarning(t *testing.T) {
	tm := setupMocks(t)
	defer tm.ctrl.Finish()

	req := doiRequest(t)
	img := storedImage("bafyimage")
	tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{}, nil)
	tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(lowVerdict())
	tm.assets.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(img, nil)
	tm.assets.EXPECT().UploadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.MetadataLocation{URI: "ipfs://bafymeta"}, nil)
	tm.expectMint(mintedReceipt(11), nil)
	tm.assets.EXPECT().RelocateImage(gomock.Any(), *img, "11").Return(nil, errors.New("kv unavailable"))
	tm.seasons.EXPECT().CurrentSeason(gomock.Any()).Return(domain.Season{Number: 2}, nil)
	tm.sync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record domain.EvermarkRecord) persistence.Result {
			assert.Equal(t, img.StorageKey, record.ImageAsset.StorageKey)
			return persistence.Result{Status: persistence.StatusOK}
		})

	result, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Warnings, creation.WarningRelocationFailed)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   func(t *testing.T) creation.Request
		field string
	}{
		{
			name: "unsupported content type",
			req: func(t *testing.T) creation.Request {
				return creation.Request{Title: "x", ContentType: "Podcast", Image: pngImage(t)}
			},
			field: "content_type",
		},
		{
			name: "URL content without URL",
			req: func(t *testing.T) creation.Request {
				return creation.Request{Title: "x", ContentType: domain.ContentTypeURL, Image: pngImage(t)}
			},
			field: "source_url",
		},
		{
			name: "malformed owner",
			req: func(t *testing.T) creation.Request {
				r := doiRequest(t)
				r.Owner = "0x1234"
				return r
			},
			field: "owner",
		},
		{
			name: "malformed referrer",
			req: func(t *testing.T) creation.Request {
				r := doiRequest(t)
				r.Referrer = "bob"
				return r
			},
			field: "referrer",
		},
		{
			name: "DOI content without DOI",
			req: func(t *testing.T) creation.Request {
				r := doiRequest(t)
				r.DOI = ""
				return r
			},
			field: "doi",
		},
		{
			name: "malformed DOI",
			req: func(t *testing.T) creation.Request {
				r := doiRequest(t)
				r.DOI = "doi-1000-test"
				r.SourceURL = "https://doi.org/10.1000/test"
				return r
			},
			field: "doi",
		},
		{
			name: "ISBN content with bad checksum",
			req: func(t *testing.T) creation.Request {
				return creation.Request{Title: "Book", ContentType: domain.ContentTypeISBN, ISBN: "978-0-306-40615-6", Image: pngImage(t)}
			},
			field: "isbn",
		},
		{
			name: "book record with malformed ISBN",
			req: func(t *testing.T) creation.Request {
				return creation.Request{Title: "Book", ContentType: domain.ContentTypeBookRecord, ISBN: "12345", Image: pngImage(t)}
			},
			field: "isbn",
		},
	}

	// No asset expectations: nothing may be uploaded for a rejected request
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupMocks(t)
			defer tm.ctrl.Finish()

			result, err := tm.orchestrator(nil).Create(context.Background(), tt.req(t), nil)
			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, creation.StepValidating, result.FailedStep)
			assert.Equal(t, "ValidationError", result.ErrorKind)
		})
	}

	t.Run("invalid image", func(t *testing.T) {
		tm := setupMocks(t)
		defer tm.ctrl.Finish()

		req := doiRequest(t)
		req.Image = []byte("not an image")
		tm.assets.EXPECT().Validate(req.Image).Return(nil, &domain.ValidationError{Field: "image", Err: domain.ErrUnsupportedImageType})

		_, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
		assert.ErrorIs(t, err, domain.ErrUnsupportedImageType)
	})

	t.Run("DOI given as resolver URL", func(t *testing.T) {
		tm := setupMocks(t)
		defer tm.ctrl.Finish()

		req := doiRequest(t)
		req.DOI = "https://doi.org/10.1000/Test"
		tm.assets.EXPECT().Validate(req.Image).Return(&storage.ValidatedImage{ContentType: "image/png"}, nil)
		tm.guard.EXPECT().Check(gomock.Any(), gomock.Any(), req.Title).DoAndReturn(
			func(_ context.Context, ref domain.ContentReference, _ string) domain.DuplicateVerdict {
				assert.Equal(t, "10.1000/Test", ref.DOI)
				assert.Equal(t, "doi:10.1000/test", ref.Normalize())
				return domain.DuplicateVerdict{Exists: true, Confidence: domain.DuplicateConfidenceExact}
			})

		result, err := tm.orchestrator(nil).Create(context.Background(), req, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateExact)
		assert.Equal(t, creation.StepDuplicateCheck, result.FailedStep)
	})
}
