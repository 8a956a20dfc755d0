package duplicate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/duplicate"
	"github.com/evermarks/evermark-minter/internal/mocks"
	"github.com/evermarks/evermark-minter/internal/store/schema"
	"github.com/evermarks/evermark-minter/internal/types"
)

func setupGuard(t *testing.T, maxRetries uint64) (*mocks.MockStore, duplicate.Guard) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	guard := duplicate.NewGuard(store, duplicate.Config{
		LookupTimeout:   time.Second,
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
	})
	return store, guard
}

func evermark(tokenID, query string) schema.Evermark {
	return schema.Evermark{
		TokenID:     types.StringPtr(tokenID),
		TxHash:      "0xabc" + tokenID,
		SourceQuery: query,
	}
}

func TestGuard_Check(t *testing.T) {
	tests := []struct {
		name       string
		ref        domain.ContentReference
		title      string
		setup      func(store *mocks.MockStore)
		confidence domain.DuplicateConfidence
		exists     bool
		matched    string
	}{
		{
			name:  "exact match with same query",
			ref:   domain.ContentReference{SourceURL: "https://example.com/post?id=1", ContentType: domain.ContentTypeURL},
			title: "Post",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), "example.com/post", gomock.Any()).
					Return([]schema.Evermark{evermark("7", "id=2"), evermark("9", "id=1")}, nil)
			},
			confidence: domain.DuplicateConfidenceExact,
			exists:     true,
			matched:    "9",
		},
		{
			name:  "high when only the query differs",
			ref:   domain.ContentReference{SourceURL: "http://www.example.com/post/", ContentType: domain.ContentTypeURL},
			title: "Post",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), "example.com/post", gomock.Any()).
					Return([]schema.Evermark{evermark("7", "utm_source=x")}, nil)
			},
			confidence: domain.DuplicateConfidenceHigh,
			exists:     true,
			matched:    "7",
		},
		{
			name: "doi identifier match is exact",
			ref:  domain.ContentReference{SourceURL: "https://doi.org/10.1000/ABC?download=1", ContentType: domain.ContentTypeDOI},
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), "doi:10.1000/abc", gomock.Any()).
					Return([]schema.Evermark{evermark("3", "")}, nil)
			},
			confidence: domain.DuplicateConfidenceExact,
			exists:     true,
			matched:    "3",
		},
		{
			name:  "medium on same host and title",
			ref:   domain.ContentReference{SourceURL: "https://example.com/new-path", ContentType: domain.ContentTypeURL},
			title: "  Great Article ",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), "example.com/new-path", gomock.Any()).Return(nil, nil)
				store.EXPECT().FindEvermarksByHostAndTitle(gomock.Any(), "example.com", "Great Article", gomock.Any()).
					Return([]schema.Evermark{evermark("11", "")}, nil)
			},
			confidence: domain.DuplicateConfidenceMedium,
			exists:     true,
			matched:    "11",
		},
		{
			name:  "low when nothing matches",
			ref:   domain.ContentReference{SourceURL: "https://example.com/fresh", ContentType: domain.ContentTypeURL},
			title: "Fresh",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), "example.com/fresh", gomock.Any()).Return(nil, nil)
				store.EXPECT().FindEvermarksByHostAndTitle(gomock.Any(), "example.com", "Fresh", gomock.Any()).Return(nil, nil)
			},
			confidence: domain.DuplicateConfidenceLow,
		},
		{
			name:  "no title lookup without a title",
			ref:   domain.ContentReference{SourceURL: "https://example.com/fresh", ContentType: domain.ContentTypeURL},
			title: "",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), "example.com/fresh", gomock.Any()).Return(nil, nil)
			},
			confidence: domain.DuplicateConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, guard := setupGuard(t, 0)
			tt.setup(store)

			v := guard.Check(context.Background(), tt.ref, tt.title)
			assert.Equal(t, tt.exists, v.Exists)
			assert.Equal(t, tt.confidence, v.Confidence)
			assert.False(t, v.Degraded)
			if tt.matched != "" {
				require.NotNil(t, v.MatchedRecordID)
				assert.Equal(t, tt.matched, *v.MatchedRecordID)
			} else {
				assert.Nil(t, v.MatchedRecordID)
			}
		})
	}
}

func TestGuard_Check_Idempotent(t *testing.T) {
	store, guard := setupGuard(t, 0)
	ref := domain.ContentReference{SourceURL: "https://example.com/post?id=1", ContentType: domain.ContentTypeURL}

	store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), "example.com/post", gomock.Any()).
		Return([]schema.Evermark{evermark("9", "id=1")}, nil).Times(2)

	first := guard.Check(context.Background(), ref, "Post")
	second := guard.Check(context.Background(), ref, "Post")
	assert.Equal(t, first, second)
}

func TestGuard_Check_RetriesThenDegrades(t *testing.T) {
	store, guard := setupGuard(t, 2)
	ref := domain.ContentReference{SourceURL: "https://example.com/post", ContentType: domain.ContentTypeURL}

	store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).Times(3)

	v := guard.Check(context.Background(), ref, "Post")
	assert.False(t, v.Exists)
	assert.Equal(t, domain.DuplicateConfidenceLow, v.Confidence)
	assert.True(t, v.Degraded)
	assert.NoError(t, v.Decision(false))
}

func TestGuard_Check_RecoversAfterRetry(t *testing.T) {
	store, guard := setupGuard(t, 2)
	ref := domain.ContentReference{SourceURL: "https://example.com/post", ContentType: domain.ContentTypeURL}

	gomock.InOrder(
		store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout")),
		store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]schema.Evermark{evermark("5", "")}, nil),
	)

	v := guard.Check(context.Background(), ref, "Post")
	assert.Equal(t, domain.DuplicateConfidenceExact, v.Confidence)
	assert.False(t, v.Degraded)
}

func TestGuard_Check_MatchWithoutTokenIDUsesTxHash(t *testing.T) {
	store, guard := setupGuard(t, 0)
	ref := domain.ContentReference{SourceURL: "https://example.com/post", ContentType: domain.ContentTypeURL}

	store.EXPECT().FindEvermarksByNormalizedKey(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]schema.Evermark{{TxHash: "0xfeed"}}, nil)

	v := guard.Check(context.Background(), ref, "")
	require.NotNil(t, v.MatchedRecordID)
	assert.Equal(t, "0xfeed", *v.MatchedRecordID)
}

func TestVerdict_Decision(t *testing.T) {
	exact := domain.DuplicateVerdict{Exists: true, Confidence: domain.DuplicateConfidenceExact}
	high := domain.DuplicateVerdict{Exists: true, Confidence: domain.DuplicateConfidenceHigh}
	medium := domain.DuplicateVerdict{Exists: true, Confidence: domain.DuplicateConfidenceMedium}
	low := domain.DuplicateVerdict{Confidence: domain.DuplicateConfidenceLow}

	assert.ErrorIs(t, exact.Decision(false), domain.ErrDuplicateExact)
	assert.ErrorIs(t, exact.Decision(true), domain.ErrDuplicateExact)
	assert.ErrorIs(t, high.Decision(false), domain.ErrDuplicateNeedsOverride)
	assert.NoError(t, high.Decision(true))
	assert.NoError(t, medium.Decision(false))
	assert.NoError(t, low.Decision(false))

	var dupErr *domain.DuplicateError
	require.True(t, errors.As(high.Decision(false), &dupErr))
	assert.Equal(t, domain.DuplicateConfidenceHigh, dupErr.Verdict.Confidence)
}
