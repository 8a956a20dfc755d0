package metadata_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/metadata"
	"github.com/evermarks/evermark-minter/internal/mocks"
	"github.com/evermarks/evermark-minter/internal/types"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testBuilderMocks struct {
	ctrl    *gomock.Controller
	clock   *mocks.MockClock
	builder metadata.Builder
}

func setupTestBuilder(t *testing.T) *testBuilderMocks {
	ctrl := gomock.NewController(t)
	tm := &testBuilderMocks{
		ctrl:  ctrl,
		clock: mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(fixedNow).AnyTimes()
	tm.builder = metadata.NewBuilder(tm.clock, adapter.NewJSON())
	return tm
}

func testImage() *domain.ImageAsset {
	return &domain.ImageAsset{
		PrimaryURL:  "https://assets.example.com/evermarks/tmp-1/image.png",
		ContentHash: "bafyimage",
		ContentType: "image/png",
	}
}

func TestBuilder_Build_UserFieldsWin(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	ref := domain.ContentReference{SourceURL: "https://example.com/article", ContentType: domain.ContentTypeURL}
	provider := &metadata.ProviderFields{
		Provider:    "opengraph",
		Title:       types.StringPtr("Provider Title"),
		Description: types.StringPtr("Provider description"),
		Authors:     []string{"Jane Doe"},
		SiteName:    types.StringPtr("Example"),
	}

	doc, err := tm.builder.Build(ref, testImage(), metadata.UserFields{
		Title:       "My Title",
		Description: "",
		Tags:        []string{"go", " Go ", "rust", ""},
		Creator:     "0x396343362be2A4dA1cE0C1C210945346fb82Aa49",
	}, provider)
	require.NoError(t, err)

	assert.Equal(t, "My Title", doc.Name)
	assert.Equal(t, "Provider description", doc.Description)
	assert.Equal(t, "ipfs://bafyimage", doc.Image)
	assert.Equal(t, "https://example.com/article", doc.ExternalURL)
	assert.Equal(t, "Jane Doe", doc.Evermark.Author)
	assert.Equal(t, []string{"go", "rust"}, doc.Evermark.Tags)
	assert.Equal(t, fixedNow, doc.Evermark.CreatedAt)
	assert.Equal(t, domain.METADATA_VERSION, doc.Evermark.Version)
	require.NotNil(t, doc.Evermark.Provenance)
	assert.Equal(t, "Example", doc.Evermark.Provenance.SiteName)
	assert.Equal(t, "opengraph", doc.Evermark.Provenance.ProviderName)

	assert.Contains(t, doc.Attributes, domain.Attribute{TraitType: "Content Type", Value: "URL"})
	assert.Contains(t, doc.Attributes, domain.Attribute{TraitType: "Tag", Value: "go"})
	assert.Contains(t, doc.Attributes, domain.Attribute{TraitType: "Created", Value: fixedNow.Unix()})
}

func TestBuilder_Build_UserAuthorOverridesProvider(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	ref := domain.ContentReference{SourceURL: "https://example.com", ContentType: domain.ContentTypeCustom}
	doc, err := tm.builder.Build(ref, testImage(), metadata.UserFields{Author: "Alice"}, &metadata.ProviderFields{Authors: []string{"Bob"}})
	require.NoError(t, err)
	assert.Equal(t, "Alice", doc.Evermark.Author)
	assert.Equal(t, "example.com", doc.Name)
}

func TestBuilder_Build_MissingPrimaryURL(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	ref := domain.ContentReference{SourceURL: "https://example.com", ContentType: domain.ContentTypeURL}

	_, err := tm.builder.Build(ref, nil, metadata.UserFields{Title: "t"}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingPrimaryURL)

	_, err = tm.builder.Build(ref, &domain.ImageAsset{ContentHash: "bafy"}, metadata.UserFields{Title: "t"}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingPrimaryURL)
}

func TestBuilder_Build_DOI(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	t.Run("doi extracted from source url", func(t *testing.T) {
		ref := domain.ContentReference{SourceURL: "https://doi.org/10.1038/Nature12373", ContentType: domain.ContentTypeDOI}
		doc, err := tm.builder.Build(ref, testImage(), metadata.UserFields{}, &metadata.ProviderFields{
			Title:   types.StringPtr("A Paper"),
			Journal: types.StringPtr("Nature"),
		})
		require.NoError(t, err)
		assert.Equal(t, "10.1038/nature12373", doc.Evermark.DOI)
		assert.Equal(t, "A Paper", doc.Name)
		assert.Equal(t, "Unknown", doc.Evermark.Author)
		assert.Contains(t, doc.Attributes, domain.Attribute{TraitType: "Journal", Value: "Nature"})
	})

	t.Run("doi field in resolver url form", func(t *testing.T) {
		ref := domain.ContentReference{ContentType: domain.ContentTypeDOI}
		doc, err := tm.builder.Build(ref, testImage(), metadata.UserFields{Title: "Paper", DOI: "https://doi.org/10.1000/XYZ"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "10.1000/xyz", doc.Evermark.DOI)
	})

	t.Run("missing doi is a validation error", func(t *testing.T) {
		ref := domain.ContentReference{SourceURL: "https://example.com/paper", ContentType: domain.ContentTypeDOI}
		_, err := tm.builder.Build(ref, testImage(), metadata.UserFields{}, nil)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "doi", vErr.Field)
	})
}

func TestBuilder_Build_ISBN(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	ref := domain.ContentReference{SourceURL: "https://books.example.com/x", ContentType: domain.ContentTypeISBN}

	doc, err := tm.builder.Build(ref, testImage(), metadata.UserFields{ISBN: "978-0-306-40615-7"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "9780306406157", doc.Evermark.ISBN)
	assert.Equal(t, "ISBN 9780306406157", doc.Name)
	assert.Nil(t, doc.Evermark.Provenance)

	_, err = tm.builder.Build(ref, testImage(), metadata.UserFields{ISBN: "978-0-306-40615-8"}, nil)
	assert.Error(t, err)

	// Book records only validate an ISBN when one is given
	bookRef := domain.ContentReference{SourceURL: "https://books.example.com/x", ContentType: domain.ContentTypeBookRecord}
	doc, err = tm.builder.Build(bookRef, testImage(), metadata.UserFields{Title: "README"}, nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Evermark.ISBN)
}

func TestBuilder_Build_SocialPost(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	ref := domain.ContentReference{SourceURL: "https://warpcast.com/alice/0xabc", ContentType: domain.ContentTypeSocialPost}
	provider := &metadata.ProviderFields{
		Cast: &domain.CastData{
			Hash:           "0xabc",
			AuthorUsername: "alice",
			Text:           "hello from the provider with a long enough text to be used as the name",
			Channel:        "dev",
		},
	}
	user := metadata.UserFields{Cast: &domain.CastData{Channel: "golang"}}

	doc, err := tm.builder.Build(ref, &domain.ImageAsset{PrimaryURL: "https://assets.example.com/i.png"}, user, provider)
	require.NoError(t, err)

	require.NotNil(t, doc.Evermark.Cast)
	assert.Equal(t, "golang", doc.Evermark.Cast.Channel)
	assert.Equal(t, "0xabc", doc.Evermark.Cast.Hash)
	assert.Equal(t, "https://warpcast.com/alice/0xabc", doc.Evermark.Cast.CanonicalURL)
	assert.Equal(t, "@alice", doc.Evermark.Author)
	assert.Equal(t, provider.Cast.Text, doc.Name)
	assert.Equal(t, "https://assets.example.com/i.png", doc.Image)
	// provider data is not mutated by the merge
	assert.Equal(t, "dev", provider.Cast.Channel)
}

func TestBuilder_Build_TruncatesLongNames(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	long := make([]rune, 300)
	for i := range long {
		long[i] = 'é'
	}
	ref := domain.ContentReference{SourceURL: "https://example.com", ContentType: domain.ContentTypeURL}
	doc, err := tm.builder.Build(ref, testImage(), metadata.UserFields{Title: string(long)}, nil)
	require.NoError(t, err)
	assert.Len(t, []rune(doc.Name), 200)
}

func TestBuilder_Canonicalize(t *testing.T) {
	tm := setupTestBuilder(t)
	defer tm.ctrl.Finish()

	ref := domain.ContentReference{SourceURL: "https://example.com", ContentType: domain.ContentTypeURL}
	doc, err := tm.builder.Build(ref, testImage(), metadata.UserFields{Title: "Stable"}, nil)
	require.NoError(t, err)

	first, err := tm.builder.Canonicalize(doc)
	require.NoError(t, err)
	second, err := tm.builder.Canonicalize(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, string(first), `"name":"Stable"`)

	_, err = tm.builder.Canonicalize(nil)
	assert.Error(t, err)
}
