package metadata

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/types"
)

const (
	maxNameLength    = 200
	castExcerptRunes = 80
	unknownAuthor    = "Unknown"
)

// UserFields are supplied by the person creating the Evermark and take precedence over everything else
type UserFields struct {
	Title       string
	Description string
	Author      string
	Tags        []string
	Creator     string
	DOI         string
	ISBN        string
	Cast        *domain.CastData
}

// ProviderFields is provenance fetched upstream by a metadata provider.
// Nil or empty fields mean the lookup failed or had no data.
type ProviderFields struct {
	Provider      string
	FetchedAt     *time.Time
	Title         *string
	Description   *string
	Authors       []string
	Publisher     *string
	Journal       *string
	PublishedDate *string
	Volume        *string
	Issue         *string
	Pages         *string
	Abstract      *string
	SiteName      *string
	Cast          *domain.CastData
}

// Builder assembles metadata documents. It never performs network I/O.
//
//go:generate mockgen -source=builder.go -destination=../mocks/metadata_builder.go -package=mocks -mock_names=Builder=MockMetadataBuilder
type Builder interface {
	// Build merges user fields over content-type fields over provider fields
	Build(ref domain.ContentReference, image *domain.ImageAsset, user UserFields, provider *ProviderFields) (*domain.MetadataDocument, error)

	// Canonicalize returns the RFC 8785 encoding of doc, stable for content hashing
	Canonicalize(doc *domain.MetadataDocument) ([]byte, error)
}

type builder struct {
	clock adapter.Clock
	json  adapter.JSON
}

// NewBuilder creates a metadata builder
func NewBuilder(clock adapter.Clock, json adapter.JSON) Builder {
	return &builder{clock: clock, json: json}
}

func (b *builder) Build(ref domain.ContentReference, image *domain.ImageAsset, user UserFields, provider *ProviderFields) (*domain.MetadataDocument, error) {
	if image == nil || image.PrimaryURL == "" {
		return nil, domain.ErrMissingPrimaryURL
	}
	if provider == nil {
		provider = &ProviderFields{}
	}

	ns := domain.EvermarkNamespace{
		Version:     domain.METADATA_VERSION,
		ContentType: ref.ContentType,
		SourceURL:   strings.TrimSpace(ref.SourceURL),
		Creator:     strings.TrimSpace(user.Creator),
		Tags:        types.NormalizeTags(user.Tags),
		Provenance:  buildProvenance(provider),
		CreatedAt:   b.clock.Now().UTC(),
	}

	// Content-type specific fields sit between user and provider layers
	switch ref.ContentType {
	case domain.ContentTypeDOI:
		doi := domain.ExtractDOI(types.FirstNonEmpty(user.DOI, ref.DOI, ref.SourceURL))
		if !domain.IsValidDOI(doi) {
			return nil, domain.NewValidationError("doi", "a valid DOI is required for DOI content")
		}
		ns.DOI = strings.ToLower(doi)
	case domain.ContentTypeISBN, domain.ContentTypeBookRecord:
		raw := types.FirstNonEmpty(user.ISBN, ref.ISBN)
		isbn := domain.NormalizeISBN(raw)
		if isbn == "" && (ref.ContentType == domain.ContentTypeISBN || raw != "") {
			return nil, domain.NewValidationError("isbn", "a valid ISBN-10 or ISBN-13 is required")
		}
		ns.ISBN = isbn
	case domain.ContentTypeSocialPost:
		ns.Cast = mergeCast(user.Cast, provider.Cast, ref.SourceURL)
	}

	ns.Author = types.FirstNonEmpty(
		user.Author,
		strings.Join(provider.Authors, ", "),
		castAuthor(ns.Cast),
		unknownAuthor,
	)

	doc := &domain.MetadataDocument{
		Name:        truncateRunes(b.resolveName(ref, user, provider, ns), maxNameLength),
		Description: types.FirstNonEmpty(user.Description, types.SafeString(provider.Description), types.SafeString(provider.Abstract)),
		Image:       image.Reference(),
		ExternalURL: ns.SourceURL,
		Evermark:    ns,
	}
	doc.Attributes = buildAttributes(doc, provider)

	return doc, nil
}

func (b *builder) Canonicalize(doc *domain.MetadataDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("metadata document is nil")
	}
	return b.json.Canonicalize(doc)
}

func (b *builder) resolveName(ref domain.ContentReference, user UserFields, provider *ProviderFields, ns domain.EvermarkNamespace) string {
	if name := types.FirstNonEmpty(user.Title, types.SafeString(provider.Title)); name != "" {
		return name
	}

	switch {
	case ns.Cast != nil && ns.Cast.Text != "":
		return truncateRunes(ns.Cast.Text, castExcerptRunes)
	case ns.DOI != "":
		return "DOI " + ns.DOI
	case ns.ISBN != "":
		return "ISBN " + ns.ISBN
	}

	if host := ref.Host(); host != "" {
		return host
	}
	return "Untitled Evermark"
}

func buildProvenance(p *ProviderFields) *domain.Provenance {
	prov := &domain.Provenance{
		Authors:       p.Authors,
		Publisher:     types.SafeString(p.Publisher),
		Journal:       types.SafeString(p.Journal),
		PublishedDate: types.SafeString(p.PublishedDate),
		Volume:        types.SafeString(p.Volume),
		Issue:         types.SafeString(p.Issue),
		Pages:         types.SafeString(p.Pages),
		Abstract:      types.SafeString(p.Abstract),
		SiteName:      types.SafeString(p.SiteName),
		ProviderName:  p.Provider,
	}
	if p.FetchedAt != nil {
		prov.ProviderFetched = p.FetchedAt.UTC().Format(time.RFC3339)
	}

	empty := len(prov.Authors) == 0 && prov.Publisher == "" && prov.Journal == "" &&
		prov.PublishedDate == "" && prov.Volume == "" && prov.Issue == "" &&
		prov.Pages == "" && prov.Abstract == "" && prov.SiteName == "" && prov.ProviderName == ""
	if empty {
		return nil
	}
	return prov
}

// mergeCast overlays user supplied cast fields on provider data field by field
func mergeCast(user, provider *domain.CastData, sourceURL string) *domain.CastData {
	merged := domain.CastData{}
	if provider != nil {
		merged = *provider
	}
	if user != nil {
		overlay := func(dst *string, v string) {
			if strings.TrimSpace(v) != "" {
				*dst = v
			}
		}
		overlay(&merged.Hash, user.Hash)
		overlay(&merged.AuthorUsername, user.AuthorUsername)
		overlay(&merged.AuthorName, user.AuthorName)
		overlay(&merged.Text, user.Text)
		overlay(&merged.Timestamp, user.Timestamp)
		overlay(&merged.Channel, user.Channel)
		overlay(&merged.CanonicalURL, user.CanonicalURL)
		overlay(&merged.ParentCastHash, user.ParentCastHash)
		if user.AuthorFID != 0 {
			merged.AuthorFID = user.AuthorFID
		}
		if len(user.EmbedURLs) > 0 {
			merged.EmbedURLs = user.EmbedURLs
		}
	}
	if merged.CanonicalURL == "" {
		merged.CanonicalURL = strings.TrimSpace(sourceURL)
	}
	return &merged
}

func castAuthor(c *domain.CastData) string {
	if c == nil {
		return ""
	}
	if c.AuthorUsername != "" {
		return "@" + strings.TrimPrefix(c.AuthorUsername, "@")
	}
	return c.AuthorName
}

func buildAttributes(doc *domain.MetadataDocument, p *ProviderFields) []domain.Attribute {
	ns := doc.Evermark
	attrs := []domain.Attribute{
		{TraitType: "Content Type", Value: string(ns.ContentType)},
		{TraitType: "Author", Value: ns.Author},
	}
	add := func(trait, value string) {
		if value != "" {
			attrs = append(attrs, domain.Attribute{TraitType: trait, Value: value})
		}
	}

	add("Source URL", ns.SourceURL)
	add("DOI", ns.DOI)
	add("ISBN", ns.ISBN)
	add("Creator", ns.Creator)
	add("Publisher", types.SafeString(p.Publisher))
	add("Journal", types.SafeString(p.Journal))
	add("Published", types.SafeString(p.PublishedDate))
	if ns.Cast != nil {
		add("Cast Hash", ns.Cast.Hash)
		add("Channel", ns.Cast.Channel)
	}
	for _, tag := range ns.Tags {
		attrs = append(attrs, domain.Attribute{TraitType: "Tag", Value: tag})
	}
	attrs = append(attrs, domain.Attribute{TraitType: "Created", Value: ns.CreatedAt.Unix()})

	return attrs
}

func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
