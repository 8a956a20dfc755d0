package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/evermarks/evermark-minter/internal/api/shared/errors"
	"github.com/evermarks/evermark-minter/internal/creation"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/metadata"
)

const (
	// MAX_TAGS_PER_REQUEST caps the tags accepted on a creation
	MAX_TAGS_PER_REQUEST = 20
	// MAX_TITLE_LENGTH caps the title length in runes
	MAX_TITLE_LENGTH = 200
)

// CreateEvermarkRequest is the multipart form of a creation request.
// The image is sent as the "image" file part.
type CreateEvermarkRequest struct {
	Title             string   `form:"title"`
	Description       string   `form:"description"`
	Author            string   `form:"author"`
	ContentType       string   `form:"content_type"`
	SourceURL         string   `form:"source_url"`
	DOI               string   `form:"doi"`
	ISBN              string   `form:"isbn"`
	Tags              []string `form:"tags"`
	Owner             string   `form:"owner"`
	Referrer          string   `form:"referrer"`
	OverrideDuplicate bool     `form:"override_duplicate"`
	// Cast is a JSON encoded CastData
	Cast string `form:"cast"`
	// ProviderMetadata is a JSON encoded ProviderMetadata
	ProviderMetadata string `form:"provider_metadata"`
}

// ProviderMetadata carries metadata fetched by the client from an external provider
type ProviderMetadata struct {
	Provider      string     `json:"provider"`
	FetchedAt     *time.Time `json:"fetched_at,omitempty"`
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Authors       []string   `json:"authors,omitempty"`
	Publisher     *string    `json:"publisher,omitempty"`
	Journal       *string    `json:"journal,omitempty"`
	PublishedDate *string    `json:"published_date,omitempty"`
	Volume        *string    `json:"volume,omitempty"`
	Issue         *string    `json:"issue,omitempty"`
	Pages         *string    `json:"pages,omitempty"`
	Abstract      *string    `json:"abstract,omitempty"`
	SiteName      *string    `json:"site_name,omitempty"`
}

// ToCreationRequest validates the form and converts it into a creation request
func (r *CreateEvermarkRequest) ToCreationRequest(image []byte, imageContentType string) (creation.Request, error) {
	contentType, err := domain.ParseContentType(r.ContentType)
	if err != nil {
		return creation.Request{}, apierrors.NewValidationError(err.Error())
	}

	if len([]rune(strings.TrimSpace(r.Title))) > MAX_TITLE_LENGTH {
		return creation.Request{}, apierrors.NewValidationError(fmt.Sprintf("title must be at most %d characters", MAX_TITLE_LENGTH))
	}

	tags := splitTags(r.Tags)
	if len(tags) > MAX_TAGS_PER_REQUEST {
		return creation.Request{}, apierrors.NewValidationError(fmt.Sprintf("maximum %d tags allowed", MAX_TAGS_PER_REQUEST))
	}

	req := creation.Request{
		Title:             strings.TrimSpace(r.Title),
		Description:       strings.TrimSpace(r.Description),
		Author:            strings.TrimSpace(r.Author),
		ContentType:       contentType,
		SourceURL:         strings.TrimSpace(r.SourceURL),
		DOI:               strings.TrimSpace(r.DOI),
		ISBN:              strings.TrimSpace(r.ISBN),
		Tags:              tags,
		Owner:             strings.TrimSpace(r.Owner),
		Referrer:          strings.TrimSpace(r.Referrer),
		Image:             image,
		ImageContentType:  imageContentType,
		OverrideDuplicate: r.OverrideDuplicate,
	}

	if r.Cast != "" {
		var cast domain.CastData
		if err := json.Unmarshal([]byte(r.Cast), &cast); err != nil {
			return creation.Request{}, apierrors.NewValidationError(fmt.Sprintf("invalid cast: %v", err))
		}
		req.Cast = &cast
	}

	if r.ProviderMetadata != "" {
		var provider ProviderMetadata
		if err := json.Unmarshal([]byte(r.ProviderMetadata), &provider); err != nil {
			return creation.Request{}, apierrors.NewValidationError(fmt.Sprintf("invalid provider_metadata: %v", err))
		}
		req.Provider = provider.toProviderFields(req.Cast)
	}

	return req, nil
}

func (p ProviderMetadata) toProviderFields(cast *domain.CastData) *metadata.ProviderFields {
	return &metadata.ProviderFields{
		Provider:      p.Provider,
		FetchedAt:     p.FetchedAt,
		Title:         p.Title,
		Description:   p.Description,
		Authors:       p.Authors,
		Publisher:     p.Publisher,
		Journal:       p.Journal,
		PublishedDate: p.PublishedDate,
		Volume:        p.Volume,
		Issue:         p.Issue,
		Pages:         p.Pages,
		Abstract:      p.Abstract,
		SiteName:      p.SiteName,
		Cast:          cast,
	}
}

// splitTags accepts both repeated form values and comma separated lists
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// DuplicateCheckRequest is the request body of a duplicate check
type DuplicateCheckRequest struct {
	SourceURL   string `json:"source_url"`
	ContentType string `json:"content_type"`
	DOI         string `json:"doi"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
}

// ToContentReference validates the request body
func (r *DuplicateCheckRequest) ToContentReference() (domain.ContentReference, error) {
	contentType, err := domain.ParseContentType(r.ContentType)
	if err != nil {
		return domain.ContentReference{}, apierrors.NewValidationError(err.Error())
	}

	ref := domain.ContentReference{
		SourceURL:   strings.TrimSpace(r.SourceURL),
		ContentType: contentType,
		DOI:         strings.TrimSpace(r.DOI),
		ISBN:        strings.TrimSpace(r.ISBN),
	}
	if ref.SourceURL == "" && ref.DOI == "" && ref.ISBN == "" {
		return ref, apierrors.NewValidationError("source_url, doi or isbn is required")
	}
	if ref.SourceURL != "" && !domain.IsValidHTTPURL(ref.SourceURL) {
		return ref, apierrors.NewValidationError("source_url must be an http(s) URL")
	}
	return ref, nil
}
