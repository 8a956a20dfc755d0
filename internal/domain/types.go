package domain

import (
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ContentType represents the kind of content an Evermark preserves
type ContentType string

const (
	ContentTypeDOI        ContentType = "DOI"
	ContentTypeISBN       ContentType = "ISBN"
	ContentTypeURL        ContentType = "URL"
	ContentTypeSocialPost ContentType = "Cast"
	ContentTypeCustom     ContentType = "Custom"
	ContentTypeBookRecord ContentType = "README"
)

// ParseContentType parses a content type, accepting the descriptive aliases
// used by older clients ("SocialPost", "BookRecord")
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "doi":
		return ContentTypeDOI, nil
	case "isbn":
		return ContentTypeISBN, nil
	case "url", "":
		return ContentTypeURL, nil
	case "cast", "socialpost", "social_post":
		return ContentTypeSocialPost, nil
	case "custom":
		return ContentTypeCustom, nil
	case "readme", "bookrecord", "book_record":
		return ContentTypeBookRecord, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, s)
	}
}

// Valid checks if the content type is one of the supported values
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeDOI, ContentTypeISBN, ContentTypeURL,
		ContentTypeSocialPost, ContentTypeCustom, ContentTypeBookRecord:
		return true
	}
	return false
}

// ContentReference identifies the content being preserved.
// It is immutable once submitted.
type ContentReference struct {
	SourceURL   string      `json:"source_url"`
	ContentType ContentType `json:"content_type"`
	DOI         string      `json:"doi,omitempty"`
	ISBN        string      `json:"isbn,omitempty"`
}

var doiInURLRegex = regexp.MustCompile(`(?i)(10\.\d{4,9}/[^\s?#]+)`)

// ExtractDOI returns the bare DOI found in s, which may be a bare DOI, a
// "doi:" URI or a resolver URL such as https://doi.org/10.1000/x.
// It returns "" when s holds no DOI.
func ExtractDOI(s string) string {
	return doiInURLRegex.FindString(strings.TrimSpace(s))
}

// Normalize returns the key used for duplicate comparison.
//
// DOIs and ISBNs compare by identifier; everything else compares by
// lower-cased host (without "www.") plus path, with scheme, query, fragment
// and trailing slash dropped.
func (r ContentReference) Normalize() string {
	switch r.ContentType {
	case ContentTypeDOI:
		doi := ExtractDOI(r.DOI)
		if doi == "" {
			doi = ExtractDOI(r.SourceURL)
		}
		if doi != "" {
			return "doi:" + strings.ToLower(doi)
		}
	case ContentTypeISBN, ContentTypeBookRecord:
		if isbn := NormalizeISBN(r.ISBN); isbn != "" {
			return "isbn:" + isbn
		}
	}

	return NormalizeURL(r.SourceURL)
}

// RawQuery returns the query string of the source URL, used to tell an
// exact resubmission apart from a link to the same page with different
// tracking parameters
func (r ContentReference) RawQuery() string {
	u, err := parseLooseURL(r.SourceURL)
	if err != nil {
		return ""
	}
	return u.RawQuery
}

// Host returns the normalized host of the source URL
func (r ContentReference) Host() string {
	u, err := parseLooseURL(r.SourceURL)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Host)
}

// NormalizeURL strips scheme, "www.", query, fragment and trailing slash and
// lower-cases host and path
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := parseLooseURL(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.ToLower(raw), "/")
	}

	path := strings.TrimRight(strings.ToLower(u.EscapedPath()), "/")
	return normalizeHost(u.Host) + path
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return strings.TrimSuffix(host, ":443")
}

func parseLooseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return url.Parse(raw)
}

// ImageAsset is the stored Evermark image
type ImageAsset struct {
	// PrimaryURL is always resolvable when the upload succeeded
	PrimaryURL string `json:"primary_url"`
	// SecondaryURL is the content-addressed gateway URL, empty when replication failed
	SecondaryURL string `json:"secondary_url,omitempty"`
	// ContentHash is the content identifier on the content-addressed backend
	ContentHash string `json:"content_hash,omitempty"`
	// StorageKey is the primary backend key the asset lives under
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type"`
	ByteSize    int64  `json:"byte_size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Reference returns the most durable reference to the image.
// Content-addressed references survive re-addressing of the primary backend.
func (a *ImageAsset) Reference() string {
	if a == nil {
		return ""
	}
	if a.ContentHash != "" {
		return "ipfs://" + a.ContentHash
	}
	return a.PrimaryURL
}

// Attribute is a single entry of the metadata attribute list
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Provenance holds author/publication data supplied by external metadata providers
type Provenance struct {
	Authors         []string `json:"authors,omitempty"`
	Publisher       string   `json:"publisher,omitempty"`
	Journal         string   `json:"journal,omitempty"`
	PublishedDate   string   `json:"published_date,omitempty"`
	Volume          string   `json:"volume,omitempty"`
	Issue           string   `json:"issue,omitempty"`
	Pages           string   `json:"pages,omitempty"`
	Abstract        string   `json:"abstract,omitempty"`
	SiteName        string   `json:"site_name,omitempty"`
	ProviderName    string   `json:"provider,omitempty"`
	ProviderFetched string   `json:"fetched_at,omitempty"`
}

// CastData holds social-post provenance
type CastData struct {
	Hash           string   `json:"hash,omitempty"`
	AuthorUsername string   `json:"author_username,omitempty"`
	AuthorFID      int64    `json:"author_fid,omitempty"`
	AuthorName     string   `json:"author_display_name,omitempty"`
	Text           string   `json:"text,omitempty"`
	Timestamp      string   `json:"timestamp,omitempty"`
	Channel        string   `json:"channel,omitempty"`
	Likes          int64    `json:"likes,omitempty"`
	Recasts        int64    `json:"recasts,omitempty"`
	Replies        int64    `json:"replies,omitempty"`
	CanonicalURL   string   `json:"canonical_url,omitempty"`
	ParentCastHash string   `json:"parent_hash,omitempty"`
	EmbedURLs      []string `json:"embeds,omitempty"`
}

// EvermarkNamespace is the extensible "evermark" section of the metadata document
type EvermarkNamespace struct {
	Version     string      `json:"version"`
	ContentType ContentType `json:"content_type"`
	SourceURL   string      `json:"source_url,omitempty"`
	Author      string      `json:"author"`
	Creator     string      `json:"creator,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	DOI         string      `json:"doi,omitempty"`
	ISBN        string      `json:"isbn,omitempty"`
	Cast        *CastData   `json:"cast,omitempty"`
	Provenance  *Provenance `json:"provenance,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// MetadataDocument is the token metadata document published off-chain
type MetadataDocument struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	ExternalURL string            `json:"external_url,omitempty"`
	Attributes  []Attribute       `json:"attributes"`
	Evermark    EvermarkNamespace `json:"evermark"`
}

// MetadataLocation describes where a metadata document was published
type MetadataLocation struct {
	// URI is the reference written on-chain
	URI         string `json:"uri"`
	PrimaryURL  string `json:"primary_url"`
	ContentHash string `json:"content_hash,omitempty"`
}

// MintReceipt is the outcome of a confirmed mint transaction.
// TokenID is nil when the receipt logs could not be parsed; the mint itself
// still succeeded.
type MintReceipt struct {
	TxHash      string   `json:"tx_hash"`
	TokenID     *big.Int `json:"token_id,omitempty"`
	BlockNumber *uint64  `json:"block_number,omitempty"`
	GasUsed     *uint64  `json:"gas_used,omitempty"`
	Warning     string   `json:"warning,omitempty"`
}

// TokenIDString returns the decimal token id or empty string when unknown
func (r *MintReceipt) TokenIDString() string {
	if r == nil || r.TokenID == nil {
		return ""
	}
	return r.TokenID.String()
}

// Season is a time-boxed epoch used to bucket records
type Season struct {
	Number    int       `json:"number"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Contains reports whether t falls in the season window [start, end)
func (s Season) Contains(t time.Time) bool {
	return !t.Before(s.StartTime) && t.Before(s.EndTime)
}

// EvermarkRecord is the durable, queryable projection of a minted Evermark.
// The chain is authoritative for TokenID and TxHash.
type EvermarkRecord struct {
	TokenID          string           `json:"token_id"`
	TxHash           string           `json:"tx_hash"`
	ContentReference ContentReference `json:"content_reference"`
	Title            string           `json:"title"`
	Description      string           `json:"description,omitempty"`
	MetadataURI      string           `json:"metadata_uri"`
	ImageAsset       ImageAsset       `json:"image_asset"`
	Author           string           `json:"author"`
	Owner            string           `json:"owner"`
	Referrer         string           `json:"referrer,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	Verified         bool             `json:"verified"`
	Season           int              `json:"season"`
	BlockNumber      *uint64          `json:"block_number,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// DuplicateConfidence grades how likely two content references denote the same content
type DuplicateConfidence string

const (
	DuplicateConfidenceExact  DuplicateConfidence = "exact"
	DuplicateConfidenceHigh   DuplicateConfidence = "high"
	DuplicateConfidenceMedium DuplicateConfidence = "medium"
	DuplicateConfidenceLow    DuplicateConfidence = "low"
)

// DuplicateVerdict is the result of a duplicate check
type DuplicateVerdict struct {
	Exists          bool                `json:"exists"`
	Confidence      DuplicateConfidence `json:"confidence"`
	MatchedRecordID *string             `json:"matched_record_id,omitempty"`
	// Degraded is set when the index store could not be consulted
	Degraded bool `json:"degraded,omitempty"`
}

// MintedEvent is published once a mint is confirmed so downstream consumers
// can reconcile the index store
type MintedEvent struct {
	EventID   string         `json:"event_id"`
	Record    EvermarkRecord `json:"record"`
	Timestamp time.Time      `json:"timestamp"`
}

// Decision applies the duplicate policy. Exact matches always block; high
// confidence matches block unless the caller overrides; everything else proceeds.
func (v DuplicateVerdict) Decision(override bool) error {
	if !v.Exists {
		return nil
	}
	switch v.Confidence {
	case DuplicateConfidenceExact:
		return &DuplicateError{Verdict: v}
	case DuplicateConfidenceHigh:
		if !override {
			return &DuplicateError{Verdict: v}
		}
	}
	return nil
}
