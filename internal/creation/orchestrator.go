package creation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/duplicate"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/metadata"
	"github.com/evermarks/evermark-minter/internal/persistence"
	"github.com/evermarks/evermark-minter/internal/season"
	"github.com/evermarks/evermark-minter/internal/storage"
	"github.com/evermarks/evermark-minter/internal/types"
)

// Warnings attached to results
const (
	WarningNotPersisted     = "Evermark minted but could not be saved to the index; it will be reconciled from the transaction hash"
	WarningRelocationFailed = "Evermark minted but its image could not be moved to the permanent location"
	WarningSeasonUnknown    = "Season could not be determined; the record was saved without a season"
	WarningNotReplicated    = "Image is not pinned to IPFS; it is served from the primary store only"
)

// Request is a creation request. Provider fields arrive already fetched.
type Request struct {
	Title       string
	Description string
	Author      string
	ContentType domain.ContentType
	SourceURL   string
	DOI         string
	ISBN        string
	Cast        *domain.CastData
	Tags        []string
	// Owner is recorded as the Evermark owner; defaults to the minting account
	Owner    string
	Referrer string

	Image            []byte
	ImageContentType string

	OverrideDuplicate bool
	Provider          *metadata.ProviderFields
}

// Result is the terminal outcome of a creation.
//
// Success and PartialSuccess are exclusive. PartialSuccess means a transaction
// was submitted but its outcome is unknown or reverted; TxHash is always set.
type Result struct {
	Success             bool                     `json:"success"`
	PartialSuccess      bool                     `json:"partial_success"`
	NeedsReconciliation bool                     `json:"needs_reconciliation"`
	TxHash              string                   `json:"tx_hash,omitempty"`
	TokenID             string                   `json:"token_id,omitempty"`
	MetadataURI         string                   `json:"metadata_uri,omitempty"`
	ImageAsset          *domain.ImageAsset       `json:"image_asset,omitempty"`
	Record              *domain.EvermarkRecord   `json:"record,omitempty"`
	Duplicate           *domain.DuplicateVerdict `json:"duplicate,omitempty"`
	Warnings            []string                 `json:"warnings,omitempty"`
	FailedStep          Step                     `json:"failed_step,omitempty"`
	Message             string                   `json:"message"`
	ErrorKind           string                   `json:"error_kind,omitempty"`
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Orchestrator runs the creation pipeline
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/creation_orchestrator.go -package=mocks -mock_names=Orchestrator=MockCreationOrchestrator
type Orchestrator interface {
	// Create runs one creation. The returned error is non-nil only for total
	// failures, where nothing was submitted on chain; the result then carries
	// the failed step and message. Partial successes return a nil error.
	Create(ctx context.Context, req Request, onProgress ProgressFunc) (*Result, error)
}

type orchestrator struct {
	assets  storage.AssetStore
	builder metadata.Builder
	guard   duplicate.Guard
	minter  chain.Minter
	sync    persistence.Sync
	seasons season.Oracle
	clock   adapter.Clock
}

// NewOrchestrator creates a creation orchestrator
func NewOrchestrator(
	assets storage.AssetStore,
	builder metadata.Builder,
	guard duplicate.Guard,
	minter chain.Minter,
	sync persistence.Sync,
	seasons season.Oracle,
	clock adapter.Clock,
) Orchestrator {
	return &orchestrator{
		assets:  assets,
		builder: builder,
		guard:   guard,
		minter:  minter,
		sync:    sync,
		seasons: seasons,
		clock:   clock,
	}
}

func (o *orchestrator) Create(ctx context.Context, req Request, onProgress ProgressFunc) (*Result, error) {
	ctx = logger.WithFields(ctx, zap.String("creation_id", uuid.NewString()))
	progress := newTracker(onProgress)
	result := &Result{}

	fail := func(err error) (*Result, error) {
		result.FailedStep = progress.current()
		result.Message = failureMessage(err)
		result.ErrorKind = errorKind(err)
		logger.WarnCtx(ctx, "Evermark creation failed",
			zap.String("step", string(result.FailedStep)),
			zap.Error(err))
		return result, err
	}

	// Validation
	progress.enter(StepValidating)
	ref, err := o.validate(req)
	if err != nil {
		return fail(err)
	}

	// Duplicate check
	progress.enter(StepDuplicateCheck)
	verdict := o.guard.Check(ctx, ref, req.Title)
	if verdict.Exists {
		result.Duplicate = &verdict
	}
	if err := verdict.Decision(req.OverrideDuplicate); err != nil {
		return fail(err)
	}

	// Image upload under a temporary id; the token id is not known yet
	progress.enter(StepUploadingImage)
	tempID := storage.NewTemporaryID()
	ctx = logger.WithFields(ctx, zap.String("asset_id", tempID))
	image, err := o.assets.UploadImage(ctx, tempID, req.Image, req.ImageContentType)
	if err != nil {
		return fail(err)
	}
	result.ImageAsset = image
	if image.ContentHash == "" {
		result.warn(WarningNotReplicated)
	}

	// Metadata
	progress.enter(StepBuildingMetadata)
	doc, err := o.builder.Build(ref, image, metadata.UserFields{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		Tags:        types.NormalizeTags(req.Tags),
		Creator:     req.Owner,
		DOI:         req.DOI,
		ISBN:        req.ISBN,
		Cast:        req.Cast,
	}, req.Provider)
	if err != nil {
		return fail(err)
	}

	progress.enter(StepUploadingMetadata)
	location, err := o.assets.UploadMetadata(ctx, tempID, doc)
	if err != nil {
		return fail(err)
	}
	result.MetadataURI = location.URI

	record := domain.EvermarkRecord{
		ContentReference: ref,
		Title:            doc.Name,
		Description:      doc.Description,
		MetadataURI:      location.URI,
		ImageAsset:       *image,
		Author:           doc.Evermark.Author,
		Owner:            o.owner(req),
		Referrer:         req.Referrer,
		Tags:             doc.Evermark.Tags,
		CreatedAt:        o.clock.Now(),
	}

	// Mint: at most one submission, never retried
	progress.enter(StepMinting)
	receipt, err := o.minter.Mint(ctx, chain.MintRequest{
		MetadataURI: location.URI,
		Title:       doc.Name,
		Creator:     doc.Evermark.Author,
		Referrer:    req.Referrer,
	}, func(state chain.State, txHash string) {
		if state == chain.StateAwaitingReceipt {
			progress.report(StepAwaitingConfirmation, txHash)
		}
	})
	if err != nil {
		return o.mintFailed(ctx, result, progress, record, err)
	}

	result.TxHash = receipt.TxHash
	result.TokenID = receipt.TokenIDString()
	ctx = logger.WithFields(ctx, zap.String("tx_hash", receipt.TxHash), zap.String("token_id", result.TokenID))
	progress.report(StepAwaitingConfirmation, receipt.TxHash)
	if receipt.Warning != "" {
		result.warn(receipt.Warning)
		result.NeedsReconciliation = true
	}

	// Everything below is best-effort; the mint already happened
	progress.enter(StepRelocatingAssets)
	finalImage := o.relocate(ctx, result, *image)

	progress.enter(StepSavingRecord)
	record.TokenID = result.TokenID
	record.TxHash = receipt.TxHash
	record.ImageAsset = finalImage
	record.Season = o.season(ctx, result)
	record.BlockNumber = receipt.BlockNumber
	result.Record = &record
	result.ImageAsset = &record.ImageAsset

	synced := o.sync.Sync(ctx, record)
	switch synced.Status {
	case persistence.StatusError:
		result.warn(WarningNotPersisted)
		result.NeedsReconciliation = true
	case persistence.StatusOKWithWarning:
		result.warn(synced.Warning)
	}

	progress.enter(StepDone)
	result.Success = true
	result.Message = stepMessage[StepDone]
	logger.InfoCtx(ctx, "Evermark created",
		zap.Bool("needs_reconciliation", result.NeedsReconciliation),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// validate checks the request before any network call
func (o *orchestrator) validate(req Request) (domain.ContentReference, error) {
	if !req.ContentType.Valid() {
		return domain.ContentReference{}, domain.NewValidationError("content_type", fmt.Sprintf("unsupported content type %q", req.ContentType))
	}

	ref := domain.ContentReference{
		SourceURL:   strings.TrimSpace(req.SourceURL),
		ContentType: req.ContentType,
		DOI:         strings.TrimSpace(req.DOI),
		ISBN:        strings.TrimSpace(req.ISBN),
	}
	if req.Cast != nil && ref.SourceURL == "" {
		ref.SourceURL = req.Cast.CanonicalURL
	}

	switch req.ContentType {
	case domain.ContentTypeURL, domain.ContentTypeSocialPost:
		if !domain.IsValidHTTPURL(ref.SourceURL) {
			return ref, domain.NewValidationError("source_url", "a valid http(s) URL is required")
		}
	default:
		if ref.SourceURL != "" && !domain.IsValidHTTPURL(ref.SourceURL) {
			return ref, domain.NewValidationError("source_url", "must be an http(s) URL")
		}
	}

	switch req.ContentType {
	case domain.ContentTypeDOI:
		doi := domain.ExtractDOI(ref.DOI)
		if ref.DOI == "" {
			doi = domain.ExtractDOI(ref.SourceURL)
		}
		if !domain.IsValidDOI(doi) {
			return ref, domain.NewValidationError("doi", "a valid DOI is required for DOI content")
		}
		ref.DOI = doi
	case domain.ContentTypeISBN, domain.ContentTypeBookRecord:
		isbn := domain.NormalizeISBN(ref.ISBN)
		if isbn == "" && (req.ContentType == domain.ContentTypeISBN || ref.ISBN != "") {
			return ref, domain.NewValidationError("isbn", "a valid ISBN-10 or ISBN-13 is required")
		}
		ref.ISBN = isbn
	}

	if strings.TrimSpace(req.Title) == "" && req.Provider == nil && req.Cast == nil &&
		ref.SourceURL == "" && ref.DOI == "" && ref.ISBN == "" {
		return ref, domain.NewValidationError("title", "a title or content reference is required")
	}
	if req.Owner != "" && !domain.IsValidEthereumAddress(req.Owner) {
		return ref, &domain.ValidationError{Field: "owner", Reason: "must be a 0x-prefixed 40 hex character address", Err: domain.ErrInvalidAddress}
	}
	if req.Referrer != "" && !domain.IsValidEthereumAddress(req.Referrer) {
		return ref, &domain.ValidationError{Field: "referrer", Reason: "must be a 0x-prefixed 40 hex character address", Err: domain.ErrInvalidAddress}
	}
	if _, err := o.assets.Validate(req.Image); err != nil {
		return ref, err
	}
	return ref, nil
}

// mintFailed turns a chain failure into a total failure or, once a
// transaction may exist, a partial success. A partial success whose
// transaction may still confirm is saved as a pending record keyed by the
// transaction hash, so reconciliation can fill in the token id later.
func (o *orchestrator) mintFailed(ctx context.Context, result *Result, progress *tracker, pending domain.EvermarkRecord, err error) (*Result, error) {
	chainErr, ok := chain.AsError(err)
	if !ok || chainErr.TxHash == "" {
		result.FailedStep = progress.current()
		result.Message = failureMessage(err)
		result.ErrorKind = errorKind(err)
		logger.WarnCtx(ctx, "Mint failed before submission", zap.Error(err))
		return result, err
	}

	result.PartialSuccess = true
	result.NeedsReconciliation = true
	result.TxHash = chainErr.TxHash
	result.FailedStep = progress.current()
	result.ErrorKind = string(chainErr.Kind)
	result.Message = chainErr.UserMessage()
	ctx = logger.WithFields(ctx, zap.String("tx_hash", chainErr.TxHash))
	logger.ErrorCtx(ctx, err, zap.String("message", "Mint outcome unknown after submission"))

	// A reverted transaction minted nothing
	if chainErr.Kind == chain.ErrorKindTransactionReverted {
		return result, nil
	}

	pending.TxHash = chainErr.TxHash
	result.Record = &pending
	synced := o.sync.Sync(ctx, pending)
	if !synced.Persisted() {
		result.warn(WarningNotPersisted)
	}
	return result, nil
}

// relocate moves the image from the temporary id to the token id. The move
// only happens when the metadata references the image by content hash;
// otherwise the published metadata points at the temporary key.
func (o *orchestrator) relocate(ctx context.Context, result *Result, image domain.ImageAsset) domain.ImageAsset {
	if result.TokenID == "" || image.ContentHash == "" {
		return image
	}

	moved, err := o.assets.RelocateImage(ctx, image, result.TokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to relocate image", zap.Error(err))
		result.warn(WarningRelocationFailed)
		return image
	}
	return *moved
}

func (o *orchestrator) season(ctx context.Context, result *Result) int {
	s, err := o.seasons.CurrentSeason(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to resolve season", zap.Error(err))
		result.warn(WarningSeasonUnknown)
		return 0
	}
	return s.Number
}

func (o *orchestrator) owner(req Request) string {
	if req.Owner != "" {
		return req.Owner
	}
	return o.minter.Account()
}

func failureMessage(err error) string {
	if chainErr, ok := chain.AsError(err); ok {
		return chainErr.UserMessage()
	}

	var validationErr *domain.ValidationError
	var dupErr *domain.DuplicateError
	var storageErr *domain.StorageError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &dupErr):
		if dupErr.Verdict.Confidence == domain.DuplicateConfidenceExact {
			return "This content has already been preserved. Vote on the existing Evermark instead."
		}
		return "A similar Evermark already exists. Confirm to create it anyway."
	case errors.As(err, &storageErr):
		return "Failed to store the Evermark assets. Please try again."
	case errors.Is(err, domain.ErrMissingPrimaryURL):
		return "The image could not be stored."
	}
	return "Failed to create the Evermark."
}

func errorKind(err error) string {
	if chainErr, ok := chain.AsError(err); ok {
		return string(chainErr.Kind)
	}

	var validationErr *domain.ValidationError
	var dupErr *domain.DuplicateError
	var storageErr *domain.StorageError
	switch {
	case errors.As(err, &validationErr):
		return "ValidationError"
	case errors.As(err, &dupErr):
		return "DuplicateContent"
	case errors.As(err, &storageErr):
		return "StorageError"
	}
	return "InternalError"
}
