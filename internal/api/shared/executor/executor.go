package executor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/api/shared/dto"
	apierrors "github.com/evermarks/evermark-minter/internal/api/shared/errors"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/creation"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/duplicate"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/season"
	"github.com/evermarks/evermark-minter/internal/store"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// CreateEvermark runs the creation pipeline. The pipeline outlives the
	// request context so a client disconnect never abandons a submitted mint.
	CreateEvermark(ctx context.Context, req creation.Request, onProgress creation.ProgressFunc) (*creation.Result, error)

	// CheckDuplicate runs the duplicate guard and applies the creation policy
	CheckDuplicate(ctx context.Context, ref domain.ContentReference, title string) *dto.DuplicateCheckResponse

	// GetEvermark retrieves an Evermark by token id, nil when it does not exist
	GetEvermark(ctx context.Context, tokenID string) (*dto.EvermarkResponse, error)

	// GetCurrentSeason returns the season accepting Evermarks now
	GetCurrentSeason(ctx context.Context) (*dto.SeasonResponse, error)

	// GetChainStatus returns the minting contract state
	GetChainStatus(ctx context.Context) (*dto.ChainStatusResponse, error)

	// CheckHealth reports whether the index store is reachable
	CheckHealth(ctx context.Context) error
}

type executor struct {
	orchestrator  creation.Orchestrator
	guard         duplicate.Guard
	store         store.Store
	seasons       season.Oracle
	minter        chain.Minter
	createTimeout time.Duration
}

func NewExecutor(
	orchestrator creation.Orchestrator,
	guard duplicate.Guard,
	store store.Store,
	seasons season.Oracle,
	minter chain.Minter,
	createTimeout time.Duration,
) Executor {
	return &executor{
		orchestrator:  orchestrator,
		guard:         guard,
		store:         store,
		seasons:       seasons,
		minter:        minter,
		createTimeout: createTimeout,
	}
}

func (e *executor) CreateEvermark(ctx context.Context, req creation.Request, onProgress creation.ProgressFunc) (*creation.Result, error) {
	ctx = context.WithoutCancel(ctx)
	if e.createTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.createTimeout)
		defer cancel()
	}
	return e.orchestrator.Create(ctx, req, onProgress)
}

func (e *executor) CheckDuplicate(ctx context.Context, ref domain.ContentReference, title string) *dto.DuplicateCheckResponse {
	return dto.MapDuplicateVerdictToDTO(e.guard.Check(ctx, ref, title))
}

func (e *executor) GetEvermark(ctx context.Context, tokenID string) (*dto.EvermarkResponse, error) {
	row, err := e.store.GetEvermarkByTokenID(ctx, tokenID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get evermark: %v", err))
	}
	if row == nil {
		return nil, nil
	}

	resp := &dto.EvermarkResponse{EvermarkRecord: store.ToDomainRecord(row)}

	// Derived media is optional; a failed read still returns the record
	assets, err := e.store.GetMediaAssetsByTokenID(ctx, tokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to get media assets", zap.Error(err), zap.String("token_id", tokenID))
		return resp, nil
	}
	for _, asset := range assets {
		resp.Media = append(resp.Media, dto.MapMediaAssetToDTO(asset))
	}
	return resp, nil
}

func (e *executor) GetCurrentSeason(ctx context.Context) (*dto.SeasonResponse, error) {
	s, err := e.seasons.CurrentSeason(ctx)
	if err != nil {
		return nil, apierrors.NewServiceUnavailableError("Season could not be determined", err.Error())
	}
	return dto.MapSeasonToDTO(s), nil
}

func (e *executor) GetChainStatus(ctx context.Context) (*dto.ChainStatusResponse, error) {
	status, err := e.minter.Status(ctx)
	if err != nil {
		return nil, apierrors.FromError(err)
	}
	return dto.MapChainStatusToDTO(status), nil
}

func (e *executor) CheckHealth(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return apierrors.NewDatabaseError("Database unreachable", err.Error())
	}
	return nil
}
