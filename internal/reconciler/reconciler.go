package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/messaging"
	"github.com/evermarks/evermark-minter/internal/persistence"
	"github.com/evermarks/evermark-minter/internal/providers/temporal"
	"github.com/evermarks/evermark-minter/internal/store"
)

// ErrTokenIDNotInReceipt is returned when a confirmed receipt carries no mint log of the contract
var ErrTokenIDNotInReceipt = errors.New("token id not found in receipt")

// Config holds the configuration for the reconciler
type Config struct {
	MediaTaskQueue string
	// WorkerPoolSize bounds concurrent receipt lookups during a sweep
	WorkerPoolSize int
	// SweepInterval is the delay between sweeps of records without token id; zero disables sweeping
	SweepInterval  time.Duration
	SweepBatchSize int
	// PendingTTL is how long a transaction may stay unknown to the node
	// before its record is marked unresolvable; zero never gives up
	PendingTTL time.Duration
}

// Reconciler brings the index store in line with the chain. It consumes
// minted events and resolves token ids that the creation pipeline could not
// read from the receipt.
type Reconciler interface {
	// Run consumes minted events and sweeps periodically until ctx is done
	Run(ctx context.Context) error

	// HandleMinted upserts the record of one minted event
	HandleMinted(ctx context.Context, event *domain.MintedEvent) error

	// ReconcileTx resolves the token id of the record minted by txHash
	ReconcileTx(ctx context.Context, txHash string) (*domain.EvermarkRecord, error)

	// SweepMissingTokenIDs reconciles a batch of records without token id and
	// returns how many were resolved
	SweepMissingTokenIDs(ctx context.Context) (int, error)
}

type reconciler struct {
	cfg          Config
	subscriber   messaging.Subscriber
	store        store.Store
	minter       chain.Minter
	orchestrator temporal.TemporalOrchestrator
	clock        adapter.Clock
	pool         pond.Pool
}

// NewReconciler creates a reconciler. subscriber is only required by Run and
// orchestrator is optional.
func NewReconciler(
	cfg Config,
	subscriber messaging.Subscriber,
	st store.Store,
	minter chain.Minter,
	orchestrator temporal.TemporalOrchestrator,
	clock adapter.Clock,
) Reconciler {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = 50
	}

	return &reconciler{
		cfg:          cfg,
		subscriber:   subscriber,
		store:        st,
		minter:       minter,
		orchestrator: orchestrator,
		clock:        clock,
		pool:         pond.NewPool(cfg.WorkerPoolSize),
	}
}

func (r *reconciler) Run(ctx context.Context) error {
	if r.subscriber == nil {
		return errors.New("reconciler has no subscriber")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.subscriber.Subscribe(ctx, r.HandleMinted)
	}()

	for {
		var tick <-chan time.Time
		if r.cfg.SweepInterval > 0 {
			tick = r.clock.After(r.cfg.SweepInterval)
		}

		select {
		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-tick:
			if _, err := r.SweepMissingTokenIDs(ctx); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Sweep failed"))
			}
		}
	}
}

func (r *reconciler) HandleMinted(ctx context.Context, event *domain.MintedEvent) error {
	if event == nil || !domain.IsValidTxHash(event.Record.TxHash) {
		return fmt.Errorf("%w: minted event without valid transaction hash", messaging.ErrPoisonMessage)
	}

	record := event.Record
	if record.TokenID == "" {
		err := r.resolveTokenID(ctx, &record)
		switch {
		case errors.Is(err, ErrTokenIDNotInReceipt):
			// Save the block number, then take the row out of the sweep
			if err := r.save(ctx, record); err != nil {
				return err
			}
			r.markUnresolvable(ctx, record.TxHash, ErrTokenIDNotInReceipt)
			return nil
		case errors.Is(err, messaging.ErrPoisonMessage):
			r.markUnresolvable(ctx, record.TxHash, err)
			return err
		case err != nil:
			return err
		}
	}

	return r.save(ctx, record)
}

func (r *reconciler) ReconcileTx(ctx context.Context, txHash string) (*domain.EvermarkRecord, error) {
	if !domain.IsValidTxHash(txHash) {
		return nil, domain.NewValidationError("tx_hash", "must be a 0x-prefixed 64 hex character hash")
	}
	ctx = logger.WithFields(ctx, zap.String("tx_hash", txHash))

	row, err := r.store.GetEvermarkByTxHash(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, txHash)
	}

	record := store.ToDomainRecord(row)
	if record.TokenID != "" {
		return &record, nil
	}

	if err := r.resolveTokenID(ctx, &record); err != nil {
		switch {
		case errors.Is(err, ErrTokenIDNotInReceipt), errors.Is(err, messaging.ErrPoisonMessage):
			r.markUnresolvable(ctx, txHash, err)
		case errors.Is(err, ethereum.NotFound) && r.cfg.PendingTTL > 0 && r.clock.Since(record.CreatedAt) > r.cfg.PendingTTL:
			// The broadcast most likely never reached the network
			r.markUnresolvable(ctx, txHash, fmt.Errorf("transaction unknown after %s: %w", r.cfg.PendingTTL, err))
		}
		return nil, err
	}
	if err := r.save(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

// markUnresolvable flags a record whose receipt will never yield a token id
func (r *reconciler) markUnresolvable(ctx context.Context, txHash string, cause error) {
	if err := r.store.MarkReconcileFailed(ctx, txHash, cause.Error()); err != nil {
		logger.WarnCtx(ctx, "Failed to mark evermark unresolvable", zap.String("tx_hash", txHash), zap.Error(err))
		return
	}
	logger.WarnCtx(ctx, "Evermark marked unresolvable", zap.String("tx_hash", txHash), zap.Error(cause))
}

func (r *reconciler) SweepMissingTokenIDs(ctx context.Context) (int, error) {
	rows, err := r.store.ListEvermarksMissingTokenID(ctx, r.cfg.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list evermarks without token id: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var resolved atomic.Int64
	group := r.pool.NewGroup()
	for _, row := range rows {
		txHash := row.TxHash
		group.Submit(func() {
			if _, err := r.ReconcileTx(ctx, txHash); err != nil {
				logger.WarnCtx(ctx, "Failed to reconcile evermark", zap.String("tx_hash", txHash), zap.Error(err))
				return
			}
			resolved.Add(1)
		})
	}
	if err := group.Wait(); err != nil {
		return int(resolved.Load()), err
	}

	logger.InfoCtx(ctx, "Sweep finished",
		zap.Int("candidates", len(rows)),
		zap.Int64("resolved", resolved.Load()))
	return int(resolved.Load()), nil
}

// resolveTokenID reads the token id and block number from the mint receipt
func (r *reconciler) resolveTokenID(ctx context.Context, record *domain.EvermarkRecord) error {
	receipt, err := r.minter.ParseReceipt(ctx, record.TxHash)
	if err != nil {
		if chainErr, ok := chain.AsError(err); ok &&
			(chainErr.Kind == chain.ErrorKindTransactionReverted || chainErr.Kind == chain.ErrorKindInvalidParams) {
			return fmt.Errorf("%w: %v", messaging.ErrPoisonMessage, err)
		}
		if errors.Is(err, ethereum.NotFound) {
			logger.WarnCtx(ctx, "Receipt not available yet", zap.String("tx_hash", record.TxHash))
		}
		return err
	}

	if receipt.BlockNumber != nil {
		record.BlockNumber = receipt.BlockNumber
	}
	if receipt.TokenID == nil {
		logger.WarnCtx(ctx, "Receipt has no mint log", zap.String("tx_hash", record.TxHash))
		return fmt.Errorf("%w: %s", ErrTokenIDNotInReceipt, record.TxHash)
	}

	record.TokenID = receipt.TokenIDString()
	logger.InfoCtx(ctx, "Token id resolved from receipt",
		zap.String("tx_hash", record.TxHash),
		zap.String("token_id", record.TokenID))
	return nil
}

func (r *reconciler) save(ctx context.Context, record domain.EvermarkRecord) error {
	if _, err := r.store.UpsertEvermark(ctx, record); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %v", messaging.ErrPoisonMessage, err)
		}
		return fmt.Errorf("failed to upsert evermark %s: %w", record.TxHash, err)
	}

	if record.TokenID != "" && r.orchestrator != nil {
		if err := persistence.ScheduleArtifacts(ctx, r.orchestrator, r.cfg.MediaTaskQueue, record); err != nil {
			logger.WarnCtx(ctx, "Failed to schedule derived artifacts", zap.Error(err))
		}
	}
	return nil
}
