package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/messaging"
	"github.com/evermarks/evermark-minter/internal/providers/temporal"
	"github.com/evermarks/evermark-minter/internal/store"
	workflowsmedia "github.com/evermarks/evermark-minter/internal/workflows/media"
)

// Status is the outcome class of a sync
type Status string

const (
	StatusOK            Status = "ok"
	StatusOKWithWarning Status = "ok_with_warning"
	StatusError         Status = "error"
)

// WarningTokenIDUnknown is reported when a record is saved without token id
const WarningTokenIDUnknown = "token id unknown; record saved by transaction hash and derived artifacts deferred until reconciliation"

// Result reports what happened to a record
type Result struct {
	Status  Status
	Warning string
	// Err is a *domain.PersistenceError when Status is StatusError
	Err error
}

// Persisted reports whether the record reached the index store
func (r Result) Persisted() bool {
	return r.Status != StatusError
}

// Config holds persistence settings
type Config struct {
	MediaTaskQueue  string
	MaxRetries      uint64
	InitialInterval time.Duration
}

// Sync writes minted Evermarks to the index store and schedules best-effort follow-ups
//
//go:generate mockgen -source=sync.go -destination=../mocks/persistence_sync.go -package=mocks -mock_names=Sync=MockPersistenceSync
type Sync interface {
	// Sync upserts the record, publishes a minted event and schedules derived
	// artifacts. It never returns an error that should fail the mint.
	Sync(ctx context.Context, record domain.EvermarkRecord) Result
}

type syncer struct {
	cfg          Config
	store        store.Store
	orchestrator temporal.TemporalOrchestrator
	publisher    messaging.Publisher
	clock        adapter.Clock
}

// NewSync creates a persistence sync. orchestrator and publisher are optional.
func NewSync(cfg Config, st store.Store, orchestrator temporal.TemporalOrchestrator, publisher messaging.Publisher, clock adapter.Clock) Sync {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	return &syncer{
		cfg:          cfg,
		store:        st,
		orchestrator: orchestrator,
		publisher:    publisher,
		clock:        clock,
	}
}

func (s *syncer) Sync(ctx context.Context, record domain.EvermarkRecord) Result {
	if record.TxHash == "" {
		return Result{
			Status: StatusError,
			Err:    &domain.PersistenceError{TokenID: record.TokenID, Err: errors.New("transaction hash is required")},
		}
	}
	ctx = logger.WithFields(ctx, zap.String("tx_hash", record.TxHash), zap.String("token_id", record.TokenID))

	upsertErr := s.upsert(ctx, record)

	// The event is published even when the upsert failed so the reconciler can retry it
	s.publish(ctx, record)

	if upsertErr != nil {
		logger.ErrorCtx(ctx, upsertErr, zap.String("message", "Failed to persist evermark"))
		return Result{
			Status: StatusError,
			Err:    &domain.PersistenceError{TokenID: record.TokenID, Err: upsertErr},
		}
	}

	if record.TokenID == "" {
		logger.WarnCtx(ctx, "Evermark persisted without token id")
		return Result{Status: StatusOKWithWarning, Warning: WarningTokenIDUnknown}
	}

	s.scheduleArtifacts(ctx, record)
	return Result{Status: StatusOK}
}

func (s *syncer) upsert(ctx context.Context, record domain.EvermarkRecord) error {
	operation := func() error {
		_, err := s.store.UpsertEvermark(ctx, record)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialInterval
	return backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(b, s.cfg.MaxRetries), ctx),
		func(err error, d time.Duration) {
			logger.WarnCtx(ctx, "Retrying evermark upsert", zap.Error(err), zap.Duration("backoff", d))
		})
}

func isPermanent(err error) bool {
	var validationErr *domain.ValidationError
	return errors.As(err, &validationErr)
}

func (s *syncer) publish(ctx context.Context, record domain.EvermarkRecord) {
	if s.publisher == nil {
		return
	}

	event := &domain.MintedEvent{
		EventID:   ulid.Make().String(),
		Record:    record,
		Timestamp: s.clock.Now(),
	}
	if err := s.publisher.PublishMinted(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish minted event", zap.Error(err))
	}
}

// scheduleArtifacts starts the derived-artifact workflow without waiting for it
func (s *syncer) scheduleArtifacts(ctx context.Context, record domain.EvermarkRecord) {
	if s.orchestrator == nil {
		return
	}
	if err := ScheduleArtifacts(ctx, s.orchestrator, s.cfg.MediaTaskQueue, record); err != nil {
		logger.WarnCtx(ctx, "Failed to schedule derived artifacts", zap.Error(err))
	}
}

// ScheduleArtifacts starts the derived-artifact workflow of a minted record.
// Records without token id or image are skipped.
func ScheduleArtifacts(ctx context.Context, orchestrator temporal.TemporalOrchestrator, taskQueue string, record domain.EvermarkRecord) error {
	if record.TokenID == "" || record.ImageAsset.PrimaryURL == "" {
		return nil
	}

	req := workflowsmedia.ArtifactsRequest{
		TokenID:       record.TokenID,
		TxHash:        record.TxHash,
		ImageURL:      record.ImageAsset.PrimaryURL,
		MimeType:      record.ImageAsset.ContentType,
		FileSizeBytes: record.ImageAsset.ByteSize,
	}
	opts := client.StartWorkflowOptions{
		ID:                    workflowsmedia.WorkflowID(record.TokenID),
		TaskQueue:             taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
		WorkflowRunTimeout:    30 * time.Minute,
	}

	w := workflowsmedia.NewWorker(nil)
	if _, err := orchestrator.ExecuteWorkflow(ctx, opts, w.GenerateDerivedArtifactsWorkflow, req); err != nil {
		return fmt.Errorf("workflow %s: %w", opts.ID, err)
	}

	logger.InfoCtx(ctx, "Derived artifacts scheduled", zap.String("workflow_id", opts.ID))
	return nil
}
