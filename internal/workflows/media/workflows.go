package workflowsmedia

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/logger"
)

// WorkflowID returns the deterministic workflow id for a token so repeated
// scheduling collapses onto one execution
func WorkflowID(tokenID string) string {
	return fmt.Sprintf("evermark-artifacts-%s", tokenID)
}

func (w *worker) GenerateDerivedArtifactsWorkflow(ctx workflow.Context, req ArtifactsRequest) error {
	logger.InfoWf(ctx, "Generating derived artifacts",
		zap.String("token_id", req.TokenID),
		zap.String("image_url", req.ImageURL))

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    30 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Minute,
			MaximumAttempts:    5,
		},
	})

	if err := workflow.ExecuteActivity(ctx, w.executor.GenerateDerivedArtifacts, req).Get(ctx, nil); err != nil {
		logger.ErrorWf(ctx, fmt.Errorf("failed to generate derived artifacts"),
			zap.Error(err),
			zap.String("token_id", req.TokenID))
		return err
	}

	logger.InfoWf(ctx, "Derived artifacts generated", zap.String("token_id", req.TokenID))
	return nil
}
