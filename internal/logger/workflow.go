package logger

import (
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

// WorkflowInfo identifies a Temporal workflow execution in log entries
type WorkflowInfo struct {
	WorkflowType string
	WorkflowID   string
	RunID        string
	Namespace    string
	TaskQueue    string
}

// GetWorkflowInfo extracts workflow information from a workflow context.
// Returns nil outside a workflow.
func GetWorkflowInfo(ctx workflow.Context) (info *WorkflowInfo) {
	defer func() {
		// workflow.GetInfo panics on a context that is not a workflow context
		if recover() != nil {
			info = nil
		}
	}()

	wi := workflow.GetInfo(ctx)
	if wi == nil {
		return nil
	}

	workflowType := wi.WorkflowType.Name
	if workflowType == "" {
		workflowType = "unknown"
	}

	return &WorkflowInfo{
		WorkflowType: workflowType,
		WorkflowID:   wi.WorkflowExecution.ID,
		RunID:        wi.WorkflowExecution.RunID,
		Namespace:    wi.Namespace,
		TaskQueue:    wi.TaskQueueName,
	}
}

func (w WorkflowInfo) fields() []zap.Field {
	return []zap.Field{
		zap.String("workflow_type", w.WorkflowType),
		zap.String("workflow_id", w.WorkflowID),
		zap.String("run_id", w.RunID),
		zap.String("namespace", w.Namespace),
		zap.String("task_queue", w.TaskQueue),
	}
}

// FromWorkflow returns a logger annotated with the workflow execution
func FromWorkflow(ctx workflow.Context) *zap.Logger {
	info := GetWorkflowInfo(ctx)
	if info == nil {
		return log
	}
	return log.With(info.fields()...)
}

// InfoWf logs an info message with workflow context.
// Replayed executions are not logged again.
func InfoWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	if isReplaying(ctx) {
		return
	}
	FromWorkflow(ctx).Info(msg, fields...)
}

func WarnWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	if isReplaying(ctx) {
		return
	}
	FromWorkflow(ctx).Warn(msg, fields...)
}

func ErrorWf(ctx workflow.Context, err error, fields ...zap.Field) {
	if isReplaying(ctx) {
		return
	}
	FromWorkflow(ctx).Error(errorMessage(err), fields...)
}

func DebugWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	if isReplaying(ctx) {
		return
	}
	FromWorkflow(ctx).Debug(msg, fields...)
}

func isReplaying(ctx workflow.Context) (replaying bool) {
	defer func() {
		if recover() != nil {
			replaying = false
		}
	}()
	return workflow.IsReplaying(ctx)
}
