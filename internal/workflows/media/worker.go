package workflowsmedia

import (
	"go.temporal.io/sdk/workflow"
)

// Worker defines the media workflows
//
//go:generate mockgen -source=worker.go -destination=../../mocks/worker_media.go -package=mocks -mock_names=Worker=MockMediaWorker
type Worker interface {
	// GenerateDerivedArtifactsWorkflow produces thumbnail and preview variants of a minted Evermark image
	GenerateDerivedArtifactsWorkflow(ctx workflow.Context, req ArtifactsRequest) error
}

type worker struct {
	executor Executor
}

// NewWorker creates a new media worker instance.
// A nil executor is valid when the worker is only used to reference workflow functions.
func NewWorker(executor Executor) Worker {
	return &worker{
		executor: executor,
	}
}
