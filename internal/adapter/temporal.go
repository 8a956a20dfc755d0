package adapter

import (
	"context"

	"go.temporal.io/sdk/activity"
)

// Activity exposes activity execution info so activities can be unit tested
//
//go:generate mockgen -source=temporal.go -destination=../mocks/temporal.go -package=mocks -mock_names=Activity=MockActivity
type Activity interface {
	// Attempt returns the current attempt number, starting at 1
	Attempt(ctx context.Context) int32

	// RecordHeartbeat reports progress of a long running activity
	RecordHeartbeat(ctx context.Context, details ...any)
}

// RealActivity implements Activity using the Temporal activity package
type RealActivity struct{}

// NewActivity creates a new real activity implementation
func NewActivity() Activity {
	return &RealActivity{}
}

func (a *RealActivity) Attempt(ctx context.Context) int32 {
	return activity.GetInfo(ctx).Attempt
}

func (a *RealActivity) RecordHeartbeat(ctx context.Context, details ...any) {
	activity.RecordHeartbeat(ctx, details...)
}
