package messaging

import (
	"context"
	"errors"

	"github.com/evermarks/evermark-minter/internal/domain"
)

// ErrPoisonMessage marks an event that can never be handled. The message is
// terminated instead of redelivered.
var ErrPoisonMessage = errors.New("poison message")

// MintedHandler is called for every delivered minted event.
// A nil error acknowledges the event; any other error requests redelivery.
type MintedHandler func(ctx context.Context, event *domain.MintedEvent) error

// Subscriber consumes minted events
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Subscribe delivers events to handler until ctx is cancelled
	Subscribe(ctx context.Context, handler MintedHandler) error

	// Close closes the connection and cleans up resources
	Close()
}
