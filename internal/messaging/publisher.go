package messaging

import (
	"context"

	"github.com/evermarks/evermark-minter/internal/domain"
)

// Publisher defines the interface for publishing minted events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishMinted publishes a minted event. Events are deduplicated by transaction hash.
	PublishMinted(ctx context.Context, event *domain.MintedEvent) error
	// Close closes the connection
	Close()
}
