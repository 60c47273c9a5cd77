package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for marketplace ledger events.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicProductCreated).
const (
	TopicProductCreated   = "product.created"
	TopicProductPurchased = "product.purchased"
)

// ProductCreatedEvent is published after a new listing commits. It carries a
// full product snapshot; Purchased is always false here.
type ProductCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ProductID  int64     `json:"product_id"`
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	Owner      uuid.UUID `json:"owner"`
	Purchased  bool      `json:"purchased"`
	CreatedAt  time.Time `json:"created_at"` // Listing time of the product
	OccurredAt time.Time `json:"occurred_at"`
}

// ProductPurchasedEvent is published after a purchase settles. Owner is the
// buyer and Purchased is always true.
type ProductPurchasedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ProductID  int64     `json:"product_id"`
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	Owner      uuid.UUID `json:"owner"`
	Purchased  bool      `json:"purchased"`
	CreatedAt  time.Time `json:"created_at"` // Listing time of the product
	OccurredAt time.Time `json:"occurred_at"`
}
