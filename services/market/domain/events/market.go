package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/marketledger/services/market/domain/models"
)

// Watermill topics published by the market service. Consumers subscribe via
// EventBus.Subscribe(ctx, topic).
const (
	TopicItemListed   = "market.item.listed"
	TopicItemRemoved  = "market.item.removed"
	TopicItemRelisted = "market.item.relisted"
	TopicItemSold     = "market.item.sold"
	TopicFeeChanged   = "market.fee.changed"
)

// ItemListedEvent is published after a new item is created on the ledger.
type ItemListedEvent struct {
	EventID    uuid.UUID      `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int            `json:"version"`  // Schema version; increment on breaking changes
	ItemID     uint64         `json:"item_id"`
	Account    models.Account `json:"account"`
	Name       string         `json:"name"`
	Price      uint64         `json:"price"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ItemRemovedEvent is published after an owner unlists an item.
type ItemRemovedEvent struct {
	EventID    uuid.UUID      `json:"event_id"`
	Version    int            `json:"version"`
	ItemID     uint64         `json:"item_id"`
	Account    models.Account `json:"account"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ItemRelistedEvent is published after an owner relists an unlisted item.
type ItemRelistedEvent struct {
	EventID    uuid.UUID      `json:"event_id"`
	Version    int            `json:"version"`
	ItemID     uint64         `json:"item_id"`
	Account    models.Account `json:"account"`
	Price      uint64         `json:"price"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ItemSoldEvent is published after a completed purchase. Seller is the owner
// prior to the sale; Fee is the amount withheld for the administrator.
type ItemSoldEvent struct {
	EventID    uuid.UUID      `json:"event_id"`
	Version    int            `json:"version"`
	ItemID     uint64         `json:"item_id"`
	Buyer      models.Account `json:"buyer"`
	Seller     models.Account `json:"seller"`
	Name       string         `json:"name"`
	Price      uint64         `json:"price"`
	Fee        uint64         `json:"fee"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// FeeChangedEvent is published after an administrator changes the market fee.
type FeeChangedEvent struct {
	EventID    uuid.UUID      `json:"event_id"`
	Version    int            `json:"version"`
	Account    models.Account `json:"account"`
	Percentage uint64         `json:"percentage"`
	OccurredAt time.Time      `json:"occurred_at"`
}
