package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the inventory repository through the outbox.
const (
	TopicItemSaved      = "inventory.item_saved"
	TopicActivityLogged = "inventory.activity_logged"
)

// ItemSavedEvent is published after an Item is created or replaced.
// The worker uses it to warm the barcode cache.
type ItemSavedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     int64     `json:"item_id"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	Store      string    `json:"store"`
	Barcode    string    `json:"barcode,omitempty"`
	Created    bool      `json:"created"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityLoggedEvent is published in the same transaction that applies a
// use/buy event to an item. Quantity is the running value after the change.
type ActivityLoggedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	Type       string    `json:"type"`
	Qty        float64   `json:"qty"`
	Price      *float64  `json:"price,omitempty"`
	Quantity   float64   `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
}
