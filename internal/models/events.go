package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderReceived = "OrderReceived"
	EventTypeFeedSynced    = "FeedSynced"
)

// BaseEvent contains common event fields
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderReceivedEvent is published after a mailbox order is stored
type OrderReceivedEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Extractor   string          `json:"extractor"`
}

// FeedSyncedEvent is published after a feed reconciliation run completes
type FeedSyncedEvent struct {
	BaseEvent
	FeedURL   string `json:"feed_url"`
	Inserted  int    `json:"inserted"`
	Updated   int    `json:"updated"`
	Unchanged int    `json:"unchanged"`
	Failed    int    `json:"failed"`
	Rejected  int    `json:"rejected"`
}
