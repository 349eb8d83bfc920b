package broker

import (
	"context"
	"fmt"

	"github.com/jurko22/xml-import/internal/models"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderReceived publishes an OrderReceived event
func (ep *EventPublisher) PublishOrderReceived(ctx context.Context, event *models.OrderReceivedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishFeedSynced publishes a FeedSynced event
func (ep *EventPublisher) PublishFeedSynced(ctx context.Context, event *models.FeedSyncedEvent) error {
	return ep.producer.PublishEvent(ctx, "feed-sync", event)
}
