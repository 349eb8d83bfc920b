package ingest

import (
	"context"
	"time"

	"github.com/jurko22/xml-import/internal/extract"
	"github.com/jurko22/xml-import/internal/mailbox"
	"github.com/jurko22/xml-import/internal/models"
	"github.com/jurko22/xml-import/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore persists extracted orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

// Publisher emits order events.
type Publisher interface {
	PublishOrderReceived(ctx context.Context, event *models.OrderReceivedEvent) error
}

// Service is the mailbox order ingestor: message in, at most one order row
// out. Publisher is optional.
type Service struct {
	store     OrderStore
	registry  *extract.Registry
	publisher Publisher
	logger    *zap.Logger
}

// NewService creates a new ingest service
func NewService(store OrderStore, registry *extract.Registry, publisher Publisher) *Service {
	return &Service{
		store:     store,
		registry:  registry,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// HandleMessage processes one mailbox message. Rejection is not an error;
// a store failure drops the message after logging it.
func (s *Service) HandleMessage(ctx context.Context, msg *mailbox.Message) {
	ctx, span := util.StartSpan(ctx, "Ingest.HandleMessage")
	defer span.End()

	util.MailReceivedTotal.Inc()

	order, extractorName, ok := s.registry.Extract(msg)
	if !ok {
		reason := "no_template"
		if extractorName != "" {
			reason = "missing_fields"
		}
		util.MailRejectedTotal.WithLabelValues(reason).Inc()
		s.logger.Debug("Message is not an order, ignoring",
			zap.String("subject", msg.Subject),
			zap.String("reason", reason))
		return
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		s.logger.Error("Failed to store order",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return
	}

	util.OrdersIngestedTotal.Inc()
	s.logger.Info("Order stored",
		zap.String("order_id", order.OrderID),
		zap.String("size", order.Size),
		zap.String("price", order.Price.String()),
		zap.String("extractor", extractorName))

	if s.publisher != nil {
		event := &models.OrderReceivedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderReceived,
				Timestamp: time.Now(),
			},
			OrderID:     order.OrderID,
			ProductName: order.ProductName,
			Size:        order.Size,
			Price:       order.Price,
			Extractor:   extractorName,
		}
		if err := s.publisher.PublishOrderReceived(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderReceived event", zap.Error(err))
		}
	}
}
