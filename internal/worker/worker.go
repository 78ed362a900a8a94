package worker

import (
	"context"
	"fmt"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// EventStore tracks which event IDs have already been handled.
type EventStore interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// Mailer sends order confirmation email.
type Mailer interface {
	SendOrderConfirmation(to string, event *models.OrderPlacedEvent) error
}

// NotificationWorker consumes order events and emails buyers.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        EventStore
	mailer       Mailer
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, store EventStore, mailer Mailer) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		store:    store,
		mailer:   mailer,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.HandleOrderPlaced)
	w.eventHandler = eventHandler

	return w
}

// HandleOrderPlaced sends the confirmation email for a freshly placed order.
// Redelivered events are skipped via the processed_events table.
func (w *NotificationWorker) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	logger := util.GetLogger()

	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event %s: %w", event.EventID, err)
	}
	if processed {
		logger.Debug("Skipping already processed event", zap.String("event_id", event.EventID))
		return nil
	}

	if event.UserEmail == "" {
		logger.Warn("Order event without user email", zap.Int64("order_id", event.OrderID))
		return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
	}

	if err := w.mailer.SendOrderConfirmation(event.UserEmail, event); err != nil {
		util.EmailsSentTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to send confirmation for order %d: %w", event.OrderID, err)
	}
	util.EmailsSentTotal.WithLabelValues("success").Inc()

	logger.Info("Sent order confirmation",
		zap.Int64("order_id", event.OrderID),
		zap.String("to", event.UserEmail))

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	util.GetLogger().Info("Stopping notification worker")
	return w.consumer.Close()
}
