package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the storage surface the order service needs
type OrderStore interface {
	CheckoutCart(ctx context.Context, userID int64, method, paymentMethod string, deliveryPartner *string, pickupTime *time.Time) (*models.Order, []models.OrderItem, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID int64, u store.OrderUpdate) error
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// EventPublisher is the outbound event surface; a nil publisher disables
// event emission.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishPaymentRecorded(ctx context.Context, event *models.PaymentRecordedEvent) error
}

// OrderService handles checkout and order lifecycle
type OrderService struct {
	store     OrderStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest chooses how the order is fulfilled and paid.
// PaymentMethod defaults to Credit when omitted.
type CheckoutRequest struct {
	FulfillmentMethod string     `json:"fulfillment_method" binding:"required"`
	PaymentMethod     string     `json:"payment_method,omitempty"`
	DeliveryPartner   *string    `json:"delivery_partner,omitempty"`
	PickupTime        *time.Time `json:"pickup_time,omitempty"`
}

// UpdateOrderRequest carries admin-settable order fields; omitted fields
// are preserved
type UpdateOrderRequest struct {
	Status          *string `json:"status,omitempty"`
	DeliveryStatus  *string `json:"delivery_status,omitempty"`
	DeliveryPartner *string `json:"delivery_partner,omitempty"`
}

// Checkout converts the caller's cart into a Pending order with an
// initial Pending payment covering the total. The cart load, order,
// line-item and payment creation and cart drain happen in one database
// transaction; an empty cart aborts with store.ErrEmptyCart and nothing
// written. No idempotency key is taken, so a client retry after a transient
// failure may place a second order.
func (s *OrderService) Checkout(ctx context.Context, userID int64, req *CheckoutRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	if !models.ValidFulfillmentMethod(req.FulfillmentMethod) {
		return nil, fmt.Errorf("fulfillment method must be %s or %s: %w",
			models.FulfillmentDelivery, models.FulfillmentPickup, ErrInvalidInput)
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCredit
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("unknown payment method %q: %w", paymentMethod, ErrInvalidInput)
	}

	start := time.Now()
	order, items, err := s.store.CheckoutCart(ctx, userID, req.FulfillmentMethod, paymentMethod, req.DeliveryPartner, req.PickupTime)
	util.CheckoutLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		} else {
			util.CheckoutsFailedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, err
	}

	util.CheckoutsTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.String("total", order.TotalAmount.String()))

	s.publishOrderPlaced(ctx, order, items)
	return order, nil
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order, items []models.OrderItem) {
	if s.publisher == nil {
		return
	}

	var email string
	if user, err := s.store.GetUserByID(ctx, order.UserID); err == nil {
		email = user.Email
	}

	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, it := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:           order.ID,
		UserID:            order.UserID,
		UserEmail:         email,
		FulfillmentMethod: order.FulfillmentMethod,
		TotalAmount:       order.TotalAmount,
		Items:             eventItems,
	}

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

// GetDetail returns an order together with its line items
func (s *OrderService) GetDetail(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// ListMine returns the caller's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}

// UpdateStatus applies the supplied status and delivery fields to an order.
// Any status in the enum may be set at any time; there is no enforced
// transition ordering.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, req *UpdateOrderRequest) error {
	if req.Status == nil && req.DeliveryStatus == nil && req.DeliveryPartner == nil {
		return fmt.Errorf("no fields to update: %w", ErrInvalidInput)
	}
	if req.Status != nil && !models.ValidOrderStatus(*req.Status) {
		return fmt.Errorf("unknown order status %q: %w", *req.Status, ErrInvalidInput)
	}

	err := s.store.UpdateOrder(ctx, orderID, store.OrderUpdate{
		Status:          req.Status,
		DeliveryStatus:  req.DeliveryStatus,
		DeliveryPartner: req.DeliveryPartner,
	})
	if err != nil {
		return err
	}

	if req.Status != nil {
		util.OrderStatusUpdatesTotal.WithLabelValues(*req.Status).Inc()
		s.publishStatusChanged(ctx, orderID, *req.Status)
	}
	return nil
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID int64, status string) {
	if s.publisher == nil {
		return
	}

	var userID int64
	if order, err := s.store.GetOrderByID(ctx, orderID); err == nil {
		userID = order.UserID
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		UserID:  userID,
		Status:  status,
	}

	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
}

// ListAll returns orders matching the supplied equality filters, newest
// first; no filter means all orders.
func (s *OrderService) ListAll(ctx context.Context, userID *int64, status *string) ([]models.Order, error) {
	if status != nil && !models.ValidOrderStatus(*status) {
		return nil, fmt.Errorf("unknown order status %q: %w", *status, ErrInvalidInput)
	}
	return s.store.ListOrders(ctx, store.OrderFilter{UserID: userID, Status: status})
}
