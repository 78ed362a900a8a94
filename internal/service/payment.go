package service

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentStore is the storage surface the payment service needs
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error)
	ListPayments(ctx context.Context, status *string) ([]models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status string) error
	DeletePayment(ctx context.Context, id int64) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
}

// PaymentService handles payment records
type PaymentService struct {
	store     PaymentStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store PaymentStore, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreatePaymentRequest records a payment against an order
type CreatePaymentRequest struct {
	OrderID       int64           `json:"order_id" binding:"required"`
	TransactionID string          `json:"transaction_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method" binding:"required"`
	Status        string          `json:"status" binding:"required"`
}

// UpdatePaymentRequest sets a payment's status
type UpdatePaymentRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *PaymentService) validate(req *CreatePaymentRequest) error {
	if !models.ValidPaymentMethod(req.Method) {
		return fmt.Errorf("unknown payment method %q: %w", req.Method, ErrInvalidInput)
	}
	if !models.ValidPaymentStatus(req.Status) {
		return fmt.Errorf("unknown payment status %q: %w", req.Status, ErrInvalidInput)
	}
	if req.Amount.IsNegative() {
		return fmt.Errorf("amount must be non-negative: %w", ErrInvalidInput)
	}
	return nil
}

// CreateOwn records a payment for an order the caller owns
func (s *PaymentService) CreateOwn(ctx context.Context, userID int64, req *CreatePaymentRequest) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreateOwn")
	defer span.End()

	if err := s.validate(req); err != nil {
		return nil, err
	}

	order, err := s.store.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %d belongs to another user: %w", req.OrderID, ErrForbidden)
	}

	return s.create(ctx, req)
}

// CreateAsAdmin records a payment without the order-ownership check. The
// order must still exist.
func (s *PaymentService) CreateAsAdmin(ctx context.Context, req *CreatePaymentRequest) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreateAsAdmin")
	defer span.End()

	if err := s.validate(req); err != nil {
		return nil, err
	}
	if _, err := s.store.GetOrderByID(ctx, req.OrderID); err != nil {
		return nil, err
	}

	return s.create(ctx, req)
}

func (s *PaymentService) create(ctx context.Context, req *CreatePaymentRequest) (*models.Payment, error) {
	payment := &models.Payment{
		OrderID:       req.OrderID,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        req.Status,
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	util.PaymentsRecordedTotal.WithLabelValues(payment.Status).Inc()
	s.logger.Info("Payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("order_id", payment.OrderID),
		zap.String("tx_id", payment.TransactionID))

	if s.publisher != nil {
		event := &models.PaymentRecordedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentRecorded,
				Timestamp: time.Now(),
			},
			PaymentID:     payment.ID,
			OrderID:       payment.OrderID,
			TransactionID: payment.TransactionID,
			Amount:        payment.Amount,
			Status:        payment.Status,
		}
		if err := s.publisher.PublishPaymentRecorded(ctx, event); err != nil {
			s.logger.Error("Failed to publish PaymentRecorded event", zap.Error(err))
		}
	}

	return payment, nil
}

// List returns payments, optionally filtered by status, newest first
func (s *PaymentService) List(ctx context.Context, status *string) ([]models.Payment, error) {
	if status != nil && !models.ValidPaymentStatus(*status) {
		return nil, fmt.Errorf("unknown payment status %q: %w", *status, ErrInvalidInput)
	}
	return s.store.ListPayments(ctx, status)
}

// UpdateStatus sets a payment's status
func (s *PaymentService) UpdateStatus(ctx context.Context, id int64, req *UpdatePaymentRequest) error {
	if !models.ValidPaymentStatus(req.Status) {
		return fmt.Errorf("unknown payment status %q: %w", req.Status, ErrInvalidInput)
	}
	return s.store.UpdatePaymentStatus(ctx, id, req.Status)
}

// Delete removes a payment record
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	return s.store.DeletePayment(ctx, id)
}
