package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
)

// CheckoutCart converts a user's cart into an order inside a single
// transaction: load the cart lines, create the order with the computed
// total, snapshot every line as an order item, record the initial
// Pending payment, drain the cart, commit. An empty cart returns
// ErrEmptyCart with nothing written; any other failure rolls the whole
// transaction back.
func (s *Store) CheckoutCart(ctx context.Context, userID int64, method, paymentMethod string, deliveryPartner *string, pickupTime *time.Time) (*models.Order, []models.OrderItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	lines := []models.CartItem{}
	err = tx.SelectContext(ctx, &lines, `
		SELECT id, user_id, product_id, quantity, price_at_purchase, created_at
		FROM cart_items WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, ErrEmptyCart
	}

	order := &models.Order{
		UserID:            userID,
		Status:            models.OrderStatusPending,
		FulfillmentMethod: method,
		DeliveryPartner:   deliveryPartner,
		PickupTime:        pickupTime,
		TotalAmount:       models.OrderTotal(lines),
	}

	err = tx.GetContext(ctx, order, `
		INSERT INTO orders (user_id, status, fulfillment_method, delivery_partner, pickup_time, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		order.UserID, order.Status, order.FulfillmentMethod,
		order.DeliveryPartner, order.PickupTime, order.TotalAmount)
	if err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := models.OrderItem{
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		}
		err = tx.GetContext(ctx, &item.ID, `
			INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase)
		if err != nil {
			return nil, nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (order_id, amount, method, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.TotalAmount, paymentMethod, models.PaymentStatusPending, uuid.NewString())
	if err != nil {
		return nil, nil, fmt.Errorf("create initial payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID); err != nil {
		return nil, nil, fmt.Errorf("drain cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit checkout: %w", err)
	}
	return order, items, nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser retrieves a user's orders, newest first
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// OrderFilter holds optional equality filters for admin order listing
type OrderFilter struct {
	UserID *int64
	Status *string
}

// ListOrders retrieves orders matching the supplied filters, newest first.
// No filter means all orders.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE ($1::bigint IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC`, f.UserID, f.Status)
	return orders, err
}

// OrderUpdate carries optional mutable order fields; nil means unchanged.
// Line items and the total are immutable after checkout.
type OrderUpdate struct {
	Status          *string
	DeliveryStatus  *string
	DeliveryPartner *string
}

// UpdateOrder applies the supplied status and delivery fields
func (s *Store) UpdateOrder(ctx context.Context, orderID int64, u OrderUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET
			status = COALESCE($1, status),
			delivery_status = COALESCE($2, delivery_status),
			delivery_partner = COALESCE($3, delivery_partner),
			updated_at = NOW()
		WHERE id = $4`,
		u.Status, u.DeliveryStatus, u.DeliveryPartner, orderID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return nil
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1", orderID)
	return items, err
}
