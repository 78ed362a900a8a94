package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Address      string    `db:"address" json:"address,omitempty"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Product represents a catalog entry
type Product struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description,omitempty"`
	Price         decimal.Decimal `db:"price" json:"price"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	Category      string          `db:"category" json:"category,omitempty"`
	ImageURL      string          `db:"image_url" json:"image_url,omitempty"`
	StarRating    float64         `db:"star_rating" json:"star_rating"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// CartItem is one (user, product) cart line with the price snapshotted
// at first add
type CartItem struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	ProductID       int64           `db:"product_id" json:"product_id"`
	Quantity        int             `db:"quantity" json:"quantity"`
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase" json:"price_at_purchase"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`

	// joined product fields for cart listing
	ProductName  string `db:"product_name" json:"product_name,omitempty"`
	ProductImage string `db:"product_image" json:"product_image,omitempty"`
}

// Order represents a customer order
type Order struct {
	ID                int64           `db:"id" json:"id"`
	UserID            int64           `db:"user_id" json:"user_id"`
	Status            string          `db:"status" json:"status"`
	FulfillmentMethod string          `db:"fulfillment_method" json:"fulfillment_method"`
	DeliveryPartner   *string         `db:"delivery_partner" json:"delivery_partner,omitempty"`
	DeliveryStatus    *string         `db:"delivery_status" json:"delivery_status,omitempty"`
	PickupTime        *time.Time      `db:"pickup_time" json:"pickup_time,omitempty"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem is an immutable line-item snapshot taken at checkout
type OrderItem struct {
	ID              int64           `db:"id" json:"id"`
	OrderID         int64           `db:"order_id" json:"order_id"`
	ProductID       int64           `db:"product_id" json:"product_id"`
	Quantity        int             `db:"quantity" json:"quantity"`
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase" json:"price_at_purchase"`
}

// Payment represents a payment record for an order
type Payment struct {
	ID            int64           `db:"id" json:"id"`
	OrderID       int64           `db:"order_id" json:"order_id"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Method        string          `db:"method" json:"method"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Review is one user's rating of a product, at most one per (user, product)
type Review struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	UserName string `db:"user_name" json:"user_name,omitempty"`
}

// ReviewComment is a free-text comment attached to a review
type ReviewComment struct {
	ID        int64     `db:"id" json:"id"`
	ReviewID  int64     `db:"review_id" json:"review_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CateringRequest is a customer inquiry for a catered event
type CateringRequest struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	EventDate time.Time `db:"event_date" json:"event_date"`
	Headcount int       `db:"headcount" json:"headcount"`
	Phone     string    `db:"phone" json:"phone"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent guards event consumers against redelivery
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// Roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Order statuses
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// Fulfillment methods
const (
	FulfillmentDelivery = "Delivery"
	FulfillmentPickup   = "Pickup"
)

// Payment methods
const (
	PaymentMethodCredit = "Credit"
	PaymentMethodDebit  = "Debit"
)

// Payment statuses
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusCancelled = "Cancelled"
	PaymentStatusFailed    = "Failed"
	PaymentStatusRefunded  = "Refunded"
)

// Catering request statuses
const (
	CateringStatusPending  = "Pending"
	CateringStatusApproved = "Approved"
	CateringStatusDeclined = "Declined"
)

// ValidOrderStatus reports whether s is a member of the order status enum.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidFulfillmentMethod reports whether m is Delivery or Pickup.
func ValidFulfillmentMethod(m string) bool {
	return m == FulfillmentDelivery || m == FulfillmentPickup
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCredit || m == PaymentMethodDebit
}

// ValidPaymentStatus reports whether s is a member of the payment status enum.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ValidCateringStatus reports whether s is a member of the catering status enum.
func ValidCateringStatus(s string) bool {
	switch s {
	case CateringStatusPending, CateringStatusApproved, CateringStatusDeclined:
		return true
	}
	return false
}

// OrderTotal sums quantity * price_at_purchase over cart lines. A zero
// price contributes nothing rather than failing.
func OrderTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.PriceAtPurchase.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
