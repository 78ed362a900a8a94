package service

import (
	"context"
	"testing"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderStore struct {
	cart     []models.CartItem
	orders   map[int64]*models.Order
	items    map[int64][]models.OrderItem
	users    map[int64]*models.User
	payments []models.Payment
	updates  []store.OrderUpdate
	nextID   int64
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
		users:  make(map[int64]*models.User),
		nextID: 1,
	}
}

func (m *mockOrderStore) CheckoutCart(ctx context.Context, userID int64, method, paymentMethod string, deliveryPartner *string, pickupTime *time.Time) (*models.Order, []models.OrderItem, error) {
	if len(m.cart) == 0 {
		return nil, nil, store.ErrEmptyCart
	}

	order := &models.Order{
		ID:                m.nextID,
		UserID:            userID,
		Status:            models.OrderStatusPending,
		FulfillmentMethod: method,
		DeliveryPartner:   deliveryPartner,
		PickupTime:        pickupTime,
		TotalAmount:       models.OrderTotal(m.cart),
	}
	m.nextID++

	var items []models.OrderItem
	for _, line := range m.cart {
		items = append(items, models.OrderItem{
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		})
	}
	m.cart = nil
	m.orders[order.ID] = order
	m.items[order.ID] = items
	m.payments = append(m.payments, models.Payment{
		OrderID:       order.ID,
		TransactionID: "tx-checkout",
		Amount:        order.TotalAmount,
		Method:        paymentMethod,
		Status:        models.PaymentStatusPending,
	})
	return order, items, nil
}

func (m *mockOrderStore) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *mockOrderStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderStore) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderStore) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderStore) UpdateOrder(ctx context.Context, orderID int64, u store.OrderUpdate) error {
	o, ok := m.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.DeliveryStatus != nil {
		o.DeliveryStatus = u.DeliveryStatus
	}
	if u.DeliveryPartner != nil {
		o.DeliveryPartner = u.DeliveryPartner
	}
	m.updates = append(m.updates, u)
	return nil
}

func (m *mockOrderStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type capturingPublisher struct {
	placed        []*models.OrderPlacedEvent
	statusChanged []*models.OrderStatusChangedEvent
	payments      []*models.PaymentRecordedEvent
}

func (p *capturingPublisher) PublishOrderPlaced(ctx context.Context, e *models.OrderPlacedEvent) error {
	p.placed = append(p.placed, e)
	return nil
}

func (p *capturingPublisher) PublishOrderStatusChanged(ctx context.Context, e *models.OrderStatusChangedEvent) error {
	p.statusChanged = append(p.statusChanged, e)
	return nil
}

func (p *capturingPublisher) PublishPaymentRecorded(ctx context.Context, e *models.PaymentRecordedEvent) error {
	p.payments = append(p.payments, e)
	return nil
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := NewOrderService(newMockOrderStore(), nil)

	_, err := svc.Checkout(context.Background(), 7, &CheckoutRequest{FulfillmentMethod: models.FulfillmentDelivery})
	assert.ErrorIs(t, err, store.ErrEmptyCart)
}

func TestCheckoutInvalidFulfillmentMethod(t *testing.T) {
	svc := NewOrderService(newMockOrderStore(), nil)

	_, err := svc.Checkout(context.Background(), 7, &CheckoutRequest{FulfillmentMethod: "Teleport"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckoutDrainsCartAndPublishes(t *testing.T) {
	st := newMockOrderStore()
	st.users[7] = &models.User{ID: 7, Email: "buyer@example.com"}
	st.cart = []models.CartItem{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("3.99")},
		{ProductID: 2, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("19.95")},
	}

	pub := &capturingPublisher{}
	svc := NewOrderService(st, pub)

	order, err := svc.Checkout(context.Background(), 7, &CheckoutRequest{FulfillmentMethod: models.FulfillmentDelivery})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("27.93")))
	assert.Empty(t, st.cart)

	require.Len(t, pub.placed, 1)
	event := pub.placed[0]
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, "buyer@example.com", event.UserEmail)
	assert.Len(t, event.Items, 2)
	assert.NotEmpty(t, event.EventID)
}

func TestCheckoutCreatesPendingPayment(t *testing.T) {
	st := newMockOrderStore()
	st.cart = []models.CartItem{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("3.99")},
	}
	svc := NewOrderService(st, nil)

	order, err := svc.Checkout(context.Background(), 7, &CheckoutRequest{
		FulfillmentMethod: models.FulfillmentDelivery,
		PaymentMethod:     models.PaymentMethodDebit,
	})
	require.NoError(t, err)

	require.Len(t, st.payments, 1)
	payment := st.payments[0]
	assert.Equal(t, order.ID, payment.OrderID)
	assert.Equal(t, models.PaymentMethodDebit, payment.Method)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.True(t, payment.Amount.Equal(order.TotalAmount))
}

func TestCheckoutPaymentMethodDefaultsToCredit(t *testing.T) {
	st := newMockOrderStore()
	st.cart = []models.CartItem{
		{ProductID: 1, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("5.00")},
	}
	svc := NewOrderService(st, nil)

	_, err := svc.Checkout(context.Background(), 7, &CheckoutRequest{FulfillmentMethod: models.FulfillmentPickup})
	require.NoError(t, err)

	require.Len(t, st.payments, 1)
	assert.Equal(t, models.PaymentMethodCredit, st.payments[0].Method)
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	st := newMockOrderStore()
	st.cart = []models.CartItem{
		{ProductID: 1, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("5.00")},
	}
	svc := NewOrderService(st, nil)

	_, err := svc.Checkout(context.Background(), 7, &CheckoutRequest{
		FulfillmentMethod: models.FulfillmentDelivery,
		PaymentMethod:     "Barter",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, st.payments)
}

func TestUpdateOrderStatus(t *testing.T) {
	st := newMockOrderStore()
	st.orders[1] = &models.Order{ID: 1, UserID: 7, Status: models.OrderStatusPending}

	pub := &capturingPublisher{}
	svc := NewOrderService(st, pub)

	status := models.OrderStatusConfirmed
	err := svc.UpdateStatus(context.Background(), 1, &UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, st.orders[1].Status)

	require.Len(t, pub.statusChanged, 1)
	assert.Equal(t, int64(7), pub.statusChanged[0].UserID)
	assert.Equal(t, models.OrderStatusConfirmed, pub.statusChanged[0].Status)
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	st := newMockOrderStore()
	st.orders[1] = &models.Order{ID: 1, UserID: 7}
	svc := NewOrderService(st, nil)

	err := svc.UpdateStatus(context.Background(), 1, &UpdateOrderRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	bogus := "Shipped"
	err = svc.UpdateStatus(context.Background(), 1, &UpdateOrderRequest{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateOrderDeliveryFieldsOnly(t *testing.T) {
	st := newMockOrderStore()
	st.orders[1] = &models.Order{ID: 1, UserID: 7, Status: models.OrderStatusConfirmed}

	pub := &capturingPublisher{}
	svc := NewOrderService(st, pub)

	partner := "GrabFood"
	err := svc.UpdateStatus(context.Background(), 1, &UpdateOrderRequest{DeliveryPartner: &partner})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, st.orders[1].Status)
	assert.Empty(t, pub.statusChanged)
}

func TestGetOrderDetail(t *testing.T) {
	st := newMockOrderStore()
	st.cart = []models.CartItem{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("3.99")},
	}
	svc := NewOrderService(st, nil)

	order, err := svc.Checkout(context.Background(), 7, &CheckoutRequest{FulfillmentMethod: models.FulfillmentPickup})
	require.NoError(t, err)

	got, items, err := svc.GetDetail(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Len(t, items, 1)

	_, _, err = svc.GetDetail(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListAllOrdersFilter(t *testing.T) {
	st := newMockOrderStore()
	st.orders[1] = &models.Order{ID: 1, UserID: 7, Status: models.OrderStatusPending}
	st.orders[2] = &models.Order{ID: 2, UserID: 8, Status: models.OrderStatusCompleted}
	svc := NewOrderService(st, nil)

	userID := int64(7)
	orders, err := svc.ListAll(context.Background(), &userID, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	bogus := "Shipped"
	_, err = svc.ListAll(context.Background(), nil, &bogus)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
