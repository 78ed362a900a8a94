package service

import (
	"context"
	"testing"

	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCartStore struct {
	products map[int64]*models.Product
	items    []models.CartItem
	nextID   int64
}

func newMockCartStore(products ...*models.Product) *mockCartStore {
	m := &mockCartStore{products: make(map[int64]*models.Product), nextID: 1}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCartStore) ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockCartStore) UpsertCartItem(ctx context.Context, userID, productID int64, quantity int, price decimal.Decimal) (*models.CartItem, error) {
	for i := range m.items {
		if m.items[i].UserID == userID && m.items[i].ProductID == productID {
			m.items[i].Quantity += quantity
			return &m.items[i], nil
		}
	}
	item := models.CartItem{
		ID:              m.nextID,
		UserID:          userID,
		ProductID:       productID,
		Quantity:        quantity,
		PriceAtPurchase: price,
	}
	m.nextID++
	m.items = append(m.items, item)
	return &item, nil
}

func (m *mockCartStore) UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	for i := range m.items {
		if m.items[i].ID == itemID && m.items[i].UserID == userID {
			m.items[i].Quantity = quantity
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockCartStore) DeleteCartItem(ctx context.Context, userID, itemID int64) error {
	for i := range m.items {
		if m.items[i].ID == itemID && m.items[i].UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockCartStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func TestCartAddNewLine(t *testing.T) {
	st := newMockCartStore(&models.Product{ID: 1, Name: "Pad Thai", Price: decimal.RequireFromString("12.50")})
	svc := NewCartService(st)

	item, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.PriceAtPurchase.Equal(decimal.RequireFromString("12.50")))
}

func TestCartAddIncrementsExistingLine(t *testing.T) {
	st := newMockCartStore(&models.Product{ID: 1, Price: decimal.RequireFromString("3.99")})
	svc := NewCartService(st)

	_, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	item, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartAddInvalidQuantity(t *testing.T) {
	st := newMockCartStore(&models.Product{ID: 1, Price: decimal.NewFromInt(5)})
	svc := NewCartService(st)

	_, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: -2})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc := NewCartService(newMockCartStore())

	_, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCartUpdateQuantity(t *testing.T) {
	st := newMockCartStore(&models.Product{ID: 1, Price: decimal.NewFromInt(5)})
	svc := NewCartService(st)

	item, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	err = svc.Update(context.Background(), 7, item.ID, &UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)

	items, _ := svc.List(context.Background(), 7)
	assert.Equal(t, 4, items[0].Quantity)

	err = svc.Update(context.Background(), 7, item.ID, &UpdateCartItemRequest{Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCartUpdateOtherUsersLine(t *testing.T) {
	st := newMockCartStore(&models.Product{ID: 1, Price: decimal.NewFromInt(5)})
	svc := NewCartService(st)

	item, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	err = svc.Update(context.Background(), 8, item.ID, &UpdateCartItemRequest{Quantity: 2})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.Remove(context.Background(), 8, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCartRemove(t *testing.T) {
	st := newMockCartStore(&models.Product{ID: 1, Price: decimal.NewFromInt(5)})
	svc := NewCartService(st)

	item, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), 7, item.ID))

	items, _ := svc.List(context.Background(), 7)
	assert.Empty(t, items)
}

func TestCartMergeSumsAndSkipsInvalid(t *testing.T) {
	st := newMockCartStore(
		&models.Product{ID: 1, Price: decimal.RequireFromString("3.99")},
		&models.Product{ID: 2, Price: decimal.RequireFromString("19.95")},
	)
	svc := NewCartService(st)

	_, err := svc.Add(context.Background(), 7, &AddCartItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	merged, err := svc.Merge(context.Background(), 7, &MergeCartRequest{Items: []MergeItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 3},
		{ProductID: 99, Quantity: 1}, // unknown, skipped
		{ProductID: 2, Quantity: 0},  // non-positive, skipped
	}})
	require.NoError(t, err)
	require.Len(t, merged, 2)

	byProduct := map[int64]int{}
	for _, it := range merged {
		byProduct[it.ProductID] = it.Quantity
	}
	assert.Equal(t, 3, byProduct[1])
	assert.Equal(t, 3, byProduct[2])
}
